package engine

import (
	"encoding/json"
	"fmt"

	"github.com/vidgrab/vidgrab/internal/model"
)

// yt-dlp --dump-single-json shapes, limited to the fields the app reads.
type rawInfo struct {
	ID                string                  `json:"id"`
	Title             string                  `json:"title"`
	Channel           string                  `json:"channel"`
	ChannelID         string                  `json:"channel_id"`
	Description       string                  `json:"description"`
	Tags              []string                `json:"tags"`
	Categories        []string                `json:"categories"`
	Thumbnail         string                  `json:"thumbnail"`
	FormatID          string                  `json:"format_id"`
	Formats           []rawFormat             `json:"formats"`
	AutomaticCaptions map[string][]rawCaption `json:"automatic_captions"`
}

type rawFormat struct {
	FormatID       string  `json:"format_id"`
	FormatNote     string  `json:"format_note"`
	Ext            string  `json:"ext"`
	ACodec         string  `json:"acodec"`
	VCodec         string  `json:"vcodec"`
	AudioExt       string  `json:"audio_ext"`
	VideoExt       string  `json:"video_ext"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	FPS            float64 `json:"fps"`
	Quality        float64 `json:"quality"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
}

type rawCaption struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// ParseInfoJSON converts a yt-dlp single-JSON metadata dump into the
// domain model.
func ParseInfoJSON(data []byte) (*model.VideoInfo, error) {
	var raw rawInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid metadata JSON: %w", err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("metadata JSON carries no video id")
	}

	info := &model.VideoInfo{
		ID:           raw.ID,
		Title:        raw.Title,
		Channel:      raw.Channel,
		ChannelID:    raw.ChannelID,
		Description:  raw.Description,
		Tags:         raw.Tags,
		Categories:   raw.Categories,
		ThumbnailURL: raw.Thumbnail,
		BestFormatID: raw.FormatID,
	}

	info.Formats = make([]model.Format, 0, len(raw.Formats))
	for _, f := range raw.Formats {
		size := f.Filesize
		if size == 0 {
			size = f.FilesizeApprox
		}
		info.Formats = append(info.Formats, model.Format{
			ID:         f.FormatID,
			Note:       f.FormatNote,
			Container:  f.Ext,
			AudioCodec: f.ACodec,
			AudioExt:   f.AudioExt,
			VideoCodec: f.VCodec,
			VideoExt:   f.VideoExt,
			Width:      f.Width,
			Height:     f.Height,
			FPS:        f.FPS,
			Quality:    f.Quality,
			FileSize:   size,
		})
	}

	if len(raw.AutomaticCaptions) > 0 {
		info.Captions = make(map[string][]model.CaptionTrack, len(raw.AutomaticCaptions))
		for tag, group := range raw.AutomaticCaptions {
			tracks := make([]model.CaptionTrack, 0, len(group))
			for _, c := range group {
				tracks = append(tracks, model.CaptionTrack{Ext: c.Ext, URL: c.URL, Name: c.Name})
			}
			info.Captions[tag] = tracks
		}
	}

	return info, nil
}

package model

import (
	"fmt"
	"strings"
)

// Codec value yt-dlp reports for a missing track.
const CodecNone = "none"

// Format note that marks preview-image renditions.
const NoteStoryboard = "storyboard"

// VideoInfo is an immutable snapshot of fetched video metadata.
type VideoInfo struct {
	ID           string
	Title        string
	Channel      string
	ChannelID    string
	Description  string
	Tags         []string
	Categories   []string
	ThumbnailURL string

	// BestFormatID is the engine-suggested default selection, e.g. "137+251"
	// for a separate video and audio rendition.
	BestFormatID string

	Formats  []Format
	Captions map[string][]CaptionTrack
}

// Format describes one rendition offered by the video host.
type Format struct {
	ID         string
	Note       string
	Container  string
	AudioCodec string
	AudioExt   string
	VideoCodec string
	VideoExt   string
	Width      int
	Height     int
	FPS        float64
	Quality    float64
	FileSize   int64
}

// CaptionTrack is one caption rendition; the language tag is the key of
// VideoInfo.Captions. A "-orig" suffix in the tag marks the original-language
// track.
type CaptionTrack struct {
	Ext  string
	URL  string
	Name string
}

// IsVideo reports whether the format carries a video track.
func (f Format) IsVideo() bool {
	return f.VideoCodec != "" && f.VideoCodec != CodecNone
}

// IsAudio reports whether the format carries an audio track.
func (f Format) IsAudio() bool {
	return f.AudioCodec != "" && f.AudioCodec != CodecNone
}

// IsStoryboard reports whether the format is a storyboard preview rendition.
func (f Format) IsStoryboard() bool {
	return f.Note == NoteStoryboard
}

// Label returns a human-friendly pick-list entry for the format.
func (f Format) Label() string {
	var parts []string
	parts = append(parts, f.ID)
	if f.IsVideo() {
		parts = append(parts, fmt.Sprintf("%dx%d", f.Width, f.Height))
		if f.FPS > 0 {
			parts = append(parts, fmt.Sprintf("%.0ffps", f.FPS))
		}
	}
	if f.IsAudio() && f.AudioExt != "" {
		parts = append(parts, f.AudioExt)
	}
	if f.Note != "" {
		parts = append(parts, f.Note)
	}
	return strings.Join(parts, " | ")
}

// ThumbnailExt returns the file extension of the thumbnail URL, without the
// dot. Empty when the URL carries no extension.
func (v *VideoInfo) ThumbnailExt() string {
	url := v.ThumbnailURL
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	slash := strings.LastIndex(url, "/")
	dot := strings.LastIndex(url, ".")
	if dot <= slash || dot == len(url)-1 {
		return ""
	}
	return url[dot+1:]
}

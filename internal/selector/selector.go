package selector

import (
	"strings"

	"github.com/vidgrab/vidgrab/internal/model"
)

// Package selector derives the default audio/video pick-list selections from
// fetched metadata. The engine suggests a single combined "best" format; the
// UI needs independently addressable audio and video picks, so the defaults
// are resolved against the full rendition list deterministically.

// Audio scoring weights relative to the suggested best audio rendition.
const (
	scoreQualityMatch = 1
	scoreAudioExt     = 1
	scoreOriginalNote = 2
	scoreAudioCodec   = 1
	scoreIDMatch      = 1
)

// Note substring marking an original-language audio track.
const noteOriginal = "original"

// VideoList returns the video-only renditions in catalog order, excluding
// storyboards.
func VideoList(formats []model.Format) []model.Format {
	var out []model.Format
	for _, f := range formats {
		if f.IsStoryboard() || !f.IsVideo() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// AudioList returns the audio-only renditions in catalog order, excluding
// storyboards.
func AudioList(formats []model.Format) []model.Format {
	var out []model.Format
	for _, f := range formats {
		if f.IsStoryboard() || !f.IsAudio() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Suggested resolves the engine's combined suggestion (e.g. "137+251") into
// a suggested video format id and a suggested audio descriptor. When the
// suggestion is missing or not present in the catalog, it falls back to a
// ranked scan of the catalog.
func Suggested(info *model.VideoInfo) (videoID string, audio model.Format, audioOK bool) {
	parts := strings.Split(info.BestFormatID, "+")
	if len(parts) > 0 && parts[0] != "" {
		videoID = parts[0]
	}
	if len(parts) > 1 {
		if f, ok := lookup(info.Formats, parts[1]); ok && f.IsAudio() {
			return videoID, f, true
		}
	}
	if videoID == "" {
		if f, ok := bestVideoByRank(info.Formats); ok {
			videoID = f.ID
		}
	}
	audio, audioOK = bestAudioByRank(info.Formats)
	return videoID, audio, audioOK
}

// DefaultVideo picks the default video rendition: the first list entry whose
// id equals the suggested best video id. There is no scored fallback; an
// absent suggestion yields no default.
func DefaultVideo(videos []model.Format, bestVideoID string) (model.Format, bool) {
	if bestVideoID == "" {
		return model.Format{}, false
	}
	for _, f := range videos {
		if f.ID == bestVideoID {
			return f, true
		}
	}
	return model.Format{}, false
}

// DefaultAudio picks the default audio rendition by additive scoring against
// the suggested best audio descriptor. Only a strictly higher score replaces
// the incumbent, so equal-score candidates keep the earliest one seen.
func DefaultAudio(audios []model.Format, best model.Format) (model.Format, bool) {
	var picked model.Format
	bestScore := 0
	found := false
	for _, f := range audios {
		score := 0
		if f.Quality == best.Quality {
			score += scoreQualityMatch
		}
		if f.AudioExt == best.AudioExt {
			score += scoreAudioExt
		}
		if strings.Contains(f.Note, noteOriginal) {
			score += scoreOriginalNote
		}
		if f.AudioCodec == best.AudioCodec {
			score += scoreAudioCodec
		}
		if f.ID == best.ID {
			score += scoreIDMatch
		}
		if score > bestScore {
			bestScore = score
			picked = f
			found = true
		}
	}
	return picked, found
}

func lookup(formats []model.Format, id string) (model.Format, bool) {
	for _, f := range formats {
		if f.ID == id {
			return f, true
		}
	}
	return model.Format{}, false
}

// bestVideoByRank compares renditions on (height, width, fps, quality),
// earliest wins ties.
func bestVideoByRank(formats []model.Format) (model.Format, bool) {
	var best model.Format
	found := false
	for _, f := range formats {
		if f.IsStoryboard() || !f.IsVideo() {
			continue
		}
		if !found || videoRankAbove(f, best) {
			best = f
			found = true
		}
	}
	return best, found
}

// bestAudioByRank compares renditions on (quality, filesize), earliest wins
// ties.
func bestAudioByRank(formats []model.Format) (model.Format, bool) {
	var best model.Format
	found := false
	for _, f := range formats {
		if f.IsStoryboard() || !f.IsAudio() {
			continue
		}
		if !found || audioRankAbove(f, best) {
			best = f
			found = true
		}
	}
	return best, found
}

func videoRankAbove(a, b model.Format) bool {
	if a.Height != b.Height {
		return a.Height > b.Height
	}
	if a.Width != b.Width {
		return a.Width > b.Width
	}
	if a.FPS != b.FPS {
		return a.FPS > b.FPS
	}
	return a.Quality > b.Quality
}

func audioRankAbove(a, b model.Format) bool {
	if a.Quality != b.Quality {
		return a.Quality > b.Quality
	}
	return a.FileSize > b.FileSize
}

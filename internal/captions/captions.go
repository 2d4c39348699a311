package captions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vidgrab/vidgrab/internal/model"
)

// Package captions selects caption tracks from fetched metadata and writes
// the matching ones next to the downloaded video.

// Language-tag substrings that qualify a caption group for extraction.
var languageMarkers = []string{"en", "orig", "fa"}

// Tag suffix marking the original-language track.
const origSuffix = "-orig"

// FetchFunc retrieves the text of one caption track.
type FetchFunc func(ctx context.Context, url string) (string, error)

// Extract writes every qualifying caption track to
// <outputDir>/<stem>.<langSuffix>.<ext> and returns the written paths.
// A group qualifies when its language tag contains an entry of
// languageMarkers; a track qualifies when its extension is exactly "srt" or
// "vtt". The language suffix is "en" unless the tag contains "orig", in
// which case it is the tag with "-orig" removed.
//
// A failed fetch or write aborts the whole extraction. Per-track isolation
// would let the remaining tracks land, but a partial caption set is treated
// as a failed download operation.
func Extract(ctx context.Context, fetch FetchFunc, tracks map[string][]model.CaptionTrack, outputDir, stem string) ([]string, error) {
	var written []string
	for tag, group := range tracks {
		if !tagQualifies(tag) {
			continue
		}
		for _, track := range group {
			if track.Ext != "srt" && track.Ext != "vtt" {
				continue
			}
			text, err := fetch(ctx, track.URL)
			if err != nil {
				return written, fmt.Errorf("failed to fetch caption %q: %w", tag, err)
			}
			path := filepath.Join(outputDir, stem+"."+langSuffix(tag)+"."+track.Ext)
			if err := os.WriteFile(path, []byte(text), 0644); err != nil {
				return written, fmt.Errorf("failed to write caption %q: %w", tag, err)
			}
			written = append(written, path)
		}
	}
	return written, nil
}

func tagQualifies(tag string) bool {
	for _, marker := range languageMarkers {
		if strings.Contains(tag, marker) {
			return true
		}
	}
	return false
}

func langSuffix(tag string) string {
	if strings.Contains(tag, "orig") {
		return strings.ReplaceAll(tag, origSuffix, "")
	}
	return "en"
}

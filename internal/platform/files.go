package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Substrings that mark intermediate muxing artifacts in the output
// directory.
var TempArtifactMarkers = []string{"temp_audio_", "temp_video_"}

var unsafeTitleRunes = regexp.MustCompile(`[^ a-zA-Z0-9_.\-]`)

// SanitizeTitle strips every character outside [A-Za-z0-9_. -] from a video
// title and trims surrounding whitespace, yielding a filesystem-safe output
// file stem. The result is idempotent under repeated application.
func SanitizeTitle(title string) string {
	return strings.TrimSpace(unsafeTitleRunes.ReplaceAllString(title, ""))
}

// CreateDirectoryIfNotExists creates dirPath and any missing parents.
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// CleanupTempArtifacts deletes top-level files in outputDir whose names
// contain a temp-artifact marker. Directories are left alone and the scan is
// non-recursive. The first deletion failure is returned.
func CleanupTempArtifacts(outputDir string) error {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !hasTempMarker(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(outputDir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove temp artifact: %w", err)
		}
	}
	return nil
}

func hasTempMarker(name string) bool {
	for _, marker := range TempArtifactMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

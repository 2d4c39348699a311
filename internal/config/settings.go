package config

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeyOutputDir    = "output_directory"
	KeyDefaultURL   = "default_video_url"
	KeyBusCapacity  = "bus_capacity"
	KeyDebugLogging = "debug_logging"
)

// Default values
const (
	DefaultOutputDirName = "output"
	DefaultVideoURL      = "https://www.youtube.com/watch?v=1A6uPztchXk"
	DefaultBusCapacity   = 16
	DefaultDebugLogging  = false
)

// Settings manages application configuration backed by Fyne preferences.
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager.
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetOutputDirectory returns the directory downloads are written to.
func (s *Settings) GetOutputDirectory() string {
	dir := s.app.Preferences().String(KeyOutputDir)
	if dir == "" {
		dir = defaultOutputDirectory()
		s.SetOutputDirectory(dir)
	}
	return dir
}

// SetOutputDirectory sets the download output directory.
func (s *Settings) SetOutputDirectory(dir string) {
	s.app.Preferences().SetString(KeyOutputDir, dir)
}

// GetDefaultURL returns the URL pre-filled in the URL entry.
func (s *Settings) GetDefaultURL() string {
	url := s.app.Preferences().String(KeyDefaultURL)
	if url == "" {
		s.SetDefaultURL(DefaultVideoURL)
		return DefaultVideoURL
	}
	return url
}

// SetDefaultURL sets the URL pre-filled in the URL entry.
func (s *Settings) SetDefaultURL(url string) {
	s.app.Preferences().SetString(KeyDefaultURL, url)
}

// GetBusCapacity returns the per-subscriber buffer size of the message
// buses.
func (s *Settings) GetBusCapacity() int {
	value := s.app.Preferences().Int(KeyBusCapacity)
	if value <= 0 {
		s.SetBusCapacity(DefaultBusCapacity)
		return DefaultBusCapacity
	}
	return value
}

// SetBusCapacity sets the per-subscriber buffer size of the message buses.
func (s *Settings) SetBusCapacity(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	s.app.Preferences().SetInt(KeyBusCapacity, capacity)
}

// GetDebugLogging returns whether debug-level logging is enabled.
func (s *Settings) GetDebugLogging() bool {
	return s.app.Preferences().BoolWithFallback(KeyDebugLogging, DefaultDebugLogging)
}

// SetDebugLogging sets whether debug-level logging is enabled.
func (s *Settings) SetDebugLogging(debug bool) {
	s.app.Preferences().SetBool(KeyDebugLogging, debug)
}

func defaultOutputDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultOutputDirName
	}
	return filepath.Join(home, "Downloads", DefaultOutputDirName)
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vidgrab/vidgrab/internal/captions"
	"github.com/vidgrab/vidgrab/internal/engine"
	"github.com/vidgrab/vidgrab/internal/model"
	"github.com/vidgrab/vidgrab/internal/platform"
)

// Package session owns one video's lifecycle: URL, fetched metadata,
// selected formats and produced artifacts. A session is single-writer: only
// the worker goroutine mutates it, so no locking is needed.

// Extension used when the thumbnail URL carries none.
const fallbackThumbnailExt = "jpg"

// Container of the muxed output video.
const videoExt = "mp4"

// Session tracks the state of one video from URL to downloaded artifacts.
type Session struct {
	VideoURL   string
	OutputDir  string
	OutputStem string

	Info *model.VideoInfo

	SelectedVideoFormatID string
	SelectedAudioFormatID string

	ThumbnailPath string
	VideoPath     string

	log zerolog.Logger
}

// New creates an empty session writing artifacts under outputDir.
func New(outputDir string) *Session {
	return &Session{
		OutputDir: outputDir,
		log:       log.With().Str("component", "session").Logger(),
	}
}

// SetURL points the session at a new video and clears all per-video state.
// It does not fetch anything.
func (s *Session) SetURL(url string) {
	s.VideoURL = url
	s.OutputStem = ""
	s.Info = nil
	s.SelectedVideoFormatID = ""
	s.SelectedAudioFormatID = ""
	s.ThumbnailPath = ""
	s.VideoPath = ""
}

// FetchInfo retrieves metadata for the current URL, derives the sanitized
// output stem from the title, and writes a metadata dump to
// <outputDir>/<stem>.txt. The session is left untouched on failure.
func (s *Session) FetchInfo(ctx context.Context, eng engine.Engine) (*model.VideoInfo, error) {
	info, err := eng.FetchInfo(ctx, s.VideoURL)
	if err != nil {
		return nil, err
	}
	stem := platform.SanitizeTitle(info.Title)

	if err := platform.CreateDirectoryIfNotExists(s.OutputDir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	dump, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render metadata dump: %w", err)
	}
	dumpPath := filepath.Join(s.OutputDir, stem+".txt")
	if err := os.WriteFile(dumpPath, dump, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata dump: %w", err)
	}

	s.Info = info
	s.OutputStem = stem
	s.log.Debug().Str("id", info.ID).Str("stem", stem).Msg("video info fetched")
	return info, nil
}

// FetchThumbnail downloads the thumbnail next to the future video file and
// records its path. Metadata must have been fetched first.
func (s *Session) FetchThumbnail(ctx context.Context, eng engine.Engine) (string, error) {
	if s.Info == nil {
		return "", fmt.Errorf("no metadata fetched for %s", s.VideoURL)
	}
	if s.Info.ThumbnailURL == "" {
		return "", nil
	}
	ext := s.Info.ThumbnailExt()
	if ext == "" {
		ext = fallbackThumbnailExt
	}
	dest := filepath.Join(s.OutputDir, s.OutputStem+"."+ext)
	path, err := eng.FetchThumbnail(ctx, s.Info.ThumbnailURL, dest)
	if err != nil {
		return "", err
	}
	s.ThumbnailPath = path
	return path, nil
}

// FormatSpec renders the selected renditions as a yt-dlp format string.
// Missing selections fall back to the engine default.
func (s *Session) FormatSpec() string {
	if s.SelectedVideoFormatID == "" || s.SelectedAudioFormatID == "" {
		return engine.DefaultFormatSpec
	}
	return s.SelectedVideoFormatID + "+" + s.SelectedAudioFormatID
}

// Download fetches the video with the selected formats, sweeps intermediate
// muxing artifacts from the output directory, and extracts matching caption
// tracks. Progress samples are forwarded to onProgress as they arrive.
func (s *Session) Download(ctx context.Context, eng engine.Engine, onProgress func(downloaded, total int64)) (string, error) {
	if s.Info == nil {
		return "", fmt.Errorf("no metadata fetched for %s", s.VideoURL)
	}
	dest := filepath.Join(s.OutputDir, s.OutputStem+"."+videoExt)

	handle, err := eng.StartDownload(ctx, s.VideoURL, s.FormatSpec(), dest, onProgress)
	if err != nil {
		return "", err
	}
	if err := handle.Wait(ctx); err != nil {
		return "", err
	}
	s.VideoPath = dest
	s.log.Debug().Str("path", dest).Msg("download finished")

	if err := platform.CleanupTempArtifacts(s.OutputDir); err != nil {
		return "", err
	}

	written, err := captions.Extract(ctx, eng.FetchCaption, s.Info.Captions, s.OutputDir, s.OutputStem)
	if err != nil {
		return "", err
	}
	s.log.Debug().Int("captions", len(written)).Msg("captions extracted")

	return dest, nil
}

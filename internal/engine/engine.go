package engine

import (
	"context"

	"github.com/vidgrab/vidgrab/internal/model"
)

// Package engine wraps the metadata-extraction/media-fetch tooling behind a
// small interface. The worker and session only see this boundary; the
// concrete implementation shells out to yt-dlp.

// Handle tracks one in-flight download started by StartDownload.
type Handle interface {
	// Wait blocks until the download completes or fails.
	Wait(ctx context.Context) error
}

// Engine is the delegated collaborator performing all host-facing work.
type Engine interface {
	// FetchInfo retrieves video metadata for a URL.
	FetchInfo(ctx context.Context, url string) (*model.VideoInfo, error)

	// FetchThumbnail downloads the thumbnail image to destPath and returns
	// the written path.
	FetchThumbnail(ctx context.Context, thumbnailURL, destPath string) (string, error)

	// StartDownload begins downloading the video into destPath using the
	// given yt-dlp format spec, reporting byte counters through onProgress.
	StartDownload(ctx context.Context, url, formatSpec, destPath string, onProgress func(downloaded, total int64)) (Handle, error)

	// FetchCaption retrieves the text of one caption track (plain HTTP GET).
	FetchCaption(ctx context.Context, url string) (string, error)

	// Install installs the external executables.
	Install(ctx context.Context) error

	// Update updates the external executables.
	Update(ctx context.Context) error
}

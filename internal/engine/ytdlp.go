package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vidgrab/vidgrab/internal/model"
)

// Format spec used when no renditions are selected.
const DefaultFormatSpec = "bestvideo+bestaudio/best"

// How often yt-dlp progress callbacks fire.
const progressInterval = 500 * time.Millisecond

const httpTimeout = 30 * time.Second

// YTDLP implements Engine on the yt-dlp executable via
// github.com/lrstanley/go-ytdlp, plus plain HTTP for thumbnails and
// captions.
type YTDLP struct {
	client *http.Client
	log    zerolog.Logger
}

// NewYTDLP creates the yt-dlp backed engine.
func NewYTDLP() *YTDLP {
	return &YTDLP{
		client: &http.Client{Timeout: httpTimeout},
		log:    log.With().Str("component", "engine").Logger(),
	}
}

// FetchInfo runs a metadata-only yt-dlp invocation and parses its JSON
// dump.
func (y *YTDLP) FetchInfo(ctx context.Context, url string) (*model.VideoInfo, error) {
	result, err := ytdlp.New().
		SkipDownload().
		DumpSingleJSON().
		Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video info: %w", err)
	}
	info, err := ParseInfoJSON([]byte(result.Stdout))
	if err != nil {
		return nil, fmt.Errorf("failed to parse video info: %w", err)
	}
	y.log.Debug().Str("id", info.ID).Int("formats", len(info.Formats)).Msg("video info fetched")
	return info, nil
}

// FetchThumbnail downloads the thumbnail image over HTTP.
func (y *YTDLP) FetchThumbnail(ctx context.Context, thumbnailURL, destPath string) (string, error) {
	body, err := y.get(ctx, thumbnailURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch thumbnail: %w", err)
	}
	if err := os.WriteFile(destPath, body, 0644); err != nil {
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}
	return destPath, nil
}

// StartDownload launches yt-dlp for the video and returns a handle joined
// by Wait. Progress callbacks arrive on yt-dlp's cadence.
func (y *YTDLP) StartDownload(ctx context.Context, url, formatSpec, destPath string, onProgress func(downloaded, total int64)) (Handle, error) {
	if formatSpec == "" {
		formatSpec = DefaultFormatSpec
	}
	dl := ytdlp.New().
		ForceOverwrites().
		Format(formatSpec).
		Output(destPath)
	dl.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
		onProgress(int64(update.DownloadedBytes), int64(update.TotalBytes))
	})

	d := &download{
		id:   "dl-" + uuid.NewString(),
		done: make(chan struct{}),
	}
	y.log.Debug().Str("download", d.id).Str("format", formatSpec).Msg("starting download")
	go func() {
		_, err := dl.Run(ctx, url)
		if err != nil {
			d.err = fmt.Errorf("download failed: %w", err)
		}
		close(d.done)
	}()
	return d, nil
}

// FetchCaption retrieves one caption track as text.
func (y *YTDLP) FetchCaption(ctx context.Context, url string) (string, error) {
	body, err := y.get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch caption: %w", err)
	}
	return string(body), nil
}

// Install downloads the yt-dlp executable for this platform.
func (y *YTDLP) Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	y.log.Info().Msg("yt-dlp installed")
	return nil
}

// Update runs yt-dlp's self-updater.
func (y *YTDLP) Update(ctx context.Context) error {
	if _, err := ytdlp.New().Update(ctx); err != nil {
		return fmt.Errorf("failed to update yt-dlp: %w", err)
	}
	y.log.Info().Msg("yt-dlp updated")
	return nil
}

func (y *YTDLP) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

type download struct {
	id   string
	err  error
	done chan struct{}
}

func (d *download) Wait(ctx context.Context) error {
	select {
	case <-d.done:
		return d.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

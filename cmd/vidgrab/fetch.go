package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vidgrab/vidgrab/internal/engine"
	"github.com/vidgrab/vidgrab/internal/platform"
	"github.com/vidgrab/vidgrab/internal/selector"
	"github.com/vidgrab/vidgrab/internal/session"
)

// Fallback output directory for headless runs without -o.
const headlessOutputDir = "output"

// BatchEntry is one video in a batch file.
type BatchEntry struct {
	Link string `yaml:"link"`
	Op   string `yaml:"op,omitempty"`
}

// BatchFile lists the videos of a headless batch run.
type BatchFile struct {
	Videos []BatchEntry `yaml:"videos"`
}

func newFetchCmd() *cobra.Command {
	var batchFile string
	var infoOnly bool

	cmd := &cobra.Command{
		Use:   "fetch [URL...]",
		Short: "Download videos without the GUI",
		Run: func(cmd *cobra.Command, args []string) {
			entries, err := collectEntries(args, batchFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if len(entries) == 0 {
				fmt.Fprintln(os.Stderr, "No URL or batch file provided")
				os.Exit(1)
			}

			eng := engine.NewYTDLP()
			ctx := context.Background()
			failures := 0
			for _, entry := range entries {
				if err := fetchOne(ctx, eng, entry, infoOnly); err != nil {
					log.Error().Err(err).Str("url", entry.Link).Msg("fetch failed")
					failures++
				}
			}
			if failures > 0 {
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVar(&batchFile, "batch", "", "YAML file listing videos to download")
	cmd.Flags().BoolVar(&infoOnly, "info-only", false, "fetch and dump metadata without downloading")
	return cmd
}

func collectEntries(args []string, batchFile string) ([]BatchEntry, error) {
	var entries []BatchEntry
	for _, url := range args {
		entries = append(entries, BatchEntry{Link: url})
	}
	if batchFile == "" {
		return entries, nil
	}
	data, err := os.ReadFile(batchFile)
	if err != nil {
		return nil, fmt.Errorf("error reading batch file: %w", err)
	}
	var batch BatchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("error parsing batch file: %w", err)
	}
	for _, entry := range batch.Videos {
		if entry.Link == "" {
			fmt.Fprintln(os.Stderr, "Warning: empty link in batch file, skipping...")
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// fetchOne runs the full lifecycle for one URL on the calling goroutine,
// mirroring what the worker does for the GUI.
func fetchOne(ctx context.Context, eng engine.Engine, entry BatchEntry, infoOnly bool) error {
	out := entry.Op
	if out == "" {
		out = outputDir
	}
	if out == "" {
		out = headlessOutputDir
	}
	if err := platform.CreateDirectoryIfNotExists(out); err != nil {
		return err
	}

	sess := session.New(out)
	sess.SetURL(entry.Link)

	info, err := sess.FetchInfo(ctx, eng)
	if err != nil {
		return err
	}
	log.Info().Str("title", info.Title).Str("channel", info.Channel).Msg("video info fetched")
	if infoOnly {
		return nil
	}

	videoID, bestAudio, audioOK := selector.Suggested(info)
	if f, ok := selector.DefaultVideo(selector.VideoList(info.Formats), videoID); ok {
		sess.SelectedVideoFormatID = f.ID
	}
	if audioOK {
		if f, ok := selector.DefaultAudio(selector.AudioList(info.Formats), bestAudio); ok {
			sess.SelectedAudioFormatID = f.ID
		}
	}

	if path, err := sess.FetchThumbnail(ctx, eng); err != nil {
		return err
	} else if path != "" {
		log.Info().Str("path", path).Msg("thumbnail fetched")
	}

	path, err := sess.Download(ctx, eng, func(downloaded, total int64) {
		log.Debug().Int64("downloaded", downloaded).Int64("total", total).Msg("progress")
	})
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("video downloaded")
	return nil
}

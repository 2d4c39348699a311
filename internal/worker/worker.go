package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vidgrab/vidgrab/internal/bus"
	"github.com/vidgrab/vidgrab/internal/engine"
	"github.com/vidgrab/vidgrab/internal/message"
	"github.com/vidgrab/vidgrab/internal/progress"
	"github.com/vidgrab/vidgrab/internal/session"
)

// Package worker runs the background command loop. It is the session's only
// writer: commands are received from the UI→Worker bus and handled strictly
// one at a time, each terminating in exactly one success event or one
// StatusMessage on the Worker→UI bus.

// Worker consumes commands, drives the download session, and emits events.
type Worker struct {
	eng      engine.Engine
	sess     *session.Session
	commands *bus.Subscriber[message.Command]
	events   *bus.Bus[message.Event]
	reporter *progress.Reporter
	state    State
	log      zerolog.Logger
}

// New creates a worker around an empty session writing to outputDir. The
// worker subscribes to the command bus immediately so commands published
// before Run are not lost.
func New(eng engine.Engine, outputDir string, commands *bus.Bus[message.Command], events *bus.Bus[message.Event]) *Worker {
	w := &Worker{
		eng:      eng,
		sess:     session.New(outputDir),
		commands: commands.Subscribe(),
		events:   events,
		state:    StateIdle,
		log:      log.With().Str("component", "worker").Logger(),
	}
	w.reporter = progress.NewReporter(events.Publish)
	return w
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	return w.state
}

// Session exposes the session for headless callers running on the worker
// goroutine. UI code must never touch it.
func (w *Worker) Session() *session.Session {
	return w.sess
}

// Run receives and handles commands until the command bus closes or ctx is
// canceled. Lagging on the command bus is logged and receiving resumes.
func (w *Worker) Run(ctx context.Context) {
	for {
		cmd, err := w.commands.Recv(ctx)
		if err != nil {
			var lag *bus.LagError
			switch {
			case errors.As(err, &lag):
				w.log.Warn().Uint64("missed", lag.Missed).Msg("lagged on command bus")
				continue
			case errors.Is(err, bus.ErrClosed):
				w.log.Debug().Msg("command bus closed, stopping")
				return
			default:
				w.log.Debug().Err(err).Msg("stopping")
				return
			}
		}
		w.handle(ctx, cmd)
	}
}

// handle runs one command to completion. Worker-side failures become
// StatusMessage events; the loop itself never crashes on them.
func (w *Worker) handle(ctx context.Context, cmd message.Command) {
	switch c := cmd.(type) {
	case message.InstallLibraries:
		w.state = StateInstallingLibraries
		err := w.eng.Install(ctx)
		w.state = StateIdle
		if err != nil {
			w.fail("Failed to install libraries", err)
		} else {
			w.events.Publish(message.LibrariesInstalled{})
		}

	case message.UpdateLibraries:
		w.state = StateUpdatingLibraries
		err := w.eng.Update(ctx)
		w.state = StateIdle
		if err != nil {
			w.fail("Failed to update libraries", err)
		} else {
			w.events.Publish(message.LibrariesUpdated{})
		}

	case message.URLChanged:
		w.sess.SetURL(c.URL)
		w.state = StateIdle
		w.events.Publish(message.StatusMessage{Text: "URL updated."})

	case message.FetchInfo:
		w.state = StateFetchingInfo
		info, err := w.sess.FetchInfo(ctx, w.eng)
		if err != nil {
			w.state = StateIdle
			w.fail("Failed to fetch video info", err)
			return
		}
		w.state = StateInfoReady
		w.events.Publish(message.InfoFetched{Info: *info})

	case message.FetchThumbnail:
		w.state = StateFetchingThumbnail
		path, err := w.sess.FetchThumbnail(ctx, w.eng)
		if err != nil {
			w.state = StateInfoReady
			w.fail("Failed to fetch thumbnail", err)
			return
		}
		w.state = StateThumbnailReady
		w.events.Publish(message.ThumbnailFetched{Path: path})

	case message.SelectVideoFormat:
		w.sess.SelectedVideoFormatID = c.Format.ID
		w.events.Publish(message.StatusMessage{Text: "Video format selected: " + c.Format.ID})

	case message.SelectAudioFormat:
		w.sess.SelectedAudioFormatID = c.Format.ID
		w.events.Publish(message.StatusMessage{Text: "Audio format selected: " + c.Format.ID})

	case message.DownloadVideo:
		w.state = StateDownloading
		path, err := w.sess.Download(ctx, w.eng, w.reporter.Sample)
		if err != nil {
			w.state = StateThumbnailReady
			w.fail("Failed to download video", err)
			return
		}
		w.state = StateCompleted
		w.events.Publish(message.VideoDownloaded{Path: path})

	default:
		// The unions are closed; reaching this means a variant was added
		// without a handler.
		w.log.Error().Str("command", fmt.Sprintf("%T", cmd)).Msg("unhandled command")
		w.events.Publish(message.StatusMessage{Text: fmt.Sprintf("Unhandled command %T.", cmd)})
	}
}

func (w *Worker) fail(what string, err error) {
	w.log.Error().Err(err).Msg(what)
	w.events.Publish(message.StatusMessage{Text: fmt.Sprintf("%s: %v", what, err)})
}

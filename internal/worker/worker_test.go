package worker

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/vidgrab/vidgrab/internal/bus"
	"github.com/vidgrab/vidgrab/internal/engine"
	"github.com/vidgrab/vidgrab/internal/message"
	"github.com/vidgrab/vidgrab/internal/model"
)

type fakeHandle struct{ err error }

func (h fakeHandle) Wait(context.Context) error { return h.err }

type fakeEngine struct {
	info        *model.VideoInfo
	infoErr     error
	downloadErr error
	installErr  error

	installed bool
	updated   bool
}

func (f *fakeEngine) FetchInfo(context.Context, string) (*model.VideoInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeEngine) FetchThumbnail(_ context.Context, _, destPath string) (string, error) {
	if err := os.WriteFile(destPath, []byte("img"), 0644); err != nil {
		return "", err
	}
	return destPath, nil
}

func (f *fakeEngine) StartDownload(_ context.Context, _, _, destPath string, onProgress func(int64, int64)) (engine.Handle, error) {
	onProgress(100, 400)
	onProgress(400, 400)
	if f.downloadErr != nil {
		return fakeHandle{err: f.downloadErr}, nil
	}
	if err := os.WriteFile(destPath, []byte("video"), 0644); err != nil {
		return nil, err
	}
	return fakeHandle{}, nil
}

func (f *fakeEngine) FetchCaption(context.Context, string) (string, error) {
	return "WEBVTT", nil
}

func (f *fakeEngine) Install(context.Context) error {
	f.installed = true
	return f.installErr
}

func (f *fakeEngine) Update(context.Context) error {
	f.updated = true
	return nil
}

func testInfo() *model.VideoInfo {
	return &model.VideoInfo{
		ID:           "abc123",
		Title:        "Test Video",
		ThumbnailURL: "https://host/thumb.jpg",
		BestFormatID: "137+251",
		Formats: []model.Format{
			{ID: "137", VideoCodec: "avc1", AudioCodec: "none"},
			{ID: "251", VideoCodec: "none", AudioCodec: "opus"},
		},
	}
}

// startWorker wires a worker to fresh buses and runs it until the test ends.
func startWorker(t *testing.T, eng engine.Engine) (*Worker, *bus.Bus[message.Command], *bus.Subscriber[message.Event]) {
	t.Helper()
	commands := bus.New[message.Command](bus.DefaultCapacity)
	events := bus.New[message.Event](64)
	sub := events.Subscribe()
	w := New(eng, t.TempDir(), commands, events)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		commands.Close()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Worker did not stop")
		}
	})
	return w, commands, sub
}

func nextEvent(t *testing.T, sub *bus.Subscriber[message.Event]) message.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		ev, err := sub.Recv(ctx)
		if err != nil {
			var lag *bus.LagError
			if errors.As(err, &lag) {
				continue
			}
			t.Fatalf("Expected an event, got %v", err)
		}
		return ev
	}
}

func TestFetchInfoEmitsInfoBeforeThumbnail(t *testing.T) {
	_, commands, events := startWorker(t, &fakeEngine{info: testInfo()})

	commands.Publish(message.URLChanged{URL: "https://example.com/watch?v=abc123"})
	commands.Publish(message.FetchInfo{})
	commands.Publish(message.FetchThumbnail{})

	var infoCount int
	for {
		switch ev := nextEvent(t, events).(type) {
		case message.InfoFetched:
			infoCount++
			if ev.Info.ID != "abc123" {
				t.Errorf("Unexpected info id %s", ev.Info.ID)
			}
		case message.ThumbnailFetched:
			if infoCount != 1 {
				t.Fatalf("Expected exactly one InfoFetched before ThumbnailFetched, got %d", infoCount)
			}
			if ev.Path == "" {
				t.Error("Expected a thumbnail path")
			}
			return
		}
	}
}

func TestFetchInfoFailureReturnsToIdle(t *testing.T) {
	w, commands, events := startWorker(t, &fakeEngine{infoErr: errors.New("no such video")})

	commands.Publish(message.URLChanged{URL: "https://example.com/watch?v=gone"})
	commands.Publish(message.FetchInfo{})

	for {
		ev := nextEvent(t, events)
		status, ok := ev.(message.StatusMessage)
		if !ok {
			continue
		}
		if status.Text == "URL updated." {
			continue
		}
		if want := "Failed to fetch video info"; len(status.Text) < len(want) || status.Text[:len(want)] != want {
			t.Errorf("Unexpected status text %q", status.Text)
		}
		break
	}

	if w.State() != StateIdle {
		t.Errorf("Expected worker back in Idle, got %s", w.State())
	}
}

func TestSelectCommandsRecordSelections(t *testing.T) {
	w, commands, events := startWorker(t, &fakeEngine{info: testInfo()})

	commands.Publish(message.SelectVideoFormat{Format: model.Format{ID: "137"}})
	commands.Publish(message.SelectAudioFormat{Format: model.Format{ID: "251"}})

	seen := 0
	for seen < 2 {
		if _, ok := nextEvent(t, events).(message.StatusMessage); ok {
			seen++
		}
	}

	if w.Session().SelectedVideoFormatID != "137" {
		t.Errorf("Expected video selection 137, got %q", w.Session().SelectedVideoFormatID)
	}
	if w.Session().SelectedAudioFormatID != "251" {
		t.Errorf("Expected audio selection 251, got %q", w.Session().SelectedAudioFormatID)
	}
}

func TestDownloadEmitsProgressThenVideoDownloaded(t *testing.T) {
	w, commands, events := startWorker(t, &fakeEngine{info: testInfo()})

	commands.Publish(message.URLChanged{URL: "https://example.com/watch?v=abc123"})
	commands.Publish(message.FetchInfo{})
	commands.Publish(message.FetchThumbnail{})
	commands.Publish(message.DownloadVideo{})

	var progressSeen int
	var lastPct float32
	for {
		switch ev := nextEvent(t, events).(type) {
		case message.ProgressUpdated:
			progressSeen++
			if ev.Percentage < lastPct {
				t.Errorf("Progress went backwards: %v after %v", ev.Percentage, lastPct)
			}
			lastPct = ev.Percentage
		case message.VideoDownloaded:
			if progressSeen == 0 {
				t.Error("Expected progress events before completion")
			}
			if ev.Path == "" {
				t.Error("Expected a video path")
			}
			if w.State() != StateCompleted {
				t.Errorf("Expected Completed state, got %s", w.State())
			}
			return
		}
	}
}

func TestInstallAndUpdateLibraries(t *testing.T) {
	eng := &fakeEngine{}
	_, commands, events := startWorker(t, eng)

	commands.Publish(message.InstallLibraries{})
	commands.Publish(message.UpdateLibraries{})

	var installed, updated bool
	for !installed || !updated {
		switch nextEvent(t, events).(type) {
		case message.LibrariesInstalled:
			installed = true
		case message.LibrariesUpdated:
			updated = true
		}
	}

	if !eng.installed || !eng.updated {
		t.Error("Expected engine install and update to be invoked")
	}
}

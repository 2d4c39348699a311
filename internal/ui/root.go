package ui

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vidgrab/vidgrab/internal/bus"
	"github.com/vidgrab/vidgrab/internal/message"
	"github.com/vidgrab/vidgrab/internal/model"
	"github.com/vidgrab/vidgrab/internal/selector"
)

// Thumbnail preview size
const (
	ThumbnailWidth  = 320
	ThumbnailHeight = 180
)

// Initial status line
const StatusReady = "Ready"

// RootUI is the single-session downloader surface.
type RootUI struct {
	window   fyne.Window
	commands *bus.Bus[message.Command]
	events   *bus.Subscriber[message.Event]
	log      zerolog.Logger

	urlEntry    *widget.Entry
	fetchBtn    *widget.Button
	downloadBtn *widget.Button
	installBtn  *widget.Button
	updateBtn   *widget.Button

	titleLabel       *widget.Label
	channelLabel     *widget.Label
	descriptionLabel *widget.Label
	statusLabel      *widget.Label

	videoSelect *widget.Select
	audioSelect *widget.Select

	thumbnail   *canvas.Image
	progressBar *widget.ProgressBar

	// Rendering state, owned by the UI goroutine.
	videoFormats []model.Format
	audioFormats []model.Format
}

// NewRootUI builds the surface, wires it to the bus pair, and starts the
// event consumer. The consumer stops when ctx is canceled or the event bus
// closes.
func NewRootUI(ctx context.Context, window fyne.Window, defaultURL string, commands *bus.Bus[message.Command], events *bus.Bus[message.Event]) *RootUI {
	ui := &RootUI{
		window:   window,
		commands: commands,
		events:   events.Subscribe(),
		log:      log.With().Str("component", "ui").Logger(),
	}
	ui.buildWidgets(defaultURL)
	window.SetContent(ui.layout())

	if defaultURL != "" {
		commands.Publish(message.URLChanged{URL: defaultURL})
	}
	go ui.consumeEvents(ctx)
	return ui
}

func (ui *RootUI) buildWidgets(defaultURL string) {
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetText(defaultURL)
	ui.urlEntry.OnChanged = func(url string) {
		ui.commands.Publish(message.URLChanged{URL: url})
		ui.downloadBtn.Disable()
	}

	ui.fetchBtn = widget.NewButton("Fetch Info", func() {
		ui.statusLabel.SetText("Fetching Video Info...")
		ui.setBusy(true)
		ui.commands.Publish(message.FetchInfo{})
	})
	ui.downloadBtn = widget.NewButton("Download", func() {
		ui.statusLabel.SetText("Downloading Video...")
		ui.setBusy(true)
		ui.progressBar.SetValue(0)
		ui.commands.Publish(message.DownloadVideo{})
	})
	ui.downloadBtn.Disable()
	ui.installBtn = widget.NewButton("Install Libraries", func() {
		ui.statusLabel.SetText("Installing libraries...")
		ui.setBusy(true)
		ui.commands.Publish(message.InstallLibraries{})
	})
	ui.updateBtn = widget.NewButton("Update Libraries", func() {
		ui.statusLabel.SetText("Updating libraries...")
		ui.setBusy(true)
		ui.commands.Publish(message.UpdateLibraries{})
	})

	ui.titleLabel = widget.NewLabel("")
	ui.channelLabel = widget.NewLabel("")
	ui.descriptionLabel = widget.NewLabel("")
	ui.descriptionLabel.Wrapping = fyne.TextWrapWord
	ui.statusLabel = widget.NewLabel(StatusReady)

	ui.videoSelect = widget.NewSelect(nil, func(label string) {
		if f, ok := formatByLabel(ui.videoFormats, label); ok {
			ui.commands.Publish(message.SelectVideoFormat{Format: f})
		}
	})
	ui.audioSelect = widget.NewSelect(nil, func(label string) {
		if f, ok := formatByLabel(ui.audioFormats, label); ok {
			ui.commands.Publish(message.SelectAudioFormat{Format: f})
		}
	})

	ui.thumbnail = canvas.NewImageFromResource(nil)
	ui.thumbnail.FillMode = canvas.ImageFillContain
	ui.thumbnail.SetMinSize(fyne.NewSize(ThumbnailWidth, ThumbnailHeight))

	ui.progressBar = widget.NewProgressBar()
}

func (ui *RootUI) layout() fyne.CanvasObject {
	top := container.NewVBox(
		ui.urlEntry,
		container.NewHBox(ui.fetchBtn, ui.downloadBtn, ui.installBtn, ui.updateBtn),
	)
	meta := container.NewVBox(
		ui.titleLabel,
		ui.channelLabel,
		ui.descriptionLabel,
		widget.NewLabel("Video format:"), ui.videoSelect,
		widget.NewLabel("Audio format:"), ui.audioSelect,
	)
	bottom := container.NewVBox(ui.progressBar, ui.statusLabel)
	return container.NewBorder(top, bottom, nil, nil, container.NewHBox(ui.thumbnail, meta))
}

// consumeEvents is the UI side of the bus: it blocks on the event
// subscription and hands each event to the Fyne thread.
func (ui *RootUI) consumeEvents(ctx context.Context) {
	for {
		ev, err := ui.events.Recv(ctx)
		if err != nil {
			var lag *bus.LagError
			if errors.As(err, &lag) {
				ui.log.Warn().Uint64("missed", lag.Missed).Msg("lagged on event bus")
				continue
			}
			return
		}
		fyne.Do(func() { ui.apply(ev) })
	}
}

// apply updates widgets for one event. Runs on the Fyne thread.
func (ui *RootUI) apply(ev message.Event) {
	switch e := ev.(type) {
	case message.StatusMessage:
		ui.statusLabel.SetText(e.Text)
		ui.setBusy(false)

	case message.InfoFetched:
		ui.showInfo(e.Info)
		ui.statusLabel.SetText("Video Info Fetched.")
		ui.commands.Publish(message.FetchThumbnail{})

	case message.ThumbnailFetched:
		if e.Path != "" {
			ui.thumbnail.File = e.Path
			ui.thumbnail.Refresh()
		}
		ui.statusLabel.SetText("Video Thumbnail Fetched.")
		ui.setBusy(false)
		ui.downloadBtn.Enable()

	case message.VideoDownloaded:
		ui.statusLabel.SetText(fmt.Sprintf("Video Downloaded to %s.", e.Path))
		ui.progressBar.SetValue(1)
		ui.setBusy(false)
		ui.downloadBtn.Enable()

	case message.ProgressUpdated:
		ui.progressBar.SetValue(float64(e.Percentage) / 100)

	case message.LibrariesInstalled:
		ui.statusLabel.SetText("Libraries installed.")
		ui.setBusy(false)

	case message.LibrariesUpdated:
		ui.statusLabel.SetText("Libraries updated.")
		ui.setBusy(false)

	default:
		ui.log.Warn().Str("event", fmt.Sprintf("%T", ev)).Msg("unhandled event")
	}
}

// showInfo renders metadata and seeds the two pick lists with their
// default selections.
func (ui *RootUI) showInfo(info model.VideoInfo) {
	ui.titleLabel.SetText(info.Title)
	ui.channelLabel.SetText(info.Channel)
	ui.descriptionLabel.SetText(info.Description)

	ui.videoFormats = selector.VideoList(info.Formats)
	ui.audioFormats = selector.AudioList(info.Formats)
	ui.videoSelect.Options = formatLabels(ui.videoFormats)
	ui.audioSelect.Options = formatLabels(ui.audioFormats)
	ui.videoSelect.Refresh()
	ui.audioSelect.Refresh()

	bestVideoID, bestAudio, audioOK := selector.Suggested(&info)
	if f, ok := selector.DefaultVideo(ui.videoFormats, bestVideoID); ok {
		// SetSelected fires the select callback, which publishes the command.
		ui.videoSelect.SetSelected(f.Label())
	}
	if audioOK {
		if f, ok := selector.DefaultAudio(ui.audioFormats, bestAudio); ok {
			ui.audioSelect.SetSelected(f.Label())
		}
	}
}

func (ui *RootUI) setBusy(busy bool) {
	if busy {
		ui.fetchBtn.Disable()
		ui.installBtn.Disable()
		ui.updateBtn.Disable()
		ui.downloadBtn.Disable()
		return
	}
	ui.fetchBtn.Enable()
	ui.installBtn.Enable()
	ui.updateBtn.Enable()
}

func formatLabels(formats []model.Format) []string {
	labels := make([]string, 0, len(formats))
	for _, f := range formats {
		labels = append(labels, f.Label())
	}
	return labels
}

func formatByLabel(formats []model.Format, label string) (model.Format, bool) {
	for _, f := range formats {
		if f.Label() == label {
			return f, true
		}
	}
	return model.Format{}, false
}

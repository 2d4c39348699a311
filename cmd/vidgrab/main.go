package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/vidgrab/vidgrab/internal/bus"
	"github.com/vidgrab/vidgrab/internal/config"
	"github.com/vidgrab/vidgrab/internal/engine"
	"github.com/vidgrab/vidgrab/internal/logging"
	"github.com/vidgrab/vidgrab/internal/message"
	"github.com/vidgrab/vidgrab/internal/platform"
	"github.com/vidgrab/vidgrab/internal/ui"
	"github.com/vidgrab/vidgrab/internal/worker"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.vidgrab.vidgrab"
	AppName = "vidgrab"

	WindowWidth  = 900
	WindowHeight = 600
)

var (
	outputDir string
	debug     bool
)

var rootCmd = &cobra.Command{
	Use:     "vidgrab",
	Short:   "vidgrab is a desktop video downloader",
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		runGUI()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory (defaults to the configured setting)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(newFetchCmd())
}

func main() {
	cobra.OnInitialize(func() {
		logging.Init(debug)
	})
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runGUI wires the bus pair between one worker goroutine and the Fyne
// surface, then hands control to the event loop.
func runGUI() {
	fyneApp := app.NewWithID(AppID)
	settings := config.NewSettings(fyneApp)
	if !debug && settings.GetDebugLogging() {
		logging.Init(true)
	}

	out := outputDir
	if out == "" {
		out = settings.GetOutputDirectory()
	}
	if err := platform.CreateDirectoryIfNotExists(out); err != nil {
		fmt.Fprintf(os.Stderr, "failed to ensure output dir: %v\n", err)
		os.Exit(1)
	}

	capacity := settings.GetBusCapacity()
	commands := bus.New[message.Command](capacity)
	events := bus.New[message.Event](capacity)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := worker.New(engine.NewYTDLP(), out, commands, events)
	go w.Run(ctx)

	window := fyneApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	ui.NewRootUI(ctx, window, settings.GetDefaultURL(), commands, events)

	window.ShowAndRun()

	commands.Close()
	events.Close()
}

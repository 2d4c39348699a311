package message

import "github.com/vidgrab/vidgrab/internal/model"

// Package message declares the closed command and event variants exchanged
// between the UI and the worker. Commands flow UI→Worker, events
// Worker→UI; both directions are explicit tagged unions so an unhandled
// variant is a visible bug, not a silently dropped branch.

// Command is a UI→Worker request. The set of implementations is closed.
type Command interface{ isCommand() }

// Event is a Worker→UI notification. The set of implementations is closed.
type Event interface{ isEvent() }

// InstallLibraries asks the worker to install the external executables.
type InstallLibraries struct{}

// UpdateLibraries asks the worker to update the external executables.
type UpdateLibraries struct{}

// URLChanged resets the session to a new video URL. It does not fetch.
type URLChanged struct {
	URL string
}

// FetchInfo asks the worker to fetch metadata for the current URL.
type FetchInfo struct{}

// FetchThumbnail asks the worker to download the video thumbnail.
type FetchThumbnail struct{}

// SelectVideoFormat records the user's video rendition pick.
type SelectVideoFormat struct {
	Format model.Format
}

// SelectAudioFormat records the user's audio rendition pick.
type SelectAudioFormat struct {
	Format model.Format
}

// DownloadVideo asks the worker to download the video with the selected
// formats, clean up muxing temp files, and extract matching captions.
type DownloadVideo struct{}

func (InstallLibraries) isCommand()  {}
func (UpdateLibraries) isCommand()   {}
func (URLChanged) isCommand()        {}
func (FetchInfo) isCommand()         {}
func (FetchThumbnail) isCommand()    {}
func (SelectVideoFormat) isCommand() {}
func (SelectAudioFormat) isCommand() {}
func (DownloadVideo) isCommand()     {}

// LibrariesInstalled reports a completed library installation.
type LibrariesInstalled struct{}

// LibrariesUpdated reports a completed library update.
type LibrariesUpdated struct{}

// StatusMessage carries human-readable progress or failure text. The worker
// never forwards raw error objects to the UI.
type StatusMessage struct {
	Text string
}

// InfoFetched carries the fetched video metadata.
type InfoFetched struct {
	Info model.VideoInfo
}

// ThumbnailFetched carries the path of the downloaded thumbnail; empty when
// no thumbnail was available.
type ThumbnailFetched struct {
	Path string
}

// VideoDownloaded carries the path of the downloaded video; empty when the
// download produced no file.
type VideoDownloaded struct {
	Path string
}

// ProgressUpdated is one normalized progress sample.
type ProgressUpdated struct {
	DownloadedBytes float64
	Percentage      float32
}

func (LibrariesInstalled) isEvent() {}
func (LibrariesUpdated) isEvent()   {}
func (StatusMessage) isEvent()      {}
func (InfoFetched) isEvent()        {}
func (ThumbnailFetched) isEvent()   {}
func (VideoDownloaded) isEvent()    {}
func (ProgressUpdated) isEvent()    {}

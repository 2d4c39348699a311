package worker

// State represents where the worker is in the single-session lifecycle.
type State string

const (
	// StateIdle means no operation is running for the current URL.
	StateIdle State = "Idle"

	// StateFetchingInfo means metadata is being fetched.
	StateFetchingInfo State = "FetchingInfo"

	// StateInfoReady means metadata has been fetched.
	StateInfoReady State = "InfoReady"

	// StateFetchingThumbnail means the thumbnail is being downloaded.
	StateFetchingThumbnail State = "FetchingThumbnail"

	// StateThumbnailReady means the thumbnail has been downloaded.
	StateThumbnailReady State = "ThumbnailReady"

	// StateDownloading means the video download is in progress.
	StateDownloading State = "Downloading"

	// StateCompleted means the video was downloaded.
	StateCompleted State = "Completed"

	// StateInstallingLibraries is a side-channel state; it does not touch
	// the session.
	StateInstallingLibraries State = "InstallingLibraries"

	// StateUpdatingLibraries is a side-channel state; it does not touch the
	// session.
	StateUpdatingLibraries State = "UpdatingLibraries"
)

// String returns the string representation of State.
func (s State) String() string {
	return string(s)
}

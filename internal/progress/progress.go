package progress

import (
	"math"

	"github.com/vidgrab/vidgrab/internal/message"
)

// Package progress normalizes raw byte counters from the transfer layer into
// ProgressUpdated events. Every sample produces one event; the bounded bus
// absorbs a lagging consumer, so no debouncing happens here.

// Percentage maps a byte-counter sample to a whole percentage in [0,100].
// It is 0 when the total is unknown or zero.
func Percentage(downloaded, total int64) float32 {
	if total <= 0 {
		return 0
	}
	pct := math.Round(float64(downloaded) / float64(total) * 100)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return float32(pct)
}

// Reporter republishes transfer-layer samples as events.
type Reporter struct {
	publish func(message.Event)
}

// NewReporter creates a reporter that emits through publish.
func NewReporter(publish func(message.Event)) *Reporter {
	return &Reporter{publish: publish}
}

// Sample converts one (downloaded, total) counter pair into a
// ProgressUpdated event.
func (r *Reporter) Sample(downloaded, total int64) {
	r.publish(message.ProgressUpdated{
		DownloadedBytes: float64(downloaded),
		Percentage:      Percentage(downloaded, total),
	})
}

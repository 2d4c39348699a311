package ui

// Package ui contains the Fyne-based desktop surface. It owns all rendering
// state, publishes commands on the UI→Worker bus, and consumes Worker→UI
// events on a background goroutine, applying widget updates via fyne.Do.
// It never touches the worker's session directly.

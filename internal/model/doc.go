package model

// Package model defines domain data structures shared across the app: video
// metadata, per-rendition format descriptors, and caption tracks. All types
// are value types copied between goroutines; none carries mutable state.

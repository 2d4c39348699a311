package platform

// Package platform contains filesystem glue shared by the session and the
// entry points: output-name sanitization, directory creation, and cleanup of
// intermediate muxing artifacts.

// Package clip provides text access to the system clipboard. Build
// constraints select the implementation:
//
//	clip_system.go: macOS, Linux, Windows via golang.design/x/clipboard
//	clip_other.go:  everything else gets the headless accessor
//
// Headless and Memory are always available; Memory backs tests and
// `--clipboard memory` runs.
package clip

import "errors"

// ErrAccess reports that the clipboard could not be read as text: it is
// locked, unavailable, empty, or holds non-text content.
var ErrAccess = errors.New("clipboard not accessible")

// Accessor is the interface that all clipboard implementations satisfy.
type Accessor interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// ReadText returns the current clipboard text. Failures wrap ErrAccess.
	ReadText() (string, error)

	// WriteText replaces the clipboard contents with text.
	WriteText(text string) error

	// Close releases any resources held by the backend.
	Close()
}

//go:build darwin

package ui

import (
	"context"

	"go.klb.dev/cliptrans/internal/session"
)

// Tray on macOS is the window's status bar menu with the window starting
// hidden: the fyne driver already owns the status bar item there.
type Tray struct {
	w *Window
}

func NewTray(sess *session.Session) *Tray {
	return &Tray{w: NewWindow(sess)}
}

func (t *Tray) Run(ctx context.Context) {
	t.w.Run(ctx, true)
}

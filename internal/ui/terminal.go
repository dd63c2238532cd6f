// Package ui holds the display frontends: a fyne window, a system tray menu
// and a plain terminal printer. Each one is a hub subscriber and drives the
// session it was built for.
package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.klb.dev/cliptrans/internal/hub"
	"go.klb.dev/cliptrans/internal/translate"
)

// Terminal prints every result to a writer. It is the headless display.
type Terminal struct {
	*hub.ChanSubscriber
	w io.Writer
}

// NewTerminal returns a Terminal writing to w. Register it with the hub and
// call Run.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{ChanSubscriber: hub.NewChanSubscriber("terminal", "terminal", 8), w: w}
}

// Run prints results until ctx ends.
func (t *Terminal) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-t.C():
			fmt.Fprintln(t.w, FormatResult(r))
		}
	}
}

// FormatResult renders r as one block of terminal output: a header line with
// time and target language, then the displayed text indented by two spaces.
func FormatResult(r translate.Result) string {
	var b strings.Builder
	ts := "--:--:--"
	if !r.At.IsZero() {
		ts = r.At.Local().Format("15:04:05")
	}
	fmt.Fprintf(&b, "%s  %s (%s)\n", ts, translate.DisplayName(r.TargetLanguage), r.TargetLanguage)
	for i, line := range strings.Split(r.Display(), "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  " + line)
	}
	return b.String()
}

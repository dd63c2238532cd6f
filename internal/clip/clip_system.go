//go:build darwin || linux || windows

package clip

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.design/x/clipboard"
)

type systemBackend struct {
	mu sync.Mutex
}

// New returns the system clipboard accessor, or the headless accessor if the
// display environment is unavailable (e.g. a server without X11 or Wayland).
// clipboard.Init is called here rather than in init() so that CLI sub-commands
// that never touch the clipboard don't log spurious warnings.
func New() Accessor {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return Headless{}
	}
	return &systemBackend{}
}

func (b *systemBackend) Name() string { return "system clipboard" }

func (b *systemBackend) ReadText() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data := clipboard.Read(clipboard.FmtText)
	if data == nil {
		return "", fmt.Errorf("%w: no text content", ErrAccess)
	}
	return string(data), nil
}

// WriteText serialises writes; concurrent writers would otherwise race on the
// platform clipboard owner.
func (b *systemBackend) WriteText(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (b *systemBackend) Close() {}

//go:build !darwin

package ui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getlantern/systray"

	"go.klb.dev/cliptrans/internal/hub"
	"go.klb.dev/cliptrans/internal/logging"
	"go.klb.dev/cliptrans/internal/session"
	"go.klb.dev/cliptrans/internal/translate"
)

const trayResultLen = 60

// Tray is the tray-only display: the latest translation is the first menu
// entry, with language, open/hide, copy and browser actions below it.
type Tray struct {
	sess *session.Session
	sub  *hub.ChanSubscriber

	result  *systray.MenuItem
	lang    *systray.MenuItem
	langs   map[string]*systray.MenuItem
	open    *systray.MenuItem
	hide    *systray.MenuItem
	copy    *systray.MenuItem
	browser *systray.MenuItem
	quit    *systray.MenuItem
}

// NewTray returns a tray display for sess.
func NewTray(sess *session.Session) *Tray {
	return &Tray{
		sess:  sess,
		sub:   hub.NewChanSubscriber("tray", "tray", 1),
		langs: make(map[string]*systray.MenuItem),
	}
}

// Run blocks on the main goroutine running the tray until ctx ends or the
// user picks Quit.
func (t *Tray) Run(ctx context.Context) {
	systray.Run(func() { t.onReady(ctx) }, t.onExit)
}

func (t *Tray) onReady(ctx context.Context) {
	systray.SetIcon(Icon())
	systray.SetTitle("cliptrans")
	systray.SetTooltip(windowTitle)

	t.result = systray.AddMenuItem(placeholder, "Latest translation")
	t.result.Disable()
	systray.AddSeparator()

	current := t.sess.Language()
	t.lang = systray.AddMenuItem(langTitle(current), "Target language")
	for _, code := range t.sess.Languages() {
		item := t.lang.AddSubMenuItemCheckbox(languageLabel(code), code, code == current)
		t.langs[code] = item
		go t.watchLanguage(ctx, code, item)
	}

	t.open = systray.AddMenuItem("Open Translator", "Start watching the clipboard")
	t.hide = systray.AddMenuItem("Hide Translator", "Stop watching the clipboard")
	t.copy = systray.AddMenuItem("Copy translation", "Put the translation on the clipboard")
	t.browser = systray.AddMenuItem("Open in browser", "Show the captured text in Google Translate")
	systray.AddSeparator()
	t.quit = systray.AddMenuItem("Quit", "Quit cliptrans")

	t.setOpen(t.sess.Watching())
	t.sess.OnToggle(t.setOpen)
	t.sess.OnLanguage(t.setLanguage)

	h := t.sess.Hub()
	h.Register(t.sub)
	go t.loop(ctx)
}

func (t *Tray) onExit() {
	t.sess.Hub().Unregister(t.sub)
	slog.Debug("tray exited")
}

func (t *Tray) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			systray.Quit()
			return
		case r := <-t.sub.C():
			t.showResult(r)
		case <-t.open.ClickedCh:
			t.sess.Open()
		case <-t.hide.ClickedCh:
			t.sess.Hide()
		case <-t.copy.ClickedCh:
			if _, err := t.sess.CopyResult(); err != nil && !errors.Is(err, session.ErrNothingToCopy) {
				slog.Warn("copy failed", "err", err)
			}
		case <-t.browser.ClickedCh:
			st := t.sess.Status()
			if st.LastSeen == "" {
				continue
			}
			if err := OpenInBrowser(st.LastSeen, st.Language); err != nil {
				slog.Warn("open browser failed", "err", err)
			}
		case <-t.quit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (t *Tray) watchLanguage(ctx context.Context, code string, item *systray.MenuItem) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-item.ClickedCh:
			if err := t.sess.SetLanguage(code); err != nil {
				slog.Warn("language change failed", "lang", code, "err", err)
			}
			// Clicking toggles the checkbox; restore it from the real state.
			t.setLanguage(t.sess.Language())
		}
	}
}

func (t *Tray) showResult(r translate.Result) {
	t.result.SetTitle(logging.Preview(r.Display(), trayResultLen))
	t.result.SetTooltip(r.Display())
}

func (t *Tray) setOpen(open bool) {
	if open {
		t.open.Disable()
		t.hide.Enable()
	} else {
		t.open.Enable()
		t.hide.Disable()
	}
}

func (t *Tray) setLanguage(lang string) {
	t.lang.SetTitle(langTitle(lang))
	for code, item := range t.langs {
		if code == lang {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

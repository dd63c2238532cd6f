package ui

import (
	"context"
	"errors"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"go.klb.dev/cliptrans/internal/hub"
	"go.klb.dev/cliptrans/internal/session"
)

const (
	appID       = "dev.klb.cliptrans"
	windowTitle = "Mini Translator"
	placeholder = "Copy some text to translate it."
)

// Window is the windowed display: a small fyne window with a language
// picker, the latest translation and a Copy button, plus a tray menu to
// reopen it. Closing the window hides it and stops watching.
type Window struct {
	sess *session.Session
	sub  *hub.ChanSubscriber

	app     fyne.App
	win     fyne.Window
	output  *widget.Label
	langSel *widget.Select
	status  *widget.Label
}

// NewWindow builds the window for sess. It must be called on the main
// goroutine, as must Run.
func NewWindow(sess *session.Session) *Window {
	w := &Window{
		sess: sess,
		sub:  hub.NewChanSubscriber("window", "window", 1),
		app:  app.NewWithID(appID),
	}
	icon := fyne.NewStaticResource("cliptrans.png", Icon())
	w.app.SetIcon(icon)

	w.win = w.app.NewWindow(windowTitle)
	w.win.Resize(fyne.NewSize(420, 320))
	w.win.SetCloseIntercept(sess.Hide)

	labels, codes := languageLabels(sess.Languages())
	w.langSel = widget.NewSelect(labels, func(label string) {
		code, ok := codes[label]
		if !ok {
			return
		}
		// SetLanguage waits for the re-translation; keep it off the UI thread.
		go func() {
			if err := sess.SetLanguage(code); err != nil {
				slog.Warn("language change failed", "lang", code, "err", err)
			}
		}()
	})
	w.langSel.SetSelected(languageLabel(sess.Language()))

	w.output = widget.NewLabel(placeholder)
	w.output.Wrapping = fyne.TextWrapWord

	w.status = widget.NewLabel("")
	copyBtn := widget.NewButton("Copy", func() { go w.copyResult() })

	top := container.NewBorder(nil, nil, widget.NewLabel("Translate to"), nil, w.langSel)
	bottom := container.NewBorder(nil, nil, nil, copyBtn, w.status)
	w.win.SetContent(container.NewBorder(top, bottom, nil, nil, container.NewVScroll(w.output)))

	if desk, ok := w.app.(desktop.App); ok {
		desk.SetSystemTrayIcon(icon)
		desk.SetSystemTrayMenu(fyne.NewMenu(windowTitle,
			fyne.NewMenuItem("Open Translator", sess.Open),
			fyne.NewMenuItem("Hide Translator", sess.Hide),
		))
	}

	sess.OnToggle(func(open bool) {
		fyne.Do(func() {
			if open {
				w.win.Show()
				w.win.RequestFocus()
			} else {
				w.win.Hide()
			}
		})
	})
	sess.OnLanguage(func(lang string) {
		fyne.Do(func() { w.langSel.SetSelected(languageLabel(lang)) })
	})
	return w
}

func (w *Window) copyResult() {
	msg := "Copied to clipboard."
	if _, err := w.sess.CopyResult(); err != nil {
		msg = "Nothing to copy yet."
		if !errors.Is(err, session.ErrNothingToCopy) {
			slog.Warn("copy failed", "err", err)
			msg = "Copy failed: " + err.Error()
		}
	}
	fyne.Do(func() { w.status.SetText(msg) })
}

// Run shows the window (unless hidden) and blocks in the fyne event loop
// until ctx ends or the user quits from the tray menu.
func (w *Window) Run(ctx context.Context, hidden bool) {
	h := w.sess.Hub()
	h.Register(w.sub)
	defer h.Unregister(w.sub)

	go func() {
		for {
			select {
			case <-ctx.Done():
				fyne.Do(w.app.Quit)
				return
			case r := <-w.sub.C():
				fyne.Do(func() {
					w.output.SetText(r.Display())
					w.status.SetText("")
				})
			}
		}
	}()

	if !hidden {
		w.win.Show()
	}
	w.app.Run()
}

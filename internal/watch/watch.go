// Package watch implements the clipboard-driven translation loop.
//
// A Loop samples the clipboard every Interval while it is Watching. When the
// trimmed text differs from the last text it dispatched, the loop records it
// as lastSeen and translates it into the current target language. Every
// outcome, success or failure, is handed to the Sink; nothing is returned to
// the caller and the loop keeps polling.
//
// Translations are serialised: a tick that fires while a translation is still
// running is skipped, and a language change waits for it to finish.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.klb.dev/cliptrans/internal/logging"
	"go.klb.dev/cliptrans/internal/translate"
)

// Defaults applied by New to zero Config fields.
const (
	DefaultInterval = 500 * time.Millisecond
	DefaultTimeout  = 10 * time.Second
)

// State is the loop's polling state.
type State int32

const (
	Idle State = iota
	Watching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Watching:
		return "watching"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Clipboard is the read side of the clipboard the loop samples.
type Clipboard interface {
	ReadText() (string, error)
}

// Sink receives every translation outcome. Each Result replaces whatever the
// sink showed before. Show is called from the loop's goroutine and must not
// block for long.
type Sink interface {
	Show(translate.Result)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(translate.Result)

func (f SinkFunc) Show(r translate.Result) { f(r) }

// Config holds the loop's tunables. Zero values get defaults.
type Config struct {
	Interval  time.Duration
	Timeout   time.Duration
	Language  string
	Languages translate.Languages
}

// Stats counts what the loop has done since it was created.
type Stats struct {
	Ticks        int64 `json:"ticks"`
	Skipped      int64 `json:"skipped"`
	ReadFailures int64 `json:"read_failures"`
	Translations int64 `json:"translations"`
	Failures     int64 `json:"failures"`
}

// Loop is one clipboard watcher. Create with New.
type Loop struct {
	clip     Clipboard
	provider translate.Provider
	sink     Sink
	interval time.Duration
	timeout  time.Duration
	langs    translate.Languages

	// mu guards the fields below it.
	mu       sync.Mutex
	state    State
	stop     chan struct{}
	lastSeen string
	lang     string
	ownWrite string

	// busy is held for the whole of a tick and of a language-change translation.
	busy sync.Mutex

	ticks        atomic.Int64
	skipped      atomic.Int64
	readFailures atomic.Int64
	translations atomic.Int64
	failures     atomic.Int64
}

// New returns an Idle loop. cfg.Language must be in cfg.Languages.
func New(clip Clipboard, provider translate.Provider, sink Sink, cfg Config) (*Loop, error) {
	if clip == nil || provider == nil || sink == nil {
		return nil, errors.New("watch: clipboard, provider and sink are required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = translate.DefaultLanguages
	}
	if cfg.Language == "" {
		cfg.Language = translate.DefaultLanguage
	}
	lang := translate.NormalizeCode(cfg.Language)
	if err := cfg.Languages.Check(lang); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	return &Loop{
		clip:     clip,
		provider: provider,
		sink:     sink,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		langs:    slices.Clone(cfg.Languages),
		lang:     lang,
	}, nil
}

// Start begins polling. Calling Start on a Watching loop does nothing.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Watching {
		return
	}
	l.state = Watching
	l.stop = make(chan struct{})
	go l.run(l.stop)
	slog.Info("clipboard watch started", "interval", l.interval, "lang", l.lang)
}

// Stop halts polling. A translation already in flight still completes and is
// delivered to the sink. Calling Stop on an Idle loop does nothing.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Idle {
		return
	}
	l.state = Idle
	close(l.stop)
	l.stop = nil
	slog.Info("clipboard watch stopped")
}

// State reports whether the loop is polling.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Language returns the current target language.
func (l *Loop) Language() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lang
}

// Languages returns the supported target languages.
func (l *Loop) Languages() translate.Languages { return slices.Clone(l.langs) }

// LastSeen returns the last text dispatched for translation ("" before the first).
func (l *Loop) LastSeen() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastSeen
}

// Timeout returns the per-translation timeout.
func (l *Loop) Timeout() time.Duration { return l.timeout }

// Provider returns the translation provider's name.
func (l *Loop) Provider() string { return l.provider.Name() }

// Stats returns a snapshot of the loop counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Ticks:        l.ticks.Load(),
		Skipped:      l.skipped.Load(),
		ReadFailures: l.readFailures.Load(),
		Translations: l.translations.Load(),
		Failures:     l.failures.Load(),
	}
}

// SetLanguage changes the target language. When a text has already been
// captured it is translated again into the new language before SetLanguage
// returns. Selecting the current language does nothing.
func (l *Loop) SetLanguage(lang string) error {
	lang = translate.NormalizeCode(lang)
	if err := l.langs.Check(lang); err != nil {
		return err
	}

	l.busy.Lock()
	defer l.busy.Unlock()

	l.mu.Lock()
	if lang == l.lang {
		l.mu.Unlock()
		return nil
	}
	l.lang = lang
	text := l.lastSeen
	l.mu.Unlock()

	slog.Info("target language changed", "lang", lang)
	if text != "" {
		l.translate(text, lang)
	}
	return nil
}

// IgnoreOwnWrite marks text as written to the clipboard by this application.
// Ticks do not treat it as a new capture until the clipboard holds something
// else.
func (l *Loop) IgnoreOwnWrite(text string) {
	l.mu.Lock()
	l.ownWrite = strings.TrimSpace(text)
	l.mu.Unlock()
}

func (l *Loop) run(stop chan struct{}) {
	t := time.NewTicker(l.interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			// A tick and Stop can be ready together; Stop wins.
			select {
			case <-stop:
				return
			default:
			}
			l.tick(stop)
		}
	}
}

// tick is one poll of the clipboard. A non-nil stop is the channel of the
// watch run the tick belongs to; if that run has been stopped by the time the
// read returns, the text is dropped.
func (l *Loop) tick(stop chan struct{}) {
	if !l.busy.TryLock() {
		l.skipped.Add(1)
		slog.Debug("tick skipped, translation in progress")
		return
	}
	defer l.busy.Unlock()
	l.ticks.Add(1)

	raw, err := l.clip.ReadText()
	if err != nil {
		l.readFailures.Add(1)
		slog.Debug("clipboard read failed", "err", err)
		return
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return
	}

	l.mu.Lock()
	if stop != nil && l.stop != stop {
		l.mu.Unlock()
		return
	}
	if text == l.lastSeen {
		l.mu.Unlock()
		return
	}
	if l.ownWrite != "" {
		if text == l.ownWrite {
			l.mu.Unlock()
			return
		}
		l.ownWrite = ""
	}
	l.lastSeen = text
	lang := l.lang
	l.mu.Unlock()

	slog.Debug("clipboard changed", "preview", logging.Preview(text, 60))
	l.translate(text, lang)
}

// translate runs one provider call with the configured timeout and hands the
// outcome to the sink. Stop does not cancel it.
func (l *Loop) translate(text, lang string) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	l.translations.Add(1)
	res := translate.Do(ctx, l.provider, l.langs, text, lang)
	if res.Failed() {
		l.failures.Add(1)
		slog.Warn("translation failed", "provider", res.Provider, "lang", lang, "err", res.Error)
	}
	l.sink.Show(res)
}

// Package session ties one clipboard, one watch loop and one display hub
// together. Frontends and the control plane act on a Session instead of
// reaching into global state.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.klb.dev/cliptrans/internal/clip"
	"go.klb.dev/cliptrans/internal/hub"
	"go.klb.dev/cliptrans/internal/translate"
	"go.klb.dev/cliptrans/internal/watch"
)

// ErrNothingToCopy is returned by CopyResult before the first successful translation.
var ErrNothingToCopy = errors.New("no translation to copy")

// Status is a point-in-time snapshot of a Session.
type Status struct {
	State       string               `json:"state"`
	Language    string               `json:"language"`
	Languages   []string             `json:"languages"`
	LastSeen    string               `json:"last_seen,omitempty"`
	Provider    string               `json:"provider"`
	Clipboard   string               `json:"clipboard"`
	Interval    time.Duration        `json:"interval"`
	StartedAt   time.Time            `json:"started_at"`
	Stats       watch.Stats          `json:"stats"`
	Subscribers []hub.SubscriberInfo `json:"subscribers"`
	Latest      *translate.Result    `json:"latest,omitempty"`
}

// Session is a running translator instance.
type Session struct {
	clip      clip.Accessor
	provider  translate.Provider
	hub       *hub.Hub
	loop      *watch.Loop
	interval  time.Duration
	startedAt time.Time

	mu         sync.Mutex
	onToggle   []func(open bool)
	onLanguage []func(lang string)
}

// New builds an idle Session. The hub is the loop's sink; call Open to start
// watching.
func New(c clip.Accessor, p translate.Provider, cfg watch.Config) (*Session, error) {
	h := hub.New()
	loop, err := watch.New(c, p, h, cfg)
	if err != nil {
		return nil, err
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = watch.DefaultInterval
	}
	return &Session{
		clip:      c,
		provider:  p,
		hub:       h,
		loop:      loop,
		interval:  interval,
		startedAt: time.Now(),
	}, nil
}

// Hub returns the display hub frontends subscribe to.
func (s *Session) Hub() *hub.Hub { return s.hub }

// Open shows the translator: the loop starts watching.
func (s *Session) Open() {
	s.loop.Start()
	s.mu.Lock()
	fns := s.onToggle
	s.mu.Unlock()
	for _, fn := range fns {
		fn(true)
	}
}

// Hide hides the translator: the loop stops watching.
func (s *Session) Hide() {
	s.loop.Stop()
	s.mu.Lock()
	fns := s.onToggle
	s.mu.Unlock()
	for _, fn := range fns {
		fn(false)
	}
}

// OnToggle registers fn to run after every Open (true) and Hide (false),
// whoever requested it. Frontends use it to show or hide themselves.
func (s *Session) OnToggle(fn func(open bool)) {
	s.mu.Lock()
	s.onToggle = append(s.onToggle, fn)
	s.mu.Unlock()
}

// OnLanguage registers fn to run after the target language changes.
func (s *Session) OnLanguage(fn func(lang string)) {
	s.mu.Lock()
	s.onLanguage = append(s.onLanguage, fn)
	s.mu.Unlock()
}

// Watching reports whether the loop is polling.
func (s *Session) Watching() bool { return s.loop.State() == watch.Watching }

func (s *Session) Language() string               { return s.loop.Language() }
func (s *Session) Languages() translate.Languages { return s.loop.Languages() }

// SetLanguage switches the target language, re-translating the last capture.
func (s *Session) SetLanguage(lang string) error {
	prev := s.loop.Language()
	if err := s.loop.SetLanguage(lang); err != nil {
		return err
	}
	cur := s.loop.Language()
	if cur == prev {
		return nil
	}
	s.mu.Lock()
	fns := s.onLanguage
	s.mu.Unlock()
	for _, fn := range fns {
		fn(cur)
	}
	return nil
}

// CopyResult puts the latest successful translation on the clipboard and
// returns it. The loop will not translate it back.
func (s *Session) CopyResult() (string, error) {
	r, ok := s.hub.Latest()
	if !ok || r.Failed() || r.TranslatedText == "" {
		return "", ErrNothingToCopy
	}
	s.loop.IgnoreOwnWrite(r.TranslatedText)
	if err := s.clip.WriteText(r.TranslatedText); err != nil {
		return "", fmt.Errorf("copy translation: %w", err)
	}
	slog.Info("translation copied to clipboard", "lang", r.TargetLanguage)
	return r.TranslatedText, nil
}

// TranslateOnce translates text outside the loop. It neither updates the
// last captured text nor notifies the hub. An empty lang means the current
// target language. The loop's per-translation timeout applies. Unsupported
// languages and blank text are returned as errors; provider failures come
// back inside the Result.
func (s *Session) TranslateOnce(ctx context.Context, text, lang string) (translate.Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return translate.Result{}, translate.ErrEmptyText
	}
	if lang == "" {
		lang = s.loop.Language()
	}
	lang = translate.NormalizeCode(lang)
	if err := s.loop.Languages().Check(lang); err != nil {
		return translate.Result{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.loop.Timeout())
	defer cancel()
	return translate.Do(ctx, s.provider, s.loop.Languages(), text, lang), nil
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	st := Status{
		State:       s.loop.State().String(),
		Language:    s.loop.Language(),
		Languages:   s.loop.Languages(),
		LastSeen:    s.loop.LastSeen(),
		Provider:    s.loop.Provider(),
		Clipboard:   s.clip.Name(),
		Interval:    s.interval,
		StartedAt:   s.startedAt,
		Stats:       s.loop.Stats(),
		Subscribers: s.hub.Subscribers(),
	}
	if r, ok := s.hub.Latest(); ok {
		st.Latest = &r
	}
	return st
}

// Close stops the loop and releases the clipboard.
func (s *Session) Close() {
	s.loop.Stop()
	s.clip.Close()
}

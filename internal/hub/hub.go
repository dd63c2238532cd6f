// Package hub fans translation results out to every display that wants them.
// It is transport-agnostic: the window, the tray, the terminal printer and
// remote Watch streams register as subscribers and receive each Result through
// a non-blocking Send. The hub itself is the watch loop's Sink.
package hub

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"go.klb.dev/cliptrans/internal/translate"
)

// Subscriber is anything that displays translation results.
type Subscriber interface {
	ID() string
	Info() SubscriberInfo
	// Send delivers a result to the subscriber. Must be non-blocking.
	Send(translate.Result)
}

// SubscriberInfo describes a registered subscriber for status output.
type SubscriberInfo struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Hub holds the latest result and routes new ones to all subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]Subscriber
	latest translate.Result
	has    bool
}

// New returns an empty Hub.
func New() *Hub {
	return &Hub{subs: make(map[string]Subscriber)}
}

// Register adds a subscriber and immediately delivers the latest result, if
// any, so a display opened late is not blank.
func (h *Hub) Register(s Subscriber) { h.register(s, true) }

// RegisterQuiet adds a subscriber without replaying the latest result. It
// receives only results shown after it was added.
func (h *Hub) RegisterQuiet(s Subscriber) { h.register(s, false) }

func (h *Hub) register(s Subscriber, replay bool) {
	h.mu.Lock()
	h.subs[s.ID()] = s
	latest, has := h.latest, h.has && replay
	total := len(h.subs)
	h.mu.Unlock()

	slog.Info("subscriber registered", "id", s.ID(), "kind", s.Info().Kind, "total", total)
	if has {
		s.Send(latest)
	}
}

// Unregister removes a subscriber. Unknown subscribers are ignored.
func (h *Hub) Unregister(s Subscriber) {
	h.mu.Lock()
	_, ok := h.subs[s.ID()]
	delete(h.subs, s.ID())
	total := len(h.subs)
	h.mu.Unlock()

	if ok {
		slog.Info("subscriber unregistered", "id", s.ID(), "kind", s.Info().Kind, "total", total)
	}
}

// Show stores r as the latest result and sends it to every subscriber.
func (h *Hub) Show(r translate.Result) {
	h.mu.Lock()
	h.latest = r
	h.has = true
	targets := make([]Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	LogResult("translation shown", r)
	for _, s := range targets {
		s.Send(r)
	}
}

// Latest returns the most recent result and whether there is one.
func (h *Hub) Latest() (translate.Result, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.has
}

// Subscribers returns a snapshot of subscriber metadata ordered by ID.
func (h *Hub) Subscribers() []SubscriberInfo {
	h.mu.RLock()
	out := make([]SubscriberInfo, 0, len(h.subs))
	for _, s := range h.subs {
		out = append(out, s.Info())
	}
	h.mu.RUnlock()
	slices.SortFunc(out, func(a, b SubscriberInfo) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// ChanSubscriber is a Subscriber backed by a buffered channel. When the buffer
// is full the oldest pending result is dropped in favour of the new one.
type ChanSubscriber struct {
	info SubscriberInfo
	ch   chan translate.Result
}

// NewChanSubscriber returns a subscriber with a buffer of size n (minimum 1).
func NewChanSubscriber(id, kind string, n int) *ChanSubscriber {
	if n < 1 {
		n = 1
	}
	return &ChanSubscriber{
		info: SubscriberInfo{ID: id, Kind: kind, ConnectedAt: time.Now()},
		ch:   make(chan translate.Result, n),
	}
}

func (c *ChanSubscriber) ID() string           { return c.info.ID }
func (c *ChanSubscriber) Info() SubscriberInfo { return c.info }

// C returns the receive side of the subscriber's channel.
func (c *ChanSubscriber) C() <-chan translate.Result { return c.ch }

func (c *ChanSubscriber) Send(r translate.Result) {
	for {
		select {
		case c.ch <- r:
			return
		default:
		}
		select {
		case <-c.ch:
		default:
		}
	}
}

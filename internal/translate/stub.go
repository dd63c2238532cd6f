package translate

import (
	"context"
	"sync"
	"time"
)

// Call records one request made to a Stub.
type Call struct {
	Text   string
	Target string
}

// Stub is a deterministic offline provider. Known texts come from Dictionary
// (keyed target → source → translation); anything else is returned as
// "[target] text".
type Stub struct {
	Dictionary map[string]map[string]string
	// Delay simulates provider latency; the context can cut it short.
	Delay time.Duration

	mu    sync.Mutex
	err   error
	calls []Call
}

// NewStub returns a Stub with no dictionary.
func NewStub() *Stub { return &Stub{} }

func (s *Stub) Name() string { return "stub" }

// FailWith makes subsequent calls fail with err; nil restores success.
func (s *Stub) FailWith(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Stub) Translate(ctx context.Context, text, target string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Text: text, Target: target})
	err := s.err
	s.mu.Unlock()

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	if dict, ok := s.Dictionary[target]; ok {
		if out, ok := dict[text]; ok {
			return out, nil
		}
	}
	return "[" + target + "] " + text, nil
}

// Calls returns a copy of every request seen so far.
func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

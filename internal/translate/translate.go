// Package translate defines the translation provider contract, the per-call
// Result, and the providers cliptrans ships with.
//
// Providers never see the clipboard. They receive trimmed, non-empty text and
// a target-language code and return the translated text or an error. Do turns
// that pair into a Result so callers never deal with raw provider errors.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnsupportedLanguage is returned for target codes outside the configured set.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrEmptyText is returned when there is nothing to translate.
	ErrEmptyText = errors.New("empty text")
)

// Provider is an external machine-translation service.
type Provider interface {
	// Name identifies the provider in logs and status output.
	Name() string
	// Translate returns text translated into target. Source language is
	// detected by the provider.
	Translate(ctx context.Context, text, target string) (string, error)
}

// ProviderError wraps every failure of a translation request: network,
// timeout, provider-side and unsupported-language errors alike.
type ProviderError struct {
	Provider string
	Language string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Timeout reports whether the request ran out of time.
func (e *ProviderError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Result is the outcome of one translation request. Exactly one of
// TranslatedText and Error is meaningful; Failed tells which.
type Result struct {
	SourceText     string    `json:"source_text"`
	TargetLanguage string    `json:"target_language"`
	TranslatedText string    `json:"translated_text,omitempty"`
	Error          string    `json:"error,omitempty"`
	Provider       string    `json:"provider,omitempty"`
	At             time.Time `json:"at"`
}

// Failed reports whether r is the error variant.
func (r Result) Failed() bool { return r.Error != "" }

// Display is the text a display sink shows for r: the translation, or a
// human-readable error in its place.
func (r Result) Display() string {
	if r.Failed() {
		return "Error: " + r.Error
	}
	return r.TranslatedText
}

// Do validates the request, calls p, and folds any failure into the Result.
// It never returns an error of its own.
func Do(ctx context.Context, p Provider, langs Languages, text, lang string) Result {
	res := Result{
		SourceText:     text,
		TargetLanguage: lang,
		Provider:       p.Name(),
	}
	out, err := call(ctx, p, langs, text, lang)
	res.At = time.Now()
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.TranslatedText = out
	return res
}

func call(ctx context.Context, p Provider, langs Languages, text, lang string) (string, error) {
	wrap := func(err error) error {
		return &ProviderError{Provider: p.Name(), Language: lang, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", wrap(ErrEmptyText)
	}
	if len(langs) > 0 {
		if err := langs.Check(lang); err != nil {
			return "", wrap(err)
		}
	}
	out, err := p.Translate(ctx, text, NormalizeCode(lang))
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) {
			return "", pe
		}
		return "", wrap(err)
	}
	return out, nil
}

// runWithContext runs fn, which cannot be interrupted, in its own goroutine and
// returns early when ctx ends. The abandoned call finishes in the background.
func runWithContext(ctx context.Context, fn func() (string, error)) (string, error) {
	if ctx.Done() == nil {
		return fn()
	}
	type result struct {
		text string
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		text, err := fn()
		resCh <- result{text, err}
	}()
	select {
	case r := <-resCh:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

package translate

import (
	"context"

	googletrans "github.com/Conight/go-googletrans"
)

// Google translates through the public Google Translate web endpoint.
type Google struct {
	t *googletrans.Translator
}

// GoogleOptions configures NewGoogle. Zero values use the library defaults.
type GoogleOptions struct {
	ServiceURLs []string
	Proxy       string
}

// NewGoogle returns a Google provider.
func NewGoogle(opts GoogleOptions) *Google {
	return &Google{t: googletrans.New(googletrans.Config{
		ServiceUrls: opts.ServiceURLs,
		Proxy:       opts.Proxy,
	})}
}

func (g *Google) Name() string { return "google" }

// Translate detects the source language and translates into target. The
// underlying client has no context support, so ctx only bounds how long we wait.
func (g *Google) Translate(ctx context.Context, text, target string) (string, error) {
	return runWithContext(ctx, func() (string, error) {
		res, err := g.t.Translate(text, "auto", target)
		if err != nil {
			return "", err
		}
		return res.Text, nil
	})
}

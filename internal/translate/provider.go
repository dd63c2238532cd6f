package translate

import (
	"fmt"
	"net/http"
	"strings"
)

// Provider names accepted by New.
const (
	ProviderGoogle = "google"
	ProviderLibre  = "libre"
	ProviderStub   = "stub"
)

// Options selects and configures a provider.
type Options struct {
	Name string

	// google
	GoogleServiceURLs []string
	Proxy             string

	// libre
	LibreURL   string
	HTTPClient *http.Client
}

// New builds the provider named by opts.Name ("google" when empty).
func New(opts Options) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Name)) {
	case "", ProviderGoogle:
		return NewGoogle(GoogleOptions{
			ServiceURLs: opts.GoogleServiceURLs,
			Proxy:       opts.Proxy,
		}), nil
	case ProviderLibre:
		if opts.LibreURL == "" {
			return nil, fmt.Errorf("provider libre requires a server URL")
		}
		return NewLibre(opts.LibreURL, opts.HTTPClient)
	case ProviderStub:
		return NewStub(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want google|libre|stub)", opts.Name)
	}
}

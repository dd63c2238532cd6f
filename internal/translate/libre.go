package translate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const maxLibreResponse = 1 << 20

// libreCodes maps codes that LibreTranslate spells differently.
var libreCodes = map[string]string{
	"zh-cn": "zh",
	"zh-tw": "zt",
}

// Libre talks to a LibreTranslate-compatible server (POST /translate).
type Libre struct {
	endpoint string
	client   *http.Client
}

// NewLibre returns a provider for the server at baseURL. A nil client gets a
// client with a 30s ceiling; per-request deadlines come from the context.
func NewLibre(baseURL string, client *http.Client) (*Libre, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("libre: invalid base URL %q", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/translate"
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Libre{endpoint: u.String(), client: client}, nil
}

func (l *Libre) Name() string { return "libre" }

func (l *Libre) Translate(ctx context.Context, text, target string) (string, error) {
	if code, ok := libreCodes[target]; ok {
		target = code
	}

	body := []byte(`{"source":"auto","format":"text"}`)
	body, _ = sjson.SetBytes(body, "q", text)
	body, _ = sjson.SetBytes(body, "target", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxLibreResponse))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(raw, "error").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, msg)
	}

	out := gjson.GetBytes(raw, "translatedText")
	if !out.Exists() {
		return "", fmt.Errorf("response has no translatedText")
	}
	return out.String(), nil
}

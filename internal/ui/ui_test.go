package ui

import (
	"bytes"
	"context"
	"image/png"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/cliptrans/internal/translate"
)

func TestIcon(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(Icon()))
	require.NoError(t, err)
	assert.Equal(t, iconSize, img.Bounds().Dx())
	assert.Equal(t, iconSize, img.Bounds().Dy())
	r, g, b, _ := img.At(5, 5).RGBA()
	assert.Greater(t, b, r)
	assert.Greater(t, b, g)
}

func TestFormatResult(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	got := FormatResult(translate.Result{TargetLanguage: "fr", TranslatedText: "bonjour\nmonde", At: at})
	assert.Equal(t, "03:04:05  French (fr)\n  bonjour\n  monde", got)

	got = FormatResult(translate.Result{TargetLanguage: "de", Error: "google: timeout"})
	assert.Equal(t, "--:--:--  German (de)\n  Error: google: timeout", got)
}

func TestTerminalRun(t *testing.T) {
	var buf syncBuffer
	term := NewTerminal(&buf)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		term.Run(ctx)
		close(done)
	}()

	term.Send(translate.Result{TargetLanguage: "es", TranslatedText: "hola"})
	require.Eventually(t, func() bool { return strings.Contains(buf.String(), "  hola") }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, "terminal", term.Info().Kind)
}

func TestBrowserURL(t *testing.T) {
	u, err := url.Parse(BrowserURL("hello world & more", "zh-cn"))
	require.NoError(t, err)
	assert.Equal(t, "translate.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "auto", q.Get("sl"))
	assert.Equal(t, "zh-cn", q.Get("tl"))
	assert.Equal(t, "hello world & more", q.Get("text"))
}

func TestLanguageLabels(t *testing.T) {
	labels, codes := languageLabels(translate.Languages{"fr", "zh-cn"})
	assert.Equal(t, []string{"French (fr)", "Chinese (Simplified) (zh-cn)"}, labels)
	assert.Equal(t, "zh-cn", codes["Chinese (Simplified) (zh-cn)"])
	assert.Equal(t, "Language: Japanese", langTitle("ja"))
}

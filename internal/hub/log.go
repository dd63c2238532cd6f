package hub

import (
	"context"
	"log/slog"

	"go.klb.dev/cliptrans/internal/logging"
	"go.klb.dev/cliptrans/internal/translate"
)

const previewLen = 120

// LogResult logs a translation outcome at INFO (language, provider, outcome)
// and DEBUG (source and translated text previews up to 120 runes).
func LogResult(event string, r translate.Result) {
	status := "ok"
	if r.Failed() {
		status = "error"
	}
	slog.Info(event, "lang", r.TargetLanguage, "provider", r.Provider, "status", status)

	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	slog.Debug("translation detail",
		"source", logging.Preview(r.SourceText, previewLen),
		"display", logging.Preview(r.Display(), previewLen),
	)
}

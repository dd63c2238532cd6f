package ui

import (
	"fmt"

	"go.klb.dev/cliptrans/internal/translate"
)

// languageLabel is how a code appears in pickers: "French (fr)".
func languageLabel(code string) string {
	return fmt.Sprintf("%s (%s)", translate.DisplayName(code), code)
}

// languageLabels returns the picker labels for langs and a reverse lookup.
func languageLabels(langs translate.Languages) ([]string, map[string]string) {
	labels := make([]string, len(langs))
	codes := make(map[string]string, len(langs))
	for i, code := range langs {
		labels[i] = languageLabel(code)
		codes[labels[i]] = code
	}
	return labels, codes
}

func langTitle(code string) string {
	return "Language: " + translate.DisplayName(code)
}

package ui

import (
	"net/url"

	"github.com/skratchdot/open-golang/open"
)

const translateWebURL = "https://translate.google.com/"

// BrowserURL returns the Google Translate page for text in lang.
func BrowserURL(text, lang string) string {
	q := url.Values{}
	q.Set("sl", "auto")
	q.Set("tl", lang)
	q.Set("text", text)
	q.Set("op", "translate")
	return translateWebURL + "?" + q.Encode()
}

// OpenInBrowser opens text in the default browser's Google Translate page.
func OpenInBrowser(text, lang string) error {
	return open.Run(BrowserURL(text, lang))
}

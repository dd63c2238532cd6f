package translate

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultLanguage is the target language selected at startup.
const DefaultLanguage = "hi"

// DefaultLanguages is the target-language list offered when none is configured.
var DefaultLanguages = Languages{"en", "hi", "fr", "de", "es", "zh-cn", "ja"}

var displayNames = map[string]string{
	"en":    "English",
	"hi":    "Hindi",
	"fr":    "French",
	"de":    "German",
	"es":    "Spanish",
	"zh-cn": "Chinese (Simplified)",
	"zh-tw": "Chinese (Traditional)",
	"ja":    "Japanese",
	"ko":    "Korean",
	"it":    "Italian",
	"pt":    "Portuguese",
	"ru":    "Russian",
	"ar":    "Arabic",
	"nl":    "Dutch",
	"pl":    "Polish",
	"tr":    "Turkish",
	"uk":    "Ukrainian",
}

// Languages is an ordered set of target-language codes.
type Languages []string

// ParseLanguages normalises codes (trimmed, lower case, deduplicated, order
// kept). An empty input yields DefaultLanguages.
func ParseLanguages(codes []string) (Languages, error) {
	var out Languages
	for _, c := range codes {
		for _, part := range strings.Split(c, ",") {
			code := NormalizeCode(part)
			if code == "" {
				continue
			}
			if !validCode(code) {
				return nil, fmt.Errorf("invalid language code %q", part)
			}
			if !slices.Contains(out, code) {
				out = append(out, code)
			}
		}
	}
	if len(out) == 0 {
		return slices.Clone(DefaultLanguages), nil
	}
	return out, nil
}

// NormalizeCode trims and lower-cases a language code; "zh_CN" becomes "zh-cn".
func NormalizeCode(code string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(code)), "_", "-")
}

// Contains reports whether code (after normalisation) is in the set.
func (l Languages) Contains(code string) bool {
	return slices.Contains(l, NormalizeCode(code))
}

// Check returns ErrUnsupportedLanguage when code is not in the set.
func (l Languages) Check(code string) error {
	if !l.Contains(code) {
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedLanguage, code, strings.Join(l, ", "))
	}
	return nil
}

// DisplayName returns a human-readable name for code, or the code itself.
func DisplayName(code string) string {
	if n, ok := displayNames[NormalizeCode(code)]; ok {
		return n
	}
	return code
}

func validCode(code string) bool {
	if len(code) < 2 || len(code) > 12 {
		return false
	}
	for _, c := range code {
		if !((c >= 'a' && c <= 'z') || c == '-') {
			return false
		}
	}
	return true
}

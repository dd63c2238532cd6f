package control

// Empty is the request of RPCs that take no arguments.
type Empty struct{}

type LanguageRequest struct {
	Language string `json:"language"`
}

type LanguageResponse struct {
	Previous string `json:"previous"`
	Language string `json:"language"`
}

// ToggleResponse reports the loop state after Open or Hide.
type ToggleResponse struct {
	State string `json:"state"`
}

type CopyResponse struct {
	Text string `json:"text"`
}

type TranslateRequest struct {
	Text string `json:"text"`
	// Language defaults to the daemon's current target language.
	Language string `json:"language,omitempty"`
}

type WatchRequest struct {
	// SkipLatest suppresses the replay of the current result.
	SkipLatest bool `json:"skip_latest,omitempty"`
}

package clip

import "fmt"

// Headless is a no-op accessor for environments without a display server
// (headless Linux servers, containers, CI). Every read fails with ErrAccess
// and writes are discarded.
type Headless struct{}

func (Headless) Name() string { return "headless (no-op)" }

func (Headless) ReadText() (string, error) {
	return "", fmt.Errorf("%w: no clipboard in headless mode", ErrAccess)
}

func (Headless) WriteText(string) error { return nil }
func (Headless) Close()                 {}

//go:build !darwin && !linux && !windows

package clip

// New returns the headless accessor; there is no clipboard support here.
func New() Accessor {
	return Headless{}
}

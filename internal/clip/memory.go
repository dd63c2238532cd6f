package clip

import (
	"fmt"
	"sync"
)

// Memory is an in-process clipboard. The zero value is empty and readable.
type Memory struct {
	mu     sync.Mutex
	text   string
	locked bool
	reads  int
}

// NewMemory returns a Memory holding text.
func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.locked {
		return "", fmt.Errorf("%w: locked", ErrAccess)
	}
	return m.text, nil
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		return fmt.Errorf("%w: locked", ErrAccess)
	}
	m.text = text
	return nil
}

// Set replaces the contents, as another application copying text would.
func (m *Memory) Set(text string) {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
}

// Lock makes reads and writes fail with ErrAccess until Unlock.
func (m *Memory) Lock() {
	m.mu.Lock()
	m.locked = true
	m.mu.Unlock()
}

// Unlock reverses Lock.
func (m *Memory) Unlock() {
	m.mu.Lock()
	m.locked = false
	m.mu.Unlock()
}

// Reads returns how many times ReadText has been called.
func (m *Memory) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *Memory) Close() {}

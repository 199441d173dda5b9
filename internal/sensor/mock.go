package sensor

import (
	"errors"
	"sync"
	"time"

	"github.com/ayusman/tactus/internal/touch"
)

// ErrClosed is returned when reading from a closed source.
var ErrClosed = errors.New("sensor source closed")

// MockSource is a test implementation of the Source interface.
// It replays scripted frames and reports empty frames once the script is exhausted.
type MockSource struct {
	mu     sync.Mutex
	frames []touch.Frame
	next   int
	err    error
	closed bool
	now    func() time.Time
}

// NewMockSource creates a new MockSource replaying frames.
func NewMockSource(frames ...touch.Frame) *MockSource {
	return &MockSource{
		frames: frames,
		now:    time.Now,
	}
}

// SetFrames replaces the scripted frames and restarts the replay.
func (m *MockSource) SetFrames(frames []touch.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = frames
	m.next = 0
}

// SetError sets the error that will be returned by ReadFrame.
func (m *MockSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Remaining returns the number of scripted frames not yet read.
func (m *MockSource) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames) - m.next
}

// ReadFrame returns the next scripted frame or the configured error.
func (m *MockSource) ReadFrame() (touch.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return touch.Frame{}, ErrClosed
	}
	if m.err != nil {
		return touch.Frame{}, m.err
	}
	if m.next >= len(m.frames) {
		return touch.Frame{Timestamp: m.now()}, nil
	}

	f := m.frames[m.next].Clone()
	m.next++
	return f, nil
}

// Close marks the source as closed.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

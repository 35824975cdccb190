package mocks

import (
	"image"
	"sync"

	"github.com/user/framereel/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	CatalogJSON   []byte
	SequencesJSON []byte
	FirstFrames   map[string]image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:     enabled,
		FirstFrames: make(map[string]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveCatalogJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CatalogJSON = data
	return nil
}

func (m *DebugSink) SaveSequencesJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SequencesJSON = data
	return nil
}

func (m *DebugSink) SaveFirstFrame(sequence string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FirstFrames[sequence] = img
	return nil
}

// FirstFrame returns the saved first frame of a sequence.
func (m *DebugSink) FirstFrame(sequence string) (image.Image, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.FirstFrames[sequence]
	return img, ok
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool { return false }
func (m *NullSink) SaveCatalogJSON(data []byte) error { return nil }
func (m *NullSink) SaveSequencesJSON(data []byte) error { return nil }
func (m *NullSink) SaveFirstFrame(string, image.Image) error { return nil }

var _ ports.DebugSink = (*NullSink)(nil)

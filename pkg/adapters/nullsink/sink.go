// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/framereel/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveCatalogJSON does nothing.
func (s *Sink) SaveCatalogJSON(data []byte) error {
	return nil
}

// SaveSequencesJSON does nothing.
func (s *Sink) SaveSequencesJSON(data []byte) error {
	return nil
}

// SaveFirstFrame does nothing.
func (s *Sink) SaveFirstFrame(sequence string, img image.Image) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)

package mocks

import (
	"image"
	"sync"

	"github.com/user/framereel/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
type VideoEncoder struct {
	BeginFunc       func(outputPath string, width, height int, fps float64, opts ports.EncoderOptions) error
	EncodeFrameFunc func(img image.Image) error
	EndFunc         func() error
	AbortFunc       func() error

	mu sync.Mutex

	// Recorded calls for verification
	BeginCalled bool
	OutputPath  string
	Width       int
	Height      int
	FPS         float64
	Frames      []image.Rectangle
	EndCalled   bool
	AbortCalled bool
}

func (m *VideoEncoder) Begin(outputPath string, width, height int, fps float64, opts ports.EncoderOptions) error {
	m.mu.Lock()
	m.BeginCalled = true
	m.OutputPath = outputPath
	m.Width, m.Height, m.FPS = width, height, fps
	m.mu.Unlock()
	if m.BeginFunc != nil {
		return m.BeginFunc(outputPath, width, height, fps, opts)
	}
	return nil
}

func (m *VideoEncoder) EncodeFrame(img image.Image) error {
	if m.EncodeFrameFunc != nil {
		if err := m.EncodeFrameFunc(img); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames = append(m.Frames, img.Bounds())
	return nil
}

func (m *VideoEncoder) End() error {
	m.mu.Lock()
	m.EndCalled = true
	m.mu.Unlock()
	if m.EndFunc != nil {
		return m.EndFunc()
	}
	return nil
}

func (m *VideoEncoder) Abort() error {
	m.mu.Lock()
	m.AbortCalled = true
	m.mu.Unlock()
	if m.AbortFunc != nil {
		return m.AbortFunc()
	}
	return nil
}

// FrameCount returns the number of frames accepted so far.
func (m *VideoEncoder) FrameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Frames)
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)

// EncoderRecorder hands out a fresh mock encoder per factory call and keeps
// every encoder it created.
type EncoderRecorder struct {
	mu       sync.Mutex
	Encoders []*VideoEncoder

	// Configure, when set, is applied to every new encoder.
	Configure func(enc *VideoEncoder)
}

// Factory returns a ports.EncoderFactory backed by the recorder.
func (r *EncoderRecorder) Factory() ports.EncoderFactory {
	return func() ports.VideoEncoder {
		enc := &VideoEncoder{}
		if r.Configure != nil {
			r.Configure(enc)
		}
		r.mu.Lock()
		r.Encoders = append(r.Encoders, enc)
		r.mu.Unlock()
		return enc
	}
}

// ByOutput returns the encoder that was begun with the given output path.
func (r *EncoderRecorder) ByOutput(path string) *VideoEncoder {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, enc := range r.Encoders {
		enc.mu.Lock()
		out := enc.OutputPath
		enc.mu.Unlock()
		if out == path {
			return enc
		}
	}
	return nil
}

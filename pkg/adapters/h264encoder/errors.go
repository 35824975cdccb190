package h264encoder

import "errors"

var (
	// ErrNotInitialized is returned when encoder methods are called before Begin or after End.
	ErrNotInitialized = errors.New("h264encoder: encoder not initialized")

	// ErrFFmpegNotFound is returned when no ffmpeg binary can be located.
	ErrFFmpegNotFound = errors.New("h264encoder: ffmpeg not found in PATH")

	// ErrFrameSize is returned when a frame does not match the dimensions given to Begin.
	ErrFrameSize = errors.New("h264encoder: frame size mismatch")
)

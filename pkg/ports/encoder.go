package ports

import (
	"image"
)

// VideoEncoder writes an ordered stream of frames to one video file.
// An encoder is single-use: Begin, any number of EncodeFrame calls, then
// exactly one of End or Abort.
type VideoEncoder interface {
	// Begin opens outputPath for a video of the given dimensions and frame rate.
	Begin(outputPath string, width, height int, fps float64, opts EncoderOptions) error

	// EncodeFrame appends one frame. The image must already have the
	// dimensions given to Begin.
	EncodeFrame(img image.Image) error

	// End finalizes the container and closes the output file.
	End() error

	// Abort stops encoding and removes the partially written output.
	Abort() error
}

// EncoderFactory creates a fresh encoder for one output video.
type EncoderFactory func() VideoEncoder

// EncoderOptions configures video encoding parameters.
type EncoderOptions struct {
	Bitrate int // Target bitrate in kbps (0 = encoder default)
	Quality int // CRF value: 0-63 (lower is higher quality, 0 = encoder default)
}

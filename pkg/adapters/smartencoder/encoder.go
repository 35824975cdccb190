// Package smartencoder selects a video encoder backend for the requested
// codec, falling back to the pure Go MJPEG writer when ffmpeg is missing.
package smartencoder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/user/framereel/pkg/adapters/h264encoder"
	"github.com/user/framereel/pkg/adapters/mjpegencoder"
	"github.com/user/framereel/pkg/ports"
)

// Codec represents the video codec type.
type Codec string

const (
	// CodecAuto picks H.264 when ffmpeg is available, MJPEG otherwise.
	CodecAuto Codec = "auto"
	// CodecH264 represents H.264/AVC codec.
	CodecH264 Codec = "h264"
	// CodecMJPEG represents Motion JPEG in an MP4 container.
	CodecMJPEG Codec = "mjpeg"
)

// Backend represents the encoding backend used.
type Backend string

const (
	// BackendFFmpeg represents FFmpeg-based encoding.
	BackendFFmpeg Backend = "ffmpeg"
	// BackendGo represents the built-in MJPEG muxer.
	BackendGo Backend = "go"
)

// Info contains information about the selected encoder.
type Info struct {
	// Codec is the actual codec being used.
	Codec Codec
	// Backend is the encoding backend being used.
	Backend Backend
	// RequestedCodec is the codec that was originally requested.
	RequestedCodec Codec
	// FallbackUsed indicates whether a fallback occurred.
	FallbackUsed bool
	// FFmpegPath is the resolved ffmpeg binary, if any.
	FFmpegPath string
}

// Options configures the smart encoder behavior.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
	// Logger is used to log fallback warnings.
	Logger ports.Logger
}

var (
	// ErrNoEncoderAvailable is returned when the requested codec cannot be produced.
	ErrNoEncoderAvailable = errors.New("smartencoder: no encoder available")
	// ErrUnknownCodec is returned by ParseCodec for unsupported names.
	ErrUnknownCodec = errors.New("smartencoder: unknown codec")
)

// ParseCodec parses a codec name. An empty name means auto.
func ParseCodec(s string) (Codec, error) {
	switch c := Codec(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CodecAuto, nil
	case CodecAuto, CodecH264, CodecMJPEG:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q (want auto, h264 or mjpeg)", ErrUnknownCodec, s)
	}
}

// New returns a factory producing encoders for the preferred codec.
//
// The selection flow:
//  1. mjpeg always uses the built-in muxer
//  2. h264 requires ffmpeg and fails with ErrNoEncoderAvailable without it
//  3. auto uses ffmpeg H.264 when found, otherwise falls back to mjpeg
//
// Every call of the returned factory creates an independent encoder.
func New(preferred Codec, opts Options) (ports.EncoderFactory, Info, error) {
	info := Info{RequestedCodec: preferred}

	switch preferred {
	case CodecMJPEG:
		info.Codec = CodecMJPEG
		info.Backend = BackendGo
		return mjpegFactory, info, nil
	case CodecH264, CodecAuto, "":
	default:
		return nil, Info{}, fmt.Errorf("%w: %q", ErrUnknownCodec, preferred)
	}

	ffmpegPath, err := h264encoder.FindFFmpeg(opts.FFmpegPath)
	if err == nil {
		info.Codec = CodecH264
		info.Backend = BackendFFmpeg
		info.FFmpegPath = ffmpegPath
		return func() ports.VideoEncoder { return h264encoder.New(ffmpegPath) }, info, nil
	}

	if preferred == CodecH264 {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrNoEncoderAvailable, err)
	}

	if opts.Logger != nil {
		opts.Logger.Warn("H.264 encoder not available, falling back to MJPEG")
	}

	info.Codec = CodecMJPEG
	info.Backend = BackendGo
	info.FallbackUsed = true
	return mjpegFactory, info, nil
}

func mjpegFactory() ports.VideoEncoder {
	return mjpegencoder.New()
}

// IsH264Available checks if ffmpeg-based H.264 encoding is available.
func IsH264Available(ffmpegPath string) bool {
	return h264encoder.IsAvailable(ffmpegPath)
}

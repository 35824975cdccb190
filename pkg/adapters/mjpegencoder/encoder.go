// Package mjpegencoder writes Motion-JPEG video into a fragmented MP4
// container without any external tools. It is the fallback used when ffmpeg
// is not installed.
package mjpegencoder

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"os"
	"sync"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/framereel/pkg/ports"
)

var (
	// ErrNotInitialized is returned when encoder methods are called before Begin or after End.
	ErrNotInitialized = errors.New("mjpegencoder: encoder not initialized")

	// ErrNoFrames is returned by End when no frame was written.
	ErrNoFrames = errors.New("mjpegencoder: no frames to encode")

	// ErrInvalidSize is returned when the dimensions cannot be stored in an MP4 sample entry.
	ErrInvalidSize = errors.New("mjpegencoder: invalid frame size")

	// ErrFrameSize is returned when a frame does not match the dimensions given to Begin.
	ErrFrameSize = errors.New("mjpegencoder: frame size mismatch")
)

const (
	trackID = 1

	// framesPerFragment bounds memory: samples are buffered until a
	// moof+mdat pair is written.
	framesPerFragment = 30

	defaultJPEGQuality = 90
)

// Encoder implements ports.VideoEncoder.
type Encoder struct {
	mu sync.Mutex

	width       int
	height      int
	timescale   uint32
	sampleDur   uint32
	jpegQuality int

	outputPath string
	partPath   string
	file       *os.File
	w          *bufio.Writer

	frag           *mp4.Fragment
	pending        int
	seqNr          uint32
	nextDecodeTime uint64
	frameCount     int
	buf            bytes.Buffer
}

// New creates a new MJPEG encoder.
func New() *Encoder {
	return &Encoder{}
}

// Begin creates "<outputPath>.part" and writes the ftyp and moov boxes.
func (e *Encoder) Begin(outputPath string, width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if width <= 0 || height <= 0 || width > math.MaxUint16 || height > math.MaxUint16 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if fps <= 0 {
		return fmt.Errorf("mjpegencoder: invalid frame rate %.2f", fps)
	}

	e.width = width
	e.height = height
	e.timescale = uint32(math.Round(fps * 1000))
	e.sampleDur = 1000
	e.jpegQuality = jpegQuality(opts.Quality)
	e.outputPath = outputPath
	e.partPath = outputPath + ".part"
	e.frag = nil
	e.pending = 0
	e.seqNr = 0
	e.nextDecodeTime = 0
	e.frameCount = 0

	f, err := os.Create(e.partPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	e.file = f
	e.w = bufio.NewWriter(f)

	if err := e.writeInit(); err != nil {
		e.closeAndRemove()
		return err
	}

	return nil
}

// jpegQuality maps the 0-63 CRF-style scale (lower is better) onto JPEG quality.
func jpegQuality(crf int) int {
	if crf <= 0 || crf > 63 {
		return defaultJPEGQuality
	}
	q := 100 - crf*70/63
	if q < 30 {
		q = 30
	}
	return q
}

func (e *Encoder) writeInit() error {
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(e.timescale, "video", "und")

	trak := init.Moov.Trak

	entry := mp4.CreateVisualSampleEntryBox("jpeg", uint16(e.width), uint16(e.height), nil)
	trak.Mdia.Minf.Stbl.Stsd.AddChild(entry)

	trak.Tkhd.Width = mp4.Fixed32(e.width << 16)
	trak.Tkhd.Height = mp4.Fixed32(e.height << 16)

	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso6", "mp41"})
	if err := ftyp.Encode(e.w); err != nil {
		return fmt.Errorf("encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(e.w); err != nil {
		return fmt.Errorf("encode moov: %w", err)
	}
	return nil
}

// EncodeFrame JPEG-compresses img and queues it as one sync sample.
func (e *Encoder) EncodeFrame(img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file == nil {
		return ErrNotInitialized
	}

	bounds := img.Bounds()
	if bounds.Dx() != e.width || bounds.Dy() != e.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSize, bounds.Dx(), bounds.Dy(), e.width, e.height)
	}

	e.buf.Reset()
	if err := jpeg.Encode(&e.buf, img, &jpeg.Options{Quality: e.jpegQuality}); err != nil {
		return fmt.Errorf("encode JPEG: %w", err)
	}
	data := make([]byte, e.buf.Len())
	copy(data, e.buf.Bytes())

	if e.frag == nil {
		e.seqNr++
		frag, err := mp4.CreateFragment(e.seqNr, trackID)
		if err != nil {
			return fmt.Errorf("create fragment: %w", err)
		}
		e.frag = frag
	}

	e.frag.AddFullSample(mp4.FullSample{
		Sample: mp4.Sample{
			Flags: mp4.SyncSampleFlags,
			Size:  uint32(len(data)),
			Dur:   e.sampleDur,
		},
		DecodeTime: e.nextDecodeTime,
		Data:       data,
	})
	e.nextDecodeTime += uint64(e.sampleDur)
	e.pending++
	e.frameCount++

	if e.pending >= framesPerFragment {
		return e.flushFragment()
	}
	return nil
}

func (e *Encoder) flushFragment() error {
	if e.frag == nil {
		return nil
	}
	if err := e.frag.Encode(e.w); err != nil {
		return fmt.Errorf("encode fragment: %w", err)
	}
	e.frag = nil
	e.pending = 0
	return nil
}

// End writes the last fragment, closes the file and renames it into place.
// A zero-frame output is removed and reported as ErrNoFrames.
func (e *Encoder) End() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file == nil {
		return ErrNotInitialized
	}

	if e.frameCount == 0 {
		e.closeAndRemove()
		return ErrNoFrames
	}

	if err := e.flushFragment(); err != nil {
		e.closeAndRemove()
		return err
	}
	if err := e.w.Flush(); err != nil {
		e.closeAndRemove()
		return fmt.Errorf("flush output: %w", err)
	}
	if err := e.file.Close(); err != nil {
		e.file = nil
		os.Remove(e.partPath)
		return fmt.Errorf("close output: %w", err)
	}
	e.file = nil

	if err := os.Rename(e.partPath, e.outputPath); err != nil {
		os.Remove(e.partPath)
		return fmt.Errorf("move output into place: %w", err)
	}
	return nil
}

// Abort discards everything written so far.
func (e *Encoder) Abort() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file == nil {
		return nil
	}
	return e.closeAndRemove()
}

func (e *Encoder) closeAndRemove() error {
	e.file.Close()
	e.file = nil
	e.frag = nil
	if err := os.Remove(e.partPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Ensure Encoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*Encoder)(nil)

// Package assemble implements the video assembly stage: it reads the images
// of one sequence in order and feeds them to a video encoder.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/user/framereel/pkg/pipeline"
	"github.com/user/framereel/pkg/ports"
)

// ErrFirstFrame is returned when the first image of a sequence cannot be
// read; it fixes the output resolution, so nothing is written.
var ErrFirstFrame = errors.New("assemble: first frame unreadable")

// Stage encodes one sequence into one video file.
type Stage struct {
	fs         ports.FileSystem
	renderer   ports.Renderer
	newEncoder ports.EncoderFactory
	sink       ports.DebugSink
	logger     ports.Logger
}

// NewStage creates a new assemble stage. newEncoder is called once per
// Execute, so one Stage may serve several goroutines.
func NewStage(fs ports.FileSystem, renderer ports.Renderer, newEncoder ports.EncoderFactory, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		fs:         fs,
		renderer:   renderer,
		newEncoder: newEncoder,
		sink:       sink,
		logger:     logger.WithComponent("assemble"),
	}
}

// Execute writes input.Sequence to input.OutputPath.
func (s *Stage) Execute(ctx context.Context, input pipeline.AssembleInput) (pipeline.AssembleResult, error) {
	seq := input.Sequence
	result := pipeline.AssembleResult{OutputPath: input.OutputPath}

	if len(seq.Paths) == 0 {
		s.logger.Warn("Sequence %s has no frames, skipping", seq.Name)
		result.Skipped = true
		return result, nil
	}

	first, err := s.loadFrame(seq.Paths[0])
	if err != nil {
		return result, fmt.Errorf("%w: %s: %v", ErrFirstFrame, seq.Paths[0], err)
	}

	bounds := first.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	result.Width, result.Height = width, height

	if s.sink.Enabled() {
		if err := s.sink.SaveFirstFrame(seq.Name, first); err != nil {
			s.logger.Debug("Failed to save debug output: %v", err)
		}
	}

	encoder := s.newEncoder()
	if err := encoder.Begin(input.OutputPath, width, height, input.FPS, input.Options); err != nil {
		return result, fmt.Errorf("begin encoding: %w", err)
	}

	s.logger.Debug("Encoding %s: %d frames at %dx%d, %.2f fps", seq.Name, len(seq.Paths), width, height, input.FPS)

	if err := s.writeFrame(encoder, first, seq.Paths[0], input.Annotate); err != nil {
		encoder.Abort()
		return result, fmt.Errorf("encode frame 0 (%s): %w", seq.Paths[0], err)
	}
	result.FramesWritten++

	for i, path := range seq.Paths[1:] {
		select {
		case <-ctx.Done():
			encoder.Abort()
			return result, ctx.Err()
		default:
		}

		img, err := s.loadFrame(path)
		if err != nil {
			s.logger.Warn("Skipping unreadable frame %s: %v", path, err)
			result.FramesSkipped++
			continue
		}

		if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
			s.logger.Debug("Resizing %s from %dx%d to %dx%d", path, b.Dx(), b.Dy(), width, height)
			img = s.renderer.ResizeImage(img, width, height)
			result.FramesResized++
		}

		if err := s.writeFrame(encoder, img, path, input.Annotate); err != nil {
			encoder.Abort()
			return result, fmt.Errorf("encode frame %d (%s): %w", i+1, path, err)
		}
		result.FramesWritten++
	}

	if err := encoder.End(); err != nil {
		encoder.Abort()
		return result, fmt.Errorf("end encoding: %w", err)
	}

	if size, err := s.fs.Size(input.OutputPath); err == nil {
		result.FileSize = size
	}

	s.logger.Info("Wrote %s: %d frames (%d skipped)", input.OutputPath, result.FramesWritten, result.FramesSkipped)
	return result, nil
}

func (s *Stage) loadFrame(path string) (image.Image, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.renderer.DecodeImage(data, ports.FormatFromPath(path))
}

func (s *Stage) writeFrame(encoder ports.VideoEncoder, img image.Image, path string, annotate bool) error {
	if annotate {
		img = s.annotate(img, filepath.Base(path))
	}
	return encoder.EncodeFrame(img)
}

// annotate burns label into the bottom-left corner of img.
func (s *Stage) annotate(img image.Image, label string) image.Image {
	b := img.Bounds()
	canvas := s.renderer.CreateCanvas(b.Dx(), b.Dy(), color.Black)
	canvas.DrawImage(img, 0, 0)

	style := ports.TextStyle{
		FontSize: max(12, float64(b.Dy())/30),
		Color:    color.White,
		Align:    ports.AlignLeft,
	}
	tw, th := canvas.MeasureText(label, style)

	const pad = 4
	boxH := int(th) + pad*2
	canvas.DrawRect(0, b.Dy()-boxH, int(tw)+pad*2, boxH, color.RGBA{A: 160})
	canvas.DrawText(label, pad, b.Dy()-boxH/2, style)

	return canvas.ToImage()
}

var _ pipeline.Stage[pipeline.AssembleInput, pipeline.AssembleResult] = (*Stage)(nil)

// Package h264encoder encodes H.264 MP4 files by piping raw RGBA frames into
// an ffmpeg subprocess.
package h264encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/user/framereel/pkg/ports"
)

// FindFFmpeg locates the ffmpeg binary.
// Priority: 1) custom, 2) FFMPEG_PATH env, 3) PATH, 4) common locations.
func FindFFmpeg(custom string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, custom)
	}

	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: FFMPEG_PATH %s not found", ErrFFmpegNotFound, envPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}

	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	var commonPaths []string
	switch runtime.GOOS {
	case "windows":
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
		}
	case "darwin":
		commonPaths = []string{
			"/opt/homebrew/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/usr/bin/ffmpeg",
		}
	default:
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}

	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrFFmpegNotFound
}

// IsAvailable reports whether an ffmpeg binary can be found.
func IsAvailable(custom string) bool {
	_, err := FindFFmpeg(custom)
	return err == nil
}

// Encoder implements ports.VideoEncoder with an ffmpeg subprocess.
// Output is written to "<path>.part" and renamed on End, so an interrupted
// encode never leaves a file under the final name.
type Encoder struct {
	ffmpegPath string

	mu         sync.Mutex
	width      int
	height     int
	outputPath string
	partPath   string
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stderr     bytes.Buffer
	frame      *image.RGBA
	frameCount int
}

// New creates an encoder. ffmpegPath may be empty to search the usual places.
func New(ffmpegPath string) *Encoder {
	return &Encoder{ffmpegPath: ffmpegPath}
}

// Begin starts ffmpeg writing to outputPath.
func (e *Encoder) Begin(outputPath string, width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ffmpegPath, err := FindFFmpeg(e.ffmpegPath)
	if err != nil {
		return err
	}

	e.width = width
	e.height = height
	e.outputPath = outputPath
	e.partPath = outputPath + ".part"
	e.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	e.frameCount = 0
	e.stderr.Reset()

	e.cmd = exec.Command(ffmpegPath, buildArgs(width, height, fps, opts, e.partPath)...)
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		e.stdin = nil
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	return nil
}

// evenSize rounds width and height up to the next even number.
func evenSize(width, height int) (int, int) {
	return width + width%2, height + height%2
}

// buildArgs returns the ffmpeg command line for a raw RGBA stdin stream.
func buildArgs(width, height int, fps float64, opts ports.EncoderOptions, output string) []string {
	args := []string{
		"-y",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", fmt.Sprintf("%.3f", fps),
		"-i", "pipe:0",
	}

	// yuv420p needs even dimensions; odd sizes are stretched up by one pixel.
	if ew, eh := evenSize(width, height); ew != width || eh != height {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", ew, eh))
	}

	args = append(args,
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
	)

	if opts.Quality > 0 && opts.Quality <= 63 {
		// Map the 0-63 scale onto x264's 0-51 CRF range
		crf := opts.Quality * 51 / 63
		args = append(args, "-crf", fmt.Sprintf("%d", crf))
	} else {
		args = append(args, "-crf", "23")
	}

	if opts.Bitrate > 0 {
		args = append(args, "-b:v", fmt.Sprintf("%dk", opts.Bitrate))
	}

	return append(args,
		"-movflags", "+faststart",
		"-f", "mp4",
		output,
	)
}

// EncodeFrame writes one frame to ffmpeg.
func (e *Encoder) EncodeFrame(img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil {
		return ErrNotInitialized
	}

	bounds := img.Bounds()
	if bounds.Dx() != e.width || bounds.Dy() != e.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSize, bounds.Dx(), bounds.Dy(), e.width, e.height)
	}

	draw.Draw(e.frame, e.frame.Bounds(), img, bounds.Min, draw.Src)

	if _, err := e.stdin.Write(e.frame.Pix); err != nil {
		return fmt.Errorf("failed to write frame: %w: %s", err, strings.TrimSpace(e.stderr.String()))
	}

	e.frameCount++
	return nil
}

// End waits for ffmpeg to finish and moves the output into place.
func (e *Encoder) End() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil {
		return ErrNotInitialized
	}

	e.stdin.Close()
	e.stdin = nil

	if err := e.cmd.Wait(); err != nil {
		os.Remove(e.partPath)
		return fmt.Errorf("ffmpeg encoding failed: %w\nstderr: %s", err, e.stderr.String())
	}

	if err := os.Rename(e.partPath, e.outputPath); err != nil {
		os.Remove(e.partPath)
		return fmt.Errorf("move output into place: %w", err)
	}

	return nil
}

// Abort kills ffmpeg and removes the partial output.
func (e *Encoder) Abort() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil {
		return nil
	}

	e.stdin.Close()
	e.stdin = nil

	if e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
	e.cmd.Wait()

	if err := os.Remove(e.partPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// FrameCount returns the number of frames written so far.
func (e *Encoder) FrameCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameCount
}

// Ensure Encoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*Encoder)(nil)

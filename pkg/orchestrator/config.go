package orchestrator

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/user/framereel/pkg/stages/compose"
)

// ErrConfig marks errors that stop a job before any video is written.
var ErrConfig = errors.New("configuration error")

// Mode selects the composition policy.
type Mode string

const (
	// ModeGroup writes one video per camera group.
	ModeGroup Mode = "group"
	// ModeSplit interleaves train and test images and splits the result.
	ModeSplit Mode = "split"
)

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeGroup, ModeSplit:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrConfig, s)
	}
}

// Config describes one video assembly job.
type Config struct {
	Mode Mode

	// Sources
	TrainDir  string
	TestDir   string
	ExtraDirs []string // Additional group mode sources, scanned after train and test

	// Output
	OutDir string
	FPS    float64

	// Split mode
	NumVideos int
	Ratio     compose.Ratio

	// Encoding
	Workers  int
	Quality  int // 0-63, lower is better; 0 selects the encoder default
	Bitrate  int // kbps, 0 for none
	Annotate bool
}

// Default frame rates per mode.
const (
	DefaultGroupFPS  = 10
	DefaultSplitFPS  = 30
	DefaultNumVideos = 12
)

// DefaultConfig returns a Config with default values for the mode.
func DefaultConfig(mode Mode) Config {
	c := Config{
		Mode:      mode,
		FPS:       DefaultGroupFPS,
		NumVideos: DefaultNumVideos,
		Ratio:     compose.DefaultRatio,
		Workers:   runtime.NumCPU(),
	}
	if mode == ModeSplit {
		c.FPS = DefaultSplitFPS
	}
	return c
}

// SourceDirs returns the group mode directories in scan order.
func (c Config) SourceDirs() []string {
	var dirs []string
	for _, d := range []string{c.TrainDir, c.TestDir} {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return append(dirs, c.ExtraDirs...)
}

// Validate checks that the job can run. Errors wrap ErrConfig.
func (c Config) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("%w: output directory is required", ErrConfig)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %g", ErrConfig, c.FPS)
	}
	if c.Quality < 0 || c.Quality > 63 {
		return fmt.Errorf("%w: quality must be between 0 and 63, got %d", ErrConfig, c.Quality)
	}

	switch c.Mode {
	case ModeGroup:
		if len(c.SourceDirs()) == 0 {
			return fmt.Errorf("%w: at least one source directory is required", ErrConfig)
		}
	case ModeSplit:
		if c.TrainDir == "" || c.TestDir == "" {
			return fmt.Errorf("%w: split mode requires both train and test directories", ErrConfig)
		}
		if c.NumVideos < 1 {
			return fmt.Errorf("%w: number of videos must be at least 1, got %d", ErrConfig, c.NumVideos)
		}
		if err := c.Ratio.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrConfig, err)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrConfig, c.Mode)
	}

	return nil
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// Package config provides configuration loading and management.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/user/framereel/pkg/framename"
	"github.com/user/framereel/pkg/orchestrator"
	"github.com/user/framereel/pkg/stages/compose"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration file for framereel.
type Config struct {
	// Job
	Mode      string   `yaml:"mode"`
	TrainDir  string   `yaml:"train_dir"`
	TestDir   string   `yaml:"test_dir"`
	ExtraDirs []string `yaml:"dirs"`
	OutDir    string   `yaml:"out_dir"`

	// Composition
	FPS        *float64 `yaml:"fps"`        // nil selects the mode default
	NumVideos  *int     `yaml:"num_videos"` // nil selects the default
	Ratio      string   `yaml:"ratio"`
	GroupToken string   `yaml:"group_token"`

	// Encoding
	Workers       int    `yaml:"workers"`
	Codec         string `yaml:"codec"`
	Quality       int    `yaml:"quality"`
	QualityPreset string `yaml:"quality_preset"`
	Bitrate       int    `yaml:"bitrate"`
	Annotate      bool   `yaml:"annotate"`
	FFmpegPath    string `yaml:"ffmpeg_path"`

	// Reporting
	Summary  string    `yaml:"summary"`
	Debug    bool      `yaml:"debug"`
	DebugDir string    `yaml:"debug_dir"`
	Log      LogConfig `yaml:"log"`
}

// LogConfig represents logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Mode: string(orchestrator.ModeGroup),

		Ratio:      compose.DefaultRatio.String(),
		GroupToken: framename.DefaultGroupToken,

		Codec: "auto",

		DebugDir: "./debug",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), err
	}
	cfg, err := Load(bytes.NewReader(data))
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load reads YAML configuration on top of Defaults. Unknown keys are errors.
func Load(r io.Reader) (Config, error) {
	cfg := Defaults()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, err
	}

	return cfg, nil
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() (orchestrator.Config, error) {
	mode, err := orchestrator.ParseMode(c.Mode)
	if err != nil {
		return orchestrator.Config{}, err
	}

	oc := orchestrator.DefaultConfig(mode)
	oc.TrainDir = c.TrainDir
	oc.TestDir = c.TestDir
	oc.ExtraDirs = c.ExtraDirs
	oc.OutDir = c.OutDir
	// Explicit zeros pass through so Validate rejects them.
	if c.FPS != nil {
		oc.FPS = *c.FPS
	}
	if c.NumVideos != nil {
		oc.NumVideos = *c.NumVideos
	}
	if c.Ratio != "" {
		ratio, err := compose.ParseRatio(c.Ratio)
		if err != nil {
			return orchestrator.Config{}, fmt.Errorf("%w: %w", orchestrator.ErrConfig, err)
		}
		oc.Ratio = ratio
	}
	if c.Workers > 0 {
		oc.Workers = c.Workers
	}

	oc.Quality = c.Quality
	if c.Quality == 0 && c.QualityPreset != "" {
		preset, err := ParseQualityPreset(c.QualityPreset)
		if err != nil {
			return orchestrator.Config{}, err
		}
		oc.Quality = preset.Quality()
	}
	oc.Bitrate = c.Bitrate
	oc.Annotate = c.Annotate

	return oc, nil
}

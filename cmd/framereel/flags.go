package main

import (
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framereel/pkg/config"
	"github.com/user/framereel/pkg/orchestrator"
)

// Flag categories
const (
	categoryInput    = "Input"
	categoryOutput   = "Output"
	categoryEncoding = "Video and Quality"
	categoryDebug    = "Debug"
	categoryLogging  = "Logging"
)

// jobFlags returns the flags of a job subcommand.
func jobFlags(mode orchestrator.Mode) []cli.Flag {
	defaultFPS := float64(orchestrator.DefaultGroupFPS)
	if mode == orchestrator.ModeSplit {
		defaultFPS = orchestrator.DefaultSplitFPS
	}

	flags := []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), Category: l10n.T(categoryInput)},
		&cli.StringFlag{Name: "train-dir", Usage: l10n.T("Directory of training frames"), Category: l10n.T(categoryInput)},
		&cli.StringFlag{Name: "test-dir", Usage: l10n.T("Directory of test frames"), Category: l10n.T(categoryInput)},
		&cli.StringFlag{Name: "group-token", Value: config.Defaults().GroupToken, Usage: l10n.T("Literal prefix of the camera group in file names"), Category: l10n.T(categoryInput)},

		&cli.StringFlag{Name: "out-dir", Aliases: []string{"o"}, Usage: l10n.T("Output directory for MP4 files"), Category: l10n.T(categoryOutput)},
		&cli.Float64Flag{Name: "fps", Value: defaultFPS, Usage: l10n.T("Frames per second of the output videos"), Category: l10n.T(categoryOutput)},
		&cli.IntFlag{Name: "workers", Aliases: []string{"j"}, Usage: l10n.T("Number of videos encoded in parallel (default: number of CPUs)"), Category: l10n.T(categoryOutput)},
		&cli.StringFlag{Name: "summary", Usage: l10n.T("Write a run summary (.md or .json)"), Category: l10n.T(categoryOutput)},

		&cli.StringFlag{Name: "codec", Value: config.Defaults().Codec, Usage: l10n.T("Video codec (auto, h264, mjpeg)"), Category: l10n.T(categoryEncoding)},
		&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Usage: l10n.T("Video CRF value (0-63, lower is better, overrides quality preset)"), Category: l10n.T(categoryEncoding)},
		&cli.StringFlag{Name: "quality-preset", Usage: l10n.T("Quality preset (low, medium, high)"), Category: l10n.T(categoryEncoding)},
		&cli.IntFlag{Name: "bitrate", Usage: l10n.T("Target bitrate in kbps (H.264 only)"), Category: l10n.T(categoryEncoding)},
		&cli.StringFlag{Name: "ffmpeg-path", Usage: l10n.T("Path to the ffmpeg executable"), Category: l10n.T(categoryEncoding)},
		&cli.BoolFlag{Name: "annotate", Usage: l10n.T("Draw the source file name on each frame"), Category: l10n.T(categoryEncoding)},

		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output"), Category: l10n.T(categoryDebug)},
		&cli.StringFlag{Name: "debug-dir", Value: config.Defaults().DebugDir, Usage: l10n.T("Directory for debug output"), Category: l10n.T(categoryDebug)},

		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T(categoryLogging)},
		&cli.StringFlag{Name: "log-format", Value: "console", Usage: l10n.T("Log format (console, json)"), Category: l10n.T(categoryLogging)},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T(categoryLogging)},
	}

	switch mode {
	case orchestrator.ModeGroup:
		flags = append(flags,
			&cli.StringSliceFlag{Name: "dir", Usage: l10n.T("Additional source directory (repeatable)"), Category: l10n.T(categoryInput)},
		)
	case orchestrator.ModeSplit:
		flags = append(flags,
			&cli.IntFlag{Name: "num-videos", Aliases: []string{"n"}, Value: orchestrator.DefaultNumVideos, Usage: l10n.T("Number of output videos"), Category: l10n.T(categoryOutput)},
			&cli.StringFlag{Name: "ratio", Value: config.Defaults().Ratio, Usage: l10n.T("Train to test interleave ratio (A:B)"), Category: l10n.T(categoryInput)},
		)
	}

	return flags
}

// loadConfig reads the optional config file and applies every flag set on
// the command line on top of it.
func loadConfig(c *cli.Context, mode orchestrator.Mode) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	cfg.Mode = string(mode)

	if c.IsSet("train-dir") {
		cfg.TrainDir = c.String("train-dir")
	}
	if c.IsSet("test-dir") {
		cfg.TestDir = c.String("test-dir")
	}
	if c.IsSet("dir") {
		cfg.ExtraDirs = c.StringSlice("dir")
	}
	if c.IsSet("group-token") {
		cfg.GroupToken = c.String("group-token")
	}
	if c.IsSet("out-dir") {
		cfg.OutDir = c.String("out-dir")
	}
	if c.IsSet("fps") {
		fps := c.Float64("fps")
		cfg.FPS = &fps
	}
	if c.IsSet("num-videos") {
		n := c.Int("num-videos")
		cfg.NumVideos = &n
	}
	if c.IsSet("ratio") {
		cfg.Ratio = c.String("ratio")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("summary") {
		cfg.Summary = c.String("summary")
	}

	if c.IsSet("codec") {
		cfg.Codec = c.String("codec")
	}
	if c.IsSet("quality") {
		cfg.Quality = c.Int("quality")
	}
	if c.IsSet("quality-preset") {
		cfg.QualityPreset = c.String("quality-preset")
	}
	if c.IsSet("bitrate") {
		cfg.Bitrate = c.Int("bitrate")
	}
	if c.IsSet("ffmpeg-path") {
		cfg.FFmpegPath = c.String("ffmpeg-path")
	}
	if c.IsSet("annotate") {
		cfg.Annotate = c.Bool("annotate")
	}

	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}

	return cfg, nil
}

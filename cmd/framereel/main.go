// Package main provides the CLI entry point for framereel.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framereel/pkg/adapters/filesink"
	"github.com/user/framereel/pkg/adapters/ggrenderer"
	"github.com/user/framereel/pkg/adapters/logger"
	"github.com/user/framereel/pkg/adapters/nullsink"
	"github.com/user/framereel/pkg/adapters/osfilesystem"
	"github.com/user/framereel/pkg/adapters/smartencoder"
	"github.com/user/framereel/pkg/adapters/videoprobe"
	"github.com/user/framereel/pkg/config"
	"github.com/user/framereel/pkg/framename"
	"github.com/user/framereel/pkg/orchestrator"
	"github.com/user/framereel/pkg/ports"
	"github.com/user/framereel/pkg/stages/assemble"
	"github.com/user/framereel/pkg/stages/catalog"
	"github.com/user/framereel/pkg/stages/compose"
	"github.com/user/framereel/pkg/summarizer"
)

var version = "dev"

// Exit codes
const (
	exitOK          = 0
	exitError       = 1
	exitConfig      = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(exitCode(newApp().Run(os.Args)))
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 "framereel",
		Usage:                l10n.T("Assemble multi-camera frame images into MP4 videos"),
		Description:          l10n.T("framereel turns directories of per-camera frame images into one video per camera group, or into a fixed number of train/test interleaved videos."),
		HideVersion:          true,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:        "group",
				Usage:       l10n.T("Write one video per camera group"),
				Description: l10n.T("Scan the source directories, group frames by camera and write one video per group ordered by frame index."),
				Flags:       jobFlags(orchestrator.ModeGroup),
				Action:      jobAction(orchestrator.ModeGroup),
			},
			{
				Name:        "split",
				Usage:       l10n.T("Interleave train and test images into a fixed number of videos"),
				Description: l10n.T("Interleave the train and test directories by ratio and split the merged sequence into equal chunks."),
				Flags:       jobFlags(orchestrator.ModeSplit),
				Action:      jobAction(orchestrator.ModeSplit),
			},
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("framereel version %s", version))
					return nil
				},
			},
		},
	}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	}

	fmt.Fprintln(os.Stderr, l10n.F("Error: %v", err))
	if errors.Is(err, orchestrator.ErrConfig) {
		return exitConfig
	}
	return exitError
}

func jobAction(mode orchestrator.Mode) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(c, mode)
		if err != nil {
			return fmt.Errorf("%w: %w", orchestrator.ErrConfig, err)
		}
		return runJob(c.Context, cfg, c.Bool("quiet"))
	}
}

// newLogger creates the logger selected by the log settings.
func newLogger(cfg config.LogConfig, quiet bool) ports.Logger {
	level := ports.ParseLogLevel(cfg.Level)
	switch {
	case quiet || level == ports.LevelQuiet:
		return logger.NewNoop()
	case cfg.Format == "json":
		return logger.NewZerolog(os.Stderr, level)
	default:
		return logger.NewConsole(level)
	}
}

// runJob wires the adapters and stages and runs one job.
func runJob(parent context.Context, cfg config.Config, quiet bool) error {
	log := newLogger(cfg.Log, quiet)

	jobConfig, err := cfg.ToOrchestratorConfig()
	if err != nil {
		return err
	}
	codec, err := smartencoder.ParseCodec(cfg.Codec)
	if err != nil {
		return fmt.Errorf("%w: %w", orchestrator.ErrConfig, err)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	newEncoder, encoderInfo, err := smartencoder.New(codec, smartencoder.Options{
		FFmpegPath: cfg.FFmpegPath,
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", orchestrator.ErrConfig, err)
	}
	log.Info("Using %s encoder (%s)", encoderInfo.Codec, encoderInfo.Backend)

	// Create debug sink
	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	// Create stages
	catalogStage := catalog.NewStage(fs, framename.New(cfg.GroupToken), sink, log)
	composeStage := compose.NewStage(sink, log)
	assembleStage := assemble.NewStage(fs, renderer, newEncoder, sink, log)

	orch := orchestrator.New(catalogStage, composeStage, assembleStage, fs, log)

	result, runErr := orch.Run(ctx, jobConfig)

	if cfg.Summary != "" && (runErr == nil || len(result.Outputs) > 0) {
		summary := summarizer.FromRun(jobConfig, result, encoderInfo, videoprobe.ProbeFile)
		writer := summarizer.NewWriter(summarizer.FormatterFor(cfg.Summary), fs)
		if err := writer.Write(cfg.Summary, summary); err != nil {
			log.Warn("Failed to write summary: %v", err)
		} else {
			log.Info("Summary written to %s", cfg.Summary)
		}
	}

	return runErr
}

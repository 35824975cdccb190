// Package orchestrator drives a video assembly job: catalog, compose, then
// encode every sequence on a worker pool.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/user/framereel/pkg/pipeline"
	"github.com/user/framereel/pkg/ports"
	"github.com/user/framereel/pkg/stages/compose"
)

// CatalogStage scans directories for frames.
type CatalogStage interface {
	pipeline.Stage[pipeline.CatalogInput, pipeline.CatalogResult]
	// ListImages returns the sorted image paths of one directory.
	ListImages(dir string) ([]string, error)
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	catalogStage  CatalogStage
	composeStage  pipeline.Stage[compose.Policy, []pipeline.Sequence]
	assembleStage pipeline.Stage[pipeline.AssembleInput, pipeline.AssembleResult]
	fs            ports.FileSystem
	logger        ports.Logger
}

// New creates a new Orchestrator.
func New(
	catalogStage CatalogStage,
	composeStage pipeline.Stage[compose.Policy, []pipeline.Sequence],
	assembleStage pipeline.Stage[pipeline.AssembleInput, pipeline.AssembleResult],
	fs ports.FileSystem,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		catalogStage:  catalogStage,
		composeStage:  composeStage,
		assembleStage: assembleStage,
		fs:            fs,
		logger:        logger,
	}
}

// Run executes one job. A returned error wrapping ErrConfig means nothing was
// encoded. Per-sequence failures are reported in RunResult.Outputs and do not
// produce an error; a cancelled context returns the partial result together
// with ctx.Err().
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	start := time.Now()
	result := RunResult{Mode: config.Mode, OutDir: config.OutDir}

	if err := config.Validate(); err != nil {
		return result, err
	}

	o.logger.Info("Starting %s job", config.Mode)

	policy, err := o.buildPolicy(ctx, config, &result)
	if err != nil {
		return result, err
	}
	result.Policy = policy.Name()

	sequences, err := o.composeStage.Execute(ctx, policy)
	if err != nil {
		if errors.Is(err, compose.ErrEmptySequence) || errors.Is(err, compose.ErrInvalidPolicy) {
			return result, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		return result, fmt.Errorf("compose stage: %w", err)
	}

	if len(sequences) == 0 {
		o.logger.Warn("No frames found, nothing to encode")
		result.Duration = time.Since(start)
		return result, nil
	}

	if err := o.fs.MkdirAll(config.OutDir); err != nil {
		return result, fmt.Errorf("%w: create output directory %s: %w", ErrConfig, config.OutDir, err)
	}

	result.Outputs = o.encodeAll(ctx, config, sequences)
	for _, out := range result.Outputs {
		result.FramesWritten += out.FramesWritten
		result.FramesSkipped += out.FramesSkipped
		switch {
		case out.Err != nil:
			result.Failed++
		case out.Skipped:
			result.Skipped++
		}
	}
	result.Duration = time.Since(start)

	if err := ctx.Err(); err != nil {
		o.logger.Warn("Interrupted after %d of %d sequences", result.Succeeded(), len(sequences))
		return result, err
	}

	o.logger.Info("Finished: %d videos written, %d failed, %d frames skipped", result.Succeeded(), result.Failed, result.FramesSkipped)
	return result, nil
}

// buildPolicy gathers the inputs of the configured composition policy.
func (o *Orchestrator) buildPolicy(ctx context.Context, config Config, result *RunResult) (compose.Policy, error) {
	switch config.Mode {
	case ModeSplit:
		train, err := o.listRequired(config.TrainDir)
		if err != nil {
			return nil, err
		}
		test, err := o.listRequired(config.TestDir)
		if err != nil {
			return nil, err
		}
		result.TrainImages = len(train)
		result.TestImages = len(test)
		o.logger.Info("Found %d train and %d test images", len(train), len(test))

		return compose.RatioSplit{
			Train:     train,
			Test:      test,
			Ratio:     config.Ratio,
			NumVideos: config.NumVideos,
		}, nil

	default:
		scanned, err := o.catalogStage.Execute(ctx, pipeline.CatalogInput{Dirs: config.SourceDirs()})
		if err != nil {
			return nil, fmt.Errorf("catalog stage: %w", err)
		}
		result.Catalog = scanned.Stats
		result.Groups = len(scanned.Catalog)

		return compose.GroupMerge{Catalog: scanned.Catalog}, nil
	}
}

func (o *Orchestrator) listRequired(dir string) ([]string, error) {
	paths, err := o.catalogStage.ListImages(dir)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: directory not found: %s", ErrConfig, dir)
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return paths, nil
}

// OutputPath returns the video path for a sequence.
func OutputPath(outDir string, seq pipeline.Sequence) string {
	return filepath.Join(outDir, seq.Name+".mp4")
}

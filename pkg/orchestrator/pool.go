package orchestrator

import (
	"context"
	"sort"
	"sync"

	"github.com/user/framereel/pkg/pipeline"
	"github.com/user/framereel/pkg/ports"
)

// indexedOutput holds an output with its sequence index for sorting.
type indexedOutput struct {
	index  int
	output OutputResult
}

// encodeAll encodes every sequence using a worker pool. Frames within one
// sequence stay on one worker; results come back in sequence order.
func (o *Orchestrator) encodeAll(ctx context.Context, config Config, sequences []pipeline.Sequence) []OutputResult {
	numWorkers := min(config.workers(), len(sequences))
	jobs := make(chan int, len(sequences))
	results := make(chan indexedOutput, len(sequences))

	o.logger.Debug("Encoding %d sequences with %d workers", len(sequences), numWorkers)

	// Start workers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go o.worker(ctx, &wg, config, sequences, jobs, results)
	}

	// Send jobs
	for i := range sequences {
		jobs <- i
	}
	close(jobs)

	// Wait for workers to finish
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results
	collected := make([]indexedOutput, 0, len(sequences))
	for r := range results {
		collected = append(collected, r)
	}

	// Sort by index to maintain order
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].index < collected[j].index
	})

	outputs := make([]OutputResult, len(collected))
	for i, r := range collected {
		outputs[i] = r.output
	}
	return outputs
}

// worker encodes sequences from the jobs channel. Once ctx is done the
// remaining jobs are drained and marked with ctx.Err().
func (o *Orchestrator) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	config Config,
	sequences []pipeline.Sequence,
	jobs <-chan int,
	results chan<- indexedOutput,
) {
	defer wg.Done()

	for idx := range jobs {
		seq := sequences[idx]
		out := OutputResult{
			Sequence:   seq.Name,
			InputCount: len(seq.Paths),
		}

		if err := ctx.Err(); err != nil {
			out.Err = err
			results <- indexedOutput{index: idx, output: out}
			continue
		}

		assembled, err := o.assembleStage.Execute(ctx, pipeline.AssembleInput{
			Sequence:   seq,
			OutputPath: OutputPath(config.OutDir, seq),
			FPS:        config.FPS,
			Options: ports.EncoderOptions{
				Quality: config.Quality,
				Bitrate: config.Bitrate,
			},
			Annotate: config.Annotate,
		})
		out.AssembleResult = assembled
		if err != nil {
			o.logger.Warn("Sequence %s failed: %v", seq.Name, err)
			out.Err = err
		}

		results <- indexedOutput{index: idx, output: out}
	}
}

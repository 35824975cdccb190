package orchestrator

import (
	"time"

	"github.com/user/framereel/pkg/pipeline"
)

// OutputResult is the outcome of one sequence.
type OutputResult struct {
	Sequence   string
	InputCount int // Paths in the sequence
	pipeline.AssembleResult
	Err error
}

// OK reports whether a video file was written.
func (r OutputResult) OK() bool {
	return r.Err == nil && !r.Skipped
}

// RunResult contains the results of a job for summary generation.
type RunResult struct {
	Mode   Mode
	Policy string
	OutDir string

	// Group mode scan
	Catalog pipeline.CatalogStats
	Groups  int

	// Split mode inputs
	TrainImages int
	TestImages  int

	// Outputs in sequence order
	Outputs []OutputResult

	FramesWritten int
	FramesSkipped int
	Failed        int
	Skipped       int

	Duration time.Duration
}

// Succeeded returns the number of videos written.
func (r RunResult) Succeeded() int {
	n := 0
	for _, out := range r.Outputs {
		if out.OK() {
			n++
		}
	}
	return n
}

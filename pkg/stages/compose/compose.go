package compose

import (
	"context"
	"encoding/json"

	"github.com/user/framereel/pkg/pipeline"
	"github.com/user/framereel/pkg/ports"
)

// Stage runs a Policy and reports what it produced.
type Stage struct {
	sink   ports.DebugSink
	logger ports.Logger
}

// NewStage creates a new compose stage.
func NewStage(sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		sink:   sink,
		logger: logger.WithComponent("compose"),
	}
}

// Execute composes sequences with the given policy.
func (s *Stage) Execute(ctx context.Context, policy Policy) ([]pipeline.Sequence, error) {
	sequences, err := policy.Compose(ctx)
	if err != nil {
		return nil, err
	}

	frames := 0
	for _, seq := range sequences {
		frames += len(seq.Paths)
		s.logger.Debug("Sequence %s: %d frames", seq.Name, len(seq.Paths))
	}
	s.logger.Info("Composed %d sequences (%d frames) with policy %s", len(sequences), frames, policy.Name())

	if s.sink.Enabled() {
		if data, err := json.MarshalIndent(sequences, "", "  "); err == nil {
			if err := s.sink.SaveSequencesJSON(data); err != nil {
				s.logger.Debug("Failed to save debug output: %v", err)
			}
		}
	}

	return sequences, nil
}

var _ pipeline.Stage[Policy, []pipeline.Sequence] = (*Stage)(nil)

package summarizer

import (
	"github.com/user/framereel/pkg/adapters/smartencoder"
	"github.com/user/framereel/pkg/adapters/videoprobe"
	"github.com/user/framereel/pkg/orchestrator"
)

// ProbeFunc inspects a written video.
type ProbeFunc func(path string) (videoprobe.Info, error)

// FromRun builds a Summary from a finished job. probe may be nil to skip
// inspecting the written files.
func FromRun(config orchestrator.Config, result orchestrator.RunResult, enc smartencoder.Info, probe ProbeFunc) *Summary {
	job := JobInfo{
		Mode:    string(config.Mode),
		Policy:  result.Policy,
		OutDir:  config.OutDir,
		FPS:     config.FPS,
		Workers: config.Workers,
		Quality: config.Quality,
	}
	if config.Mode == orchestrator.ModeSplit {
		job.NumVideos = config.NumVideos
		job.Ratio = config.Ratio.String()
	}

	b := NewBuilder().
		WithJob(job).
		WithEncoder(EncoderInfo{
			Codec:          string(enc.Codec),
			Backend:        string(enc.Backend),
			RequestedCodec: string(enc.RequestedCodec),
			FallbackUsed:   enc.FallbackUsed,
		}).
		WithInputs(InputInfo{
			ScannedDirs:   result.Catalog.ScannedDirs,
			SkippedDirs:   result.Catalog.SkippedDirs,
			ImageFiles:    result.Catalog.ImageFiles,
			IgnoredFiles:  result.Catalog.IgnoredFiles,
			UnparsedFiles: result.Catalog.UnparsedFiles,
			Groups:        result.Groups,
			TrainImages:   result.TrainImages,
			TestImages:    result.TestImages,
		}).
		WithDuration(result.Duration)

	for _, out := range result.Outputs {
		video := VideoInfo{
			Name:          out.Sequence,
			Path:          out.OutputPath,
			Frames:        out.FramesWritten,
			FramesSkipped: out.FramesSkipped,
			FramesResized: out.FramesResized,
			Width:         out.Width,
			Height:        out.Height,
			FileSize:      out.FileSize,
		}

		switch {
		case out.Err != nil:
			video.Status = StatusFailed
			video.Error = out.Err.Error()
		case out.Skipped:
			video.Status = StatusSkipped
		default:
			video.Status = StatusWritten
			if probe != nil {
				if info, err := probe(out.OutputPath); err == nil {
					video.Codec = string(info.Codec)
					video.DurationMs = info.DurationMs
				}
			}
		}

		b.AddVideo(video)
	}

	return b.Build()
}

// Package summarizer builds and writes the report of a video assembly run.
package summarizer

import (
	"time"

	"github.com/google/uuid"
)

// Summary contains everything reported about one run.
type Summary struct {
	// Metadata
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Duration    time.Duration `json:"duration_ns"`

	Job     JobInfo     `json:"job"`
	Encoder EncoderInfo `json:"encoder"`
	Inputs  InputInfo   `json:"inputs"`
	Videos  []VideoInfo `json:"videos"`
	Totals  Totals      `json:"totals"`
}

// JobInfo contains the job configuration.
type JobInfo struct {
	Mode      string  `json:"mode"`
	Policy    string  `json:"policy"`
	OutDir    string  `json:"out_dir"`
	FPS       float64 `json:"fps"`
	NumVideos int     `json:"num_videos,omitempty"`
	Ratio     string  `json:"ratio,omitempty"`
	Workers   int     `json:"workers"`
	Quality   int     `json:"quality"`
}

// EncoderInfo describes the selected encoder.
type EncoderInfo struct {
	Codec          string `json:"codec"`
	Backend        string `json:"backend"`
	RequestedCodec string `json:"requested_codec"`
	FallbackUsed   bool   `json:"fallback_used"`
}

// InputInfo contains what was found in the source directories.
type InputInfo struct {
	ScannedDirs   int `json:"scanned_dirs"`
	SkippedDirs   int `json:"skipped_dirs"`
	ImageFiles    int `json:"image_files"`
	IgnoredFiles  int `json:"ignored_files"`
	UnparsedFiles int `json:"unparsed_files"`
	Groups        int `json:"groups"`
	TrainImages   int `json:"train_images"`
	TestImages    int `json:"test_images"`
}

// VideoStatus is the outcome of one output.
type VideoStatus string

const (
	StatusWritten VideoStatus = "written"
	StatusSkipped VideoStatus = "skipped"
	StatusFailed  VideoStatus = "failed"
)

// VideoInfo describes one output video.
type VideoInfo struct {
	Name          string      `json:"name"`
	Path          string      `json:"path"`
	Status        VideoStatus `json:"status"`
	Frames        int         `json:"frames"`
	FramesSkipped int         `json:"frames_skipped"`
	FramesResized int         `json:"frames_resized"`
	Width         int         `json:"width"`
	Height        int         `json:"height"`
	FileSize      int64       `json:"file_size"`
	DurationMs    int64       `json:"duration_ms"`
	Codec         string      `json:"codec,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// Totals aggregates the videos.
type Totals struct {
	Written       int `json:"written"`
	Skipped       int `json:"skipped"`
	Failed        int `json:"failed"`
	FramesWritten int `json:"frames_written"`
	FramesSkipped int `json:"frames_skipped"`
}

// NewSummary creates a new Summary with a fresh run id and the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithJob sets job information.
func (b *Builder) WithJob(job JobInfo) *Builder {
	b.summary.Job = job
	return b
}

// WithEncoder sets encoder information.
func (b *Builder) WithEncoder(enc EncoderInfo) *Builder {
	b.summary.Encoder = enc
	return b
}

// WithInputs sets input information.
func (b *Builder) WithInputs(inputs InputInfo) *Builder {
	b.summary.Inputs = inputs
	return b
}

// AddVideo appends an output and updates the totals.
func (b *Builder) AddVideo(video VideoInfo) *Builder {
	b.summary.Videos = append(b.summary.Videos, video)

	t := &b.summary.Totals
	switch video.Status {
	case StatusWritten:
		t.Written++
	case StatusSkipped:
		t.Skipped++
	case StatusFailed:
		t.Failed++
	}
	t.FramesWritten += video.Frames
	t.FramesSkipped += video.FramesSkipped
	return b
}

// WithDuration sets the wall-clock run time.
func (b *Builder) WithDuration(d time.Duration) *Builder {
	b.summary.Duration = d
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

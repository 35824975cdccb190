// Package compose turns the frame catalog or flat image lists into the
// ordered sequences that become output videos.
package compose

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/user/framereel/pkg/pipeline"
)

var (
	// ErrEmptySequence is returned when interleaving produced no frames.
	ErrEmptySequence = errors.New("compose: merged sequence is empty")
	// ErrInvalidPolicy is returned for unusable policy parameters.
	ErrInvalidPolicy = errors.New("compose: invalid policy")
)

// Policy produces the sequences for one job.
type Policy interface {
	// Name identifies the policy in logs and summaries.
	Name() string
	// Compose returns the sequences in output order.
	Compose(ctx context.Context) ([]pipeline.Sequence, error)
}

// GroupMerge emits one sequence per catalog group, frames ordered by index.
type GroupMerge struct {
	Catalog pipeline.Catalog
}

// Name implements Policy.
func (p GroupMerge) Name() string { return "group" }

// Compose implements Policy. Groups come out in lexicographic order; records
// with equal index keep their scan order.
func (p GroupMerge) Compose(ctx context.Context) ([]pipeline.Sequence, error) {
	var sequences []pipeline.Sequence

	for _, group := range p.Catalog.Groups() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records := append([]pipeline.FrameRecord(nil), p.Catalog[group]...)
		if len(records) == 0 {
			continue
		}
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Order < records[j].Order
		})

		paths := make([]string, len(records))
		for i, r := range records {
			paths[i] = r.Path
		}
		sequences = append(sequences, pipeline.Sequence{Name: group, Paths: paths})
	}

	return sequences, nil
}

// Ratio is the interleave ratio: up to A items from the first list, then up
// to B items from the second.
type Ratio struct {
	A int `yaml:"a" json:"a"`
	B int `yaml:"b" json:"b"`
}

// DefaultRatio is seven train frames per test frame.
var DefaultRatio = Ratio{A: 7, B: 1}

// String formats the ratio as "A:B".
func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.A, r.B)
}

// Validate checks that both sides are positive.
func (r Ratio) Validate() error {
	if r.A < 1 || r.B < 1 {
		return fmt.Errorf("%w: ratio %s must be positive on both sides", ErrInvalidPolicy, r)
	}
	return nil
}

// ParseRatio parses "A:B". A bare "A" means "A:1".
func ParseRatio(s string) (Ratio, error) {
	s = strings.TrimSpace(s)
	left, right, found := strings.Cut(s, ":")
	if !found {
		right = "1"
	}

	a, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return Ratio{}, fmt.Errorf("%w: ratio %q", ErrInvalidPolicy, s)
	}
	b, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return Ratio{}, fmt.Errorf("%w: ratio %q", ErrInvalidPolicy, s)
	}

	r := Ratio{A: a, B: b}
	if err := r.Validate(); err != nil {
		return Ratio{}, err
	}
	return r, nil
}

// RatioSplit interleaves two lists and cuts the result into NumVideos
// contiguous chunks.
type RatioSplit struct {
	Train     []string
	Test      []string
	Ratio     Ratio
	NumVideos int
}

// Name implements Policy.
func (p RatioSplit) Name() string { return "split" }

// Compose implements Policy.
func (p RatioSplit) Compose(ctx context.Context) ([]pipeline.Sequence, error) {
	if err := p.Ratio.Validate(); err != nil {
		return nil, err
	}
	if p.NumVideos < 1 {
		return nil, fmt.Errorf("%w: number of videos must be at least 1, got %d", ErrInvalidPolicy, p.NumVideos)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := Interleave(p.Train, p.Test, p.Ratio)
	if len(merged) == 0 {
		return nil, fmt.Errorf("%w: %d train and %d test images", ErrEmptySequence, len(p.Train), len(p.Test))
	}

	return Split(merged, p.NumVideos), nil
}

// Interleave takes up to r.A items from a, then up to r.B items from b, and
// repeats while both lists still have items. Whatever remains of the longer
// list when the shorter one runs out is dropped.
func Interleave(a, b []string, r Ratio) []string {
	merged := make([]string, 0, len(a)+len(b))

	ia, ib := 0, 0
	for ia < len(a) && ib < len(b) {
		end := min(ia+r.A, len(a))
		merged = append(merged, a[ia:end]...)
		ia = end

		end = min(ib+r.B, len(b))
		merged = append(merged, b[ib:end]...)
		ib = end
	}

	return merged
}

// Split cuts merged into chunks of ceil(len/n) items. Only non-empty chunks
// are returned, named video_01, video_02 and so on.
func Split(merged []string, n int) []pipeline.Sequence {
	if n < 1 || len(merged) == 0 {
		return nil
	}

	size := (len(merged) + n - 1) / n
	sequences := make([]pipeline.Sequence, 0, n)
	for i := 0; i < n; i++ {
		start := i * size
		if start >= len(merged) {
			break
		}
		end := min(start+size, len(merged))
		sequences = append(sequences, pipeline.Sequence{
			Name:  SplitName(i + 1),
			Paths: append([]string(nil), merged[start:end]...),
		})
	}
	return sequences
}

// SplitName returns the sequence name for a 1-based split number.
func SplitName(n int) string {
	return fmt.Sprintf("video_%02d", n)
}

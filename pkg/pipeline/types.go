package pipeline

import (
	"sort"

	"github.com/user/framereel/pkg/ports"
)

// =============================================================================
// Common Types
// =============================================================================

// FrameRecord is one parsed input image.
type FrameRecord struct {
	Group string `json:"group"` // Group key, e.g. "pano_camera0"
	Order int    `json:"order"` // Frame index used for temporal ordering
	Path  string `json:"path"`
}

// Catalog maps a group key to its records in scan order.
// It is built once by the catalog stage and treated as read-only afterwards.
type Catalog map[string][]FrameRecord

// Groups returns the group keys in lexicographic order.
func (c Catalog) Groups() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the total number of records across all groups.
func (c Catalog) Len() int {
	n := 0
	for _, records := range c {
		n += len(records)
	}
	return n
}

// Sequence is the ordered list of source image paths backing one output video.
type Sequence struct {
	Name  string   `json:"name"`
	Paths []string `json:"paths"`
}

// =============================================================================
// Catalog Stage Types
// =============================================================================

// CatalogInput lists the directories to scan.
type CatalogInput struct {
	Dirs []string
}

// CatalogStats counts everything the scan dropped on the floor.
type CatalogStats struct {
	ScannedDirs   int // Directories listed successfully
	SkippedDirs   int // Directories that did not exist
	ImageFiles    int // Files with a recognised image extension
	IgnoredFiles  int // Entries skipped for not being image files
	UnparsedFiles int // Image files whose names did not match the pattern
}

// CatalogResult contains the scanned catalog.
type CatalogResult struct {
	Catalog Catalog
	Stats   CatalogStats
}

// =============================================================================
// Assemble Stage Types
// =============================================================================

// AssembleInput describes one output video.
type AssembleInput struct {
	Sequence   Sequence
	OutputPath string
	FPS        float64
	Options    ports.EncoderOptions
	Annotate   bool // Burn the source file name into each frame
}

// AssembleResult reports what was written for one sequence.
type AssembleResult struct {
	OutputPath    string
	Skipped       bool // Sequence was empty, no file produced
	FramesWritten int
	FramesSkipped int // Unreadable frames dropped from the output
	FramesResized int // Frames resampled to the canonical resolution
	Width         int
	Height        int
	FileSize      int64
}

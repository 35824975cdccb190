package ports

import "image"

// DebugSink receives intermediate job state for inspection.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveCatalogJSON saves the scanned frame catalog.
	SaveCatalogJSON(data []byte) error

	// SaveSequencesJSON saves the composed sequences, one path list per output.
	SaveSequencesJSON(data []byte) error

	// SaveFirstFrame saves the canonical first frame of a sequence.
	SaveFirstFrame(sequence string, img image.Image) error
}

// Package catalog implements the frame catalog stage: it scans source
// directories and groups parseable image files by camera.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/user/framereel/pkg/framename"
	"github.com/user/framereel/pkg/pipeline"
	"github.com/user/framereel/pkg/ports"
)

// Stage builds a pipeline.Catalog from a list of directories.
type Stage struct {
	fs     ports.FileSystem
	parser *framename.Parser
	sink   ports.DebugSink
	logger ports.Logger
}

// NewStage creates a new catalog stage.
func NewStage(fs ports.FileSystem, parser *framename.Parser, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		fs:     fs,
		parser: parser,
		sink:   sink,
		logger: logger.WithComponent("catalog"),
	}
}

// Execute scans every directory in order. Missing directories are skipped
// with a warning; any other listing failure is returned.
func (s *Stage) Execute(ctx context.Context, input pipeline.CatalogInput) (pipeline.CatalogResult, error) {
	result := pipeline.CatalogResult{Catalog: pipeline.Catalog{}}

	for _, dir := range input.Dirs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		entries, err := s.fs.ListDir(dir)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				s.logger.Warn("Directory not found, skipping: %s", dir)
				result.Stats.SkippedDirs++
				continue
			}
			return result, fmt.Errorf("list %s: %w", dir, err)
		}

		sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
		result.Stats.ScannedDirs++

		frames, ignored, unparsed := 0, 0, 0
		for _, entry := range entries {
			if entry.IsDir || !framename.IsImageFile(entry.Name) {
				result.Stats.IgnoredFiles++
				ignored++
				continue
			}
			result.Stats.ImageFiles++

			key, ok := s.parser.Parse(entry.Name)
			if !ok {
				s.logger.Debug("Unrecognised file name: %s", entry.Name)
				result.Stats.UnparsedFiles++
				unparsed++
				continue
			}

			result.Catalog[key.Group] = append(result.Catalog[key.Group], pipeline.FrameRecord{
				Group: key.Group,
				Order: key.Order,
				Path:  filepath.Join(dir, entry.Name),
			})
			frames++
		}

		s.logger.Info("Scanned %s: %d frames, %d ignored, %d unrecognised", dir, frames, ignored, unparsed)
	}

	s.logger.Info("Found %d groups: %s", len(result.Catalog), strings.Join(result.Catalog.Groups(), ", "))

	if s.sink.Enabled() {
		if data, err := json.MarshalIndent(result.Catalog, "", "  "); err == nil {
			if err := s.sink.SaveCatalogJSON(data); err != nil {
				s.logger.Debug("Failed to save debug output: %v", err)
			}
		}
	}

	return result, nil
}

// ListImages returns the image files of one directory, sorted by lower-cased
// name with ties broken by the exact name. A missing directory returns an
// error wrapping ports.ErrNotFound.
func (s *Stage) ListImages(dir string) ([]string, error) {
	entries, err := s.fs.ListDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir && framename.IsImageFile(entry.Name) {
			names = append(names, entry.Name)
		}
	}

	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}

	s.logger.Debug("Listed %d images in %s", len(paths), dir)
	return paths, nil
}

package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var sb strings.Builder

	sb.WriteString("# framereel Summary\n\n")
	fmt.Fprintf(&sb, "- Run ID: `%s`\n", s.RunID)
	fmt.Fprintf(&sb, "- Generated: %s\n", s.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "- Elapsed: %s\n\n", s.Duration.Round(time.Millisecond))

	sb.WriteString("## Job\n\n")
	sb.WriteString("| Setting | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Mode | %s |\n", s.Job.Mode)
	fmt.Fprintf(&sb, "| Output directory | %s |\n", s.Job.OutDir)
	fmt.Fprintf(&sb, "| Frame rate | %g fps |\n", s.Job.FPS)
	if s.Job.Ratio != "" {
		fmt.Fprintf(&sb, "| Ratio | %s |\n", s.Job.Ratio)
		fmt.Fprintf(&sb, "| Videos requested | %d |\n", s.Job.NumVideos)
	}
	fmt.Fprintf(&sb, "| Workers | %d |\n", s.Job.Workers)
	codec := s.Encoder.Codec
	if s.Encoder.Backend != "" {
		codec = fmt.Sprintf("%s (%s)", s.Encoder.Codec, s.Encoder.Backend)
	}
	if s.Encoder.FallbackUsed {
		codec += fmt.Sprintf(", fallback from %s", s.Encoder.RequestedCodec)
	}
	fmt.Fprintf(&sb, "| Codec | %s |\n\n", codec)

	sb.WriteString("## Inputs\n\n")
	in := s.Inputs
	if s.Job.Mode == "split" {
		fmt.Fprintf(&sb, "- Train images: %d\n", in.TrainImages)
		fmt.Fprintf(&sb, "- Test images: %d\n\n", in.TestImages)
	} else {
		fmt.Fprintf(&sb, "- Directories scanned: %d (%d missing)\n", in.ScannedDirs, in.SkippedDirs)
		fmt.Fprintf(&sb, "- Image files: %d\n", in.ImageFiles)
		fmt.Fprintf(&sb, "- Ignored files: %d\n", in.IgnoredFiles)
		fmt.Fprintf(&sb, "- Unrecognised names: %d\n", in.UnparsedFiles)
		fmt.Fprintf(&sb, "- Groups: %d\n\n", in.Groups)
	}

	sb.WriteString("## Videos\n\n")
	if len(s.Videos) == 0 {
		sb.WriteString("No videos were produced.\n\n")
	} else {
		sb.WriteString("| Name | Status | Frames | Skipped | Resized | Size | Duration | File size |\n")
		sb.WriteString("|---|---|---:|---:|---:|---|---:|---:|\n")
		for _, v := range s.Videos {
			size := "-"
			if v.Width > 0 {
				size = fmt.Sprintf("%dx%d", v.Width, v.Height)
			}
			fmt.Fprintf(&sb, "| %s | %s | %d | %d | %d | %s | %d ms | %s |\n",
				v.Name, v.Status, v.Frames, v.FramesSkipped, v.FramesResized, size, v.DurationMs, formatBytes(v.FileSize))
		}
		sb.WriteString("\n")

		for _, v := range s.Videos {
			if v.Error != "" {
				fmt.Fprintf(&sb, "- **%s**: %s\n", v.Name, v.Error)
			}
		}
	}

	t := s.Totals
	sb.WriteString("\n## Totals\n\n")
	fmt.Fprintf(&sb, "- Written: %d\n", t.Written)
	fmt.Fprintf(&sb, "- Skipped: %d\n", t.Skipped)
	fmt.Fprintf(&sb, "- Failed: %d\n", t.Failed)
	fmt.Fprintf(&sb, "- Frames written: %d\n", t.FramesWritten)
	fmt.Fprintf(&sb, "- Frames skipped: %d\n", t.FramesSkipped)

	return sb.String()
}

// formatBytes formats a byte count using binary units.
func formatBytes(n int64) string {
	const unit = 1024
	switch {
	case n >= unit*unit*unit:
		return fmt.Sprintf("%.2f GB", float64(n)/(unit*unit*unit))
	case n >= unit*unit:
		return fmt.Sprintf("%.2f MB", float64(n)/(unit*unit))
	case n >= unit:
		return fmt.Sprintf("%.2f KB", float64(n)/unit)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

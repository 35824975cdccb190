package config

import (
	"fmt"

	"github.com/user/framereel/pkg/orchestrator"
)

// QualityPreset represents a video quality preset name.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
)

// ParseQualityPreset parses a preset name.
func ParseQualityPreset(s string) (QualityPreset, error) {
	switch p := QualityPreset(s); p {
	case QualityLow, QualityMedium, QualityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown quality preset %q", orchestrator.ErrConfig, s)
	}
}

// Quality returns the encoder quality (0-63, lower is better) for the preset.
func (p QualityPreset) Quality() int {
	switch p {
	case QualityLow:
		return 35
	case QualityHigh:
		return 15
	default: // medium
		return 25
	}
}

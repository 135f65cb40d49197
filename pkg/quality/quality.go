// Package quality decides whether a raw face detection is worth keeping.
// Evaluate is pure: the same detection, image dimensions, and config
// always yield the same decision.
package quality

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/crop"
	"github.com/kunalchhabraiitb2024/face-dataset-generator/pkg/detection"
)

// Reason identifies the first acceptance rule a detection failed.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonLowConfidence  Reason = "low_confidence"
	ReasonTooSmall       Reason = "too_small"
	ReasonAreaOutOfRange Reason = "area_out_of_range"
	ReasonBadAspectRatio Reason = "aspect_ratio_out_of_range"
)

// Decision is the outcome of evaluating one detection.
type Decision struct {
	Accepted bool
	Reason   Reason // ReasonNone when accepted
}

// Config holds the acceptance criteria for one run. Immutable after
// Validate; supplied once at startup.
type Config struct {
	// MinFaceSize is the minimum box edge in pixels.
	MinFaceSize int `json:"min_face_size" validate:"gte=1"`

	// Confidence is the minimum detector score.
	Confidence float64 `json:"confidence" validate:"gte=0"`

	// MinAreaFrac/MaxAreaFrac bound the face area relative to the
	// image area. Removes tiny background faces and full-frame closeups.
	MinAreaFrac float64 `json:"min_area_frac" validate:"gte=0,lte=1"`
	MaxAreaFrac float64 `json:"max_area_frac" validate:"gte=0,lte=1,gtefield=MinAreaFrac"`

	// MinAspect/MaxAspect bound width/height. Faces are roughly square;
	// extreme ratios are detector noise.
	MinAspect float64 `json:"min_aspect" validate:"gt=0"`
	MaxAspect float64 `json:"max_aspect" validate:"gt=0,gtefield=MinAspect"`
}

// DefaultConfig returns the production acceptance criteria.
func DefaultConfig() Config {
	return Config{
		MinFaceSize: 40,
		Confidence:  2.0,
		MinAreaFrac: 0.02,
		MaxAreaFrac: 0.40,
		MinAspect:   0.5,
		MaxAspect:   2.0,
	}
}

var validate = validator.New()

// Validate rejects impossible criteria. A run never starts with an
// invalid config.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid filter config: %w", err)
	}
	return nil
}

// Evaluate applies the acceptance rules in order; the first failing rule
// determines the rejection reason.
func Evaluate(det detection.Detection, dims crop.Dims, cfg Config) Decision {
	if det.Score < cfg.Confidence {
		return Decision{Reason: ReasonLowConfidence}
	}

	if det.Box.Width < cfg.MinFaceSize || det.Box.Height < cfg.MinFaceSize {
		return Decision{Reason: ReasonTooSmall}
	}

	imgArea := dims.Area()
	if imgArea <= 0 {
		return Decision{Reason: ReasonAreaOutOfRange}
	}
	areaFrac := float64(det.Box.Area()) / float64(imgArea)
	if areaFrac < cfg.MinAreaFrac || areaFrac > cfg.MaxAreaFrac {
		return Decision{Reason: ReasonAreaOutOfRange}
	}

	aspect := det.Box.AspectRatio()
	if aspect < cfg.MinAspect || aspect > cfg.MaxAspect {
		return Decision{Reason: ReasonBadAspectRatio}
	}

	return Decision{Accepted: true}
}

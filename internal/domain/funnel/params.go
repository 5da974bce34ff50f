package funnel

import (
	"fmt"
	"math"
)

// Default statistical parameters.
const (
	// DefaultSmoothingAlpha is add-one (Laplace) smoothing.
	DefaultSmoothingAlpha = 1.0

	// DefaultConfidenceZ is the two-sided z-score for a 95% interval.
	DefaultConfidenceZ = 1.96
)

// Params holds the statistical knobs used by the calculator.
type Params struct {
	// SmoothingAlpha is the additive smoothing constant. Zero disables smoothing.
	SmoothingAlpha float64 `json:"smoothing_alpha"`

	// ConfidenceZ is the z-score for the two-sided Wilson interval.
	ConfidenceZ float64 `json:"confidence_z"`
}

// ParamsConfig allows overriding the defaults when creating a Params value.
// A nil SmoothingAlpha or a zero ConfidenceZ keeps the default.
type ParamsConfig struct {
	SmoothingAlpha *float64
	ConfidenceZ    float64
}

// NewDefaultParams returns α = 1 and z = 1.96.
func NewDefaultParams() Params {
	return Params{
		SmoothingAlpha: DefaultSmoothingAlpha,
		ConfidenceZ:    DefaultConfidenceZ,
	}
}

// NewParams creates Params from the defaults with the configured overrides
// applied, and validates the result.
func NewParams(config ParamsConfig) (Params, error) {
	params := NewDefaultParams()

	if config.SmoothingAlpha != nil {
		params.SmoothingAlpha = *config.SmoothingAlpha
	}
	if config.ConfidenceZ != 0 {
		params.ConfidenceZ = config.ConfidenceZ
	}

	if err := params.Validate(); err != nil {
		return Params{}, err
	}
	return params, nil
}

// Validate checks that α is a finite non-negative number and z a finite
// positive one.
func (p Params) Validate() error {
	if math.IsNaN(p.SmoothingAlpha) || math.IsInf(p.SmoothingAlpha, 0) || p.SmoothingAlpha < 0 {
		return fmt.Errorf("%w: smoothing alpha must be a finite non-negative number, got %v",
			ErrInvalidInput, p.SmoothingAlpha)
	}
	if math.IsNaN(p.ConfidenceZ) || math.IsInf(p.ConfidenceZ, 0) || p.ConfidenceZ <= 0 {
		return fmt.Errorf("%w: confidence z must be a finite positive number, got %v",
			ErrInvalidInput, p.ConfidenceZ)
	}
	return nil
}

package funnel

import "errors"

// ErrInvalidInput is returned for inputs no metric can be computed from:
// negative counts, invalid parameters, unknown stages or a nil batch.
var ErrInvalidInput = errors.New("invalid funnel input")

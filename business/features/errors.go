package features

import "errors"

var (
	ErrMissingColumns = errors.New("missing required columns")
	ErrOutOfRange     = errors.New("numerical value outside configured range")
	ErrInvalidScores  = errors.New("importance scores must be between 0 and 1")
)

package scoring

import "errors"

var (
	ErrInvalidRequest       = errors.New("missing required parameters")
	ErrInvalidModelType     = errors.New("invalid model type")
	ErrReloadFailed         = errors.New("model reload failed")
	ErrScoringFailed        = errors.New("lead scoring failed")
	ErrThresholdOutOfPolicy = errors.New("threshold outside acceptable range")
	ErrVerticalNotLoaded    = errors.New("no model loaded for vertical")
)

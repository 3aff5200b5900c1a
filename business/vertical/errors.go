package vertical

import "errors"

var (
	ErrUnsupportedVertical = errors.New("unsupported insurance vertical")
	ErrInvalidOverride     = errors.New("invalid configuration keys")
	ErrIncompleteConfig    = errors.New("incomplete configuration")
	ErrInvalidThreshold    = errors.New("invalid scoring threshold")
	ErrPathNotFound        = errors.New("model path does not exist")
	ErrConfigUpdateFailed  = errors.New("failed to update configuration")
	ErrPersistence         = errors.New("failed to persist configuration")
)

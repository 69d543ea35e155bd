package config

import "errors"

var (
	ErrInvalidNodeTimeout        = errors.New("invalid node timeout: must be non-negative")
	ErrInvalidCancelPollInterval = errors.New("invalid cancel poll interval: must be positive")
	ErrInvalidMaxIterations      = errors.New("invalid max iterations: must be in [1,100]")
)

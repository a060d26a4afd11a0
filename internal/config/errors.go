package config

import "errors"

// Sentinel kinds; Load and Validate wrap the underlying cause with them.
var (
	// ErrInvalidConfig wraps validator failures, e.g. epsilon outside [0,1].
	ErrInvalidConfig = errors.New("invalid arena config")
	// ErrLoadConfig wraps file, YAML and env decoding failures.
	ErrLoadConfig = errors.New("load arena config")
)

package service

import "errors"

// Service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrNoSource      = errors.New("no item source configured")
	ErrLoadItems     = errors.New("load items")
	ErrInvalidRounds = errors.New("rounds must be at least 1")
)

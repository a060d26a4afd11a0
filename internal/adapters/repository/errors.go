package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrOpenSource      = errors.New("open item source failed")
	ErrReadSource      = errors.New("read item source failed")
	ErrMissingColumn   = errors.New("required column missing")
	ErrInvalidInterval = errors.New("invalid interval descriptor")
)

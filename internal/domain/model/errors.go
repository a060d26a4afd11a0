package model

import "errors"

// Sentinel kinds for item validation errors.
var (
	ErrEmptyID          = errors.New("item id is empty")
	ErrNonFinite        = errors.New("item has a non-finite value")
	ErrNegativeVotes    = errors.New("item votes are negative")
	ErrInvertedInterval = errors.New("item interval upper bound is below lower bound")
)

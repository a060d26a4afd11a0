package selection

import (
	"errors"
	"fmt"
)

// Sentinel kinds for selection errors.
var (
	ErrInsufficientItems = errors.New("insufficient items")
	ErrDuplicateItem     = errors.New("duplicate item id")
)

// InsufficientItemsError reports a working set too small to form a pair.
// It matches ErrInsufficientItems with errors.Is.
type InsufficientItemsError struct {
	Got int
}

func (e *InsufficientItemsError) Error() string {
	return fmt.Sprintf("%s: need at least %d items to select a match, got %d", ErrInsufficientItems, minItems, e.Got)
}

// Is reports whether target is ErrInsufficientItems.
func (e *InsufficientItemsError) Is(target error) bool {
	return target == ErrInsufficientItems
}

// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
	"strings"
)

// Item is one evaluated entity on the leaderboard, e.g. a model.
// Items are values; holders of an Item cannot change the caller's copy.
type Item struct {
	ID    string  // stable unique identifier
	Score float64 // point estimate
	Upper float64 // absolute upper bound of the confidence interval
	Lower float64 // absolute lower bound of the confidence interval
	Votes int     // prior comparisons involving this item
}

// NewItem builds an Item from a score and the two interval offsets.
// Upper is score+highOffset and Lower is score+lowOffset; offsets are taken
// literally, so a positive lowOffset is kept as-is.
func NewItem(id string, score, highOffset, lowOffset float64, votes int) (Item, error) {
	it := Item{
		ID:    strings.TrimSpace(id),
		Score: score,
		Upper: score + highOffset,
		Lower: score + lowOffset,
		Votes: votes,
	}
	if err := it.Validate(); err != nil {
		return Item{}, err
	}
	return it, nil
}

// Validate checks the item invariants.
func (it Item) Validate() error {
	switch {
	case it.ID == "":
		return ErrEmptyID
	case !finite(it.Score), !finite(it.Upper), !finite(it.Lower):
		return fmt.Errorf("%w: %q", ErrNonFinite, it.ID)
	case it.Votes < 0:
		return fmt.Errorf("%w: %q has %d", ErrNegativeVotes, it.ID, it.Votes)
	case it.Upper < it.Lower:
		return fmt.Errorf("%w: %q upper %.2f < lower %.2f", ErrInvertedInterval, it.ID, it.Upper, it.Lower)
	}
	return nil
}

// Width returns the confidence interval width (Upper - Lower).
func (it Item) Width() float64 {
	return it.Upper - it.Lower
}

func (it Item) String() string {
	return fmt.Sprintf("%s (Votes: %d, CI Width: %.1f)", it.ID, it.Votes, it.Width())
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

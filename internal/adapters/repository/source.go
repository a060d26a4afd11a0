// Package repository loads validated items from external tabular sources.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/cuju/internal/domain/model"
)

// Source produces the working set of items. Every returned item satisfies
// model.Item invariants and ids are unique.
type Source interface {
	Load(ctx context.Context) ([]model.Item, error)
}

// MemorySource serves a fixed set of items.
type MemorySource struct {
	items []model.Item
}

// NewMemorySource creates a source over items. Invalid or duplicate items
// are dropped so the Source contract holds.
func NewMemorySource(items ...model.Item) *MemorySource {
	seen := make(map[string]struct{}, len(items))
	kept := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Validate() != nil {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		kept = append(kept, it)
	}
	return &MemorySource{items: kept}
}

// Load returns a copy of the items.
func (m *MemorySource) Load(ctx context.Context) ([]model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load cancelled: %w", err)
	}
	out := make([]model.Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

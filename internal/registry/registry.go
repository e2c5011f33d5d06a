// Package registry provides the global, deduplicated category list on top
// of the record store, with lazy default-seeding.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

// Store is the slice of the record store the registry needs.
type Store interface {
	ListCategoryNames(ctx context.Context) ([]string, error)
	CreateCategory(ctx context.Context, scope core.Scope, name string) error
	DeleteCategory(ctx context.Context, scope core.Scope, name string) error
}

type Registry struct {
	store Store
}

func New(store Store) *Registry {
	return &Registry{store: store}
}

// List returns the distinct category names in insertion order. An empty
// table is seeded with the default set under the global scope first. A
// concurrent double-seed only produces duplicate rows, which the distinct
// projection filters out.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	names, err := r.store.ListCategoryNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if len(names) > 0 {
		return names, nil
	}

	slog.InfoContext(ctx, "Seeding default categories", "count", len(core.DefaultCategories))
	for _, name := range core.DefaultCategories {
		if err := r.store.CreateCategory(ctx, core.GlobalScope, name); err != nil {
			return nil, fmt.Errorf("seed category %q: %w", name, err)
		}
	}

	seeded := make([]string, len(core.DefaultCategories))
	copy(seeded, core.DefaultCategories)
	return seeded, nil
}

// Add inserts a category under the scope. The name is checked against the
// deduplicated list, not raw rows; a duplicate fails with ErrAlreadyExists
// and leaves the table untouched.
func (r *Registry) Add(ctx context.Context, scope core.Scope, name string) error {
	names, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, existing := range names {
		if existing == name {
			return fmt.Errorf("category %q: %w", name, core.ErrAlreadyExists)
		}
	}

	if err := r.store.CreateCategory(ctx, scope, name); err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	return nil
}

// Remove deletes all rows matching the name exactly within the scope.
// Removing an absent name is not an error.
func (r *Registry) Remove(ctx context.Context, scope core.Scope, name string) error {
	if err := r.store.DeleteCategory(ctx, scope, name); err != nil {
		return fmt.Errorf("remove category: %w", err)
	}
	return nil
}

// Package repository defines the storage contracts shared by every backend.
// Handlers depend only on these interfaces, so the database and in-memory
// backends are interchangeable.
package repository

import (
	"context"
	"todo-api/models"
)

// TodoRepository defines data access for todos
type TodoRepository interface {
	// Create stores a new todo with completed=false and links the given labels.
	// Returns a NotFound error carrying the label id if any label is missing.
	Create(ctx context.Context, payload models.CreateTodo) (models.Todo, error)
	Find(ctx context.Context, id int64) (models.Todo, error)
	// All returns every todo ordered by ascending id.
	All(ctx context.Context) ([]models.Todo, error)
	Update(ctx context.Context, id int64, payload models.UpdateTodo) (models.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// LabelRepository defines data access for labels
type LabelRepository interface {
	// Create fails with a Duplicate error carrying the existing id when the
	// name is already taken.
	Create(ctx context.Context, name string) (models.Label, error)
	All(ctx context.Context) ([]models.Label, error)
	Delete(ctx context.Context, id int64) error
}

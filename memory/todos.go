package memory

import (
	"context"
	"maps"
	"slices"
	"todo-api/models"
	"todo-api/repository"
)

type TodoRepository struct {
	store *Store
}

func (r *TodoRepository) Create(ctx context.Context, payload models.CreateTodo) (models.Todo, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	labelIDs := make(map[int64]struct{}, len(payload.Labels))
	for _, id := range payload.LabelIDs() {
		if _, ok := s.labels[id]; !ok {
			return models.Todo{}, repository.NotFound(id)
		}
		labelIDs[id] = struct{}{}
	}

	s.lastTodoID++
	rec := &todoRecord{
		id:       s.lastTodoID,
		text:     payload.Text,
		labelIDs: labelIDs,
	}
	s.todos[rec.id] = rec

	return s.materialize(rec), nil
}

func (r *TodoRepository) Find(ctx context.Context, id int64) (models.Todo, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.todos[id]
	if !ok {
		return models.Todo{}, repository.NotFound(id)
	}
	return s.materialize(rec), nil
}

func (r *TodoRepository) All(ctx context.Context) ([]models.Todo, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	todos := make([]models.Todo, 0, len(s.todos))
	for _, id := range slices.Sorted(maps.Keys(s.todos)) {
		todos = append(todos, s.materialize(s.todos[id]))
	}
	return todos, nil
}

func (r *TodoRepository) Update(ctx context.Context, id int64, payload models.UpdateTodo) (models.Todo, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.todos[id]
	if !ok {
		return models.Todo{}, repository.NotFound(id)
	}
	if payload.Text != nil {
		rec.text = *payload.Text
	}
	if payload.Completed != nil {
		rec.completed = *payload.Completed
	}
	return s.materialize(rec), nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return repository.NotFound(id)
	}
	delete(s.todos, id)
	return nil
}

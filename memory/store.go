// Package memory provides an in-process implementation of the repository
// contracts. It behaves like the database backend and is used to exercise
// handlers without external state.
package memory

import (
	"maps"
	"slices"
	"sync"
	"todo-api/models"
	"todo-api/repository"
)

var (
	_ repository.TodoRepository  = (*TodoRepository)(nil)
	_ repository.LabelRepository = (*LabelRepository)(nil)
)

type todoRecord struct {
	id        int64
	text      string
	completed bool
	labelIDs  map[int64]struct{}
}

// Store owns todos, labels and their association behind a single RWMutex.
// Readers share the lock; every mutation holds the write lock for the whole
// operation, including label validation on todo create.
type Store struct {
	mu          sync.RWMutex
	todos       map[int64]*todoRecord
	labels      map[int64]models.Label
	lastTodoID  int64
	lastLabelID int64
}

// Option configures a Store at construction
type Option func(*Store)

// WithLabels preloads labels with fixed ids. The label id counter moves past
// the highest seeded id.
func WithLabels(labels ...models.Label) Option {
	return func(s *Store) {
		for _, l := range labels {
			s.labels[l.ID] = l
			s.lastLabelID = max(s.lastLabelID, l.ID)
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		todos:  make(map[int64]*todoRecord),
		labels: make(map[int64]models.Label),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Todos returns the todo repository view of the store
func (s *Store) Todos() *TodoRepository {
	return &TodoRepository{store: s}
}

// Labels returns the label repository view of the store
func (s *Store) Labels() *LabelRepository {
	return &LabelRepository{store: s}
}

// materialize resolves a record into a Todo value. Label ids that no longer
// resolve are skipped. Caller must hold at least the read lock.
func (s *Store) materialize(rec *todoRecord) models.Todo {
	labels := make([]models.Label, 0, len(rec.labelIDs))
	for _, id := range slices.Sorted(maps.Keys(rec.labelIDs)) {
		if label, ok := s.labels[id]; ok {
			labels = append(labels, label)
		}
	}
	return models.Todo{
		ID:        rec.id,
		Text:      rec.text,
		Completed: rec.completed,
		Labels:    labels,
	}
}

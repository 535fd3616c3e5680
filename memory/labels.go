package memory

import (
	"context"
	"maps"
	"slices"
	"todo-api/models"
	"todo-api/repository"
)

type LabelRepository struct {
	store *Store
}

func (r *LabelRepository) Create(ctx context.Context, name string) (models.Label, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, label := range s.labels {
		if label.Name == name {
			return models.Label{}, repository.Duplicate(label.ID)
		}
	}

	s.lastLabelID++
	label := models.Label{ID: s.lastLabelID, Name: name}
	s.labels[label.ID] = label
	return label, nil
}

func (r *LabelRepository) All(ctx context.Context) ([]models.Label, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	labels := make([]models.Label, 0, len(s.labels))
	for _, id := range slices.Sorted(maps.Keys(s.labels)) {
		labels = append(labels, s.labels[id])
	}
	return labels, nil
}

// Delete removes the label and detaches it from every todo. Todos themselves
// are kept.
func (r *LabelRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.labels[id]; !ok {
		return repository.NotFound(id)
	}
	delete(s.labels, id)
	for _, rec := range s.todos {
		delete(rec.labelIDs, id)
	}
	return nil
}

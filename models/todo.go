package models

import "slices"

type Todo struct {
	ID        int64   `json:"id"`
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	Labels    []Label `json:"labels"`
}

// CreateTodo is the payload for POST /todos. Labels is treated as a set of
// label ids; every id must reference an existing label.
type CreateTodo struct {
	Text   string  `json:"text" validate:"required,notblank,max=100"`
	Labels []int64 `json:"labels"`
}

// UpdateTodo is a partial update: nil fields keep their stored value.
type UpdateTodo struct {
	ID        int64   `json:"id,omitempty"`
	Text      *string `json:"text,omitempty" validate:"omitempty,notblank,max=100"`
	Completed *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the update carries no field to change.
func (u UpdateTodo) IsEmpty() bool {
	return u.Text == nil && u.Completed == nil
}

// LabelIDs returns the requested label ids deduplicated and sorted ascending.
func (c CreateTodo) LabelIDs() []int64 {
	seen := make(map[int64]struct{}, len(c.Labels))
	ids := make([]int64, 0, len(c.Labels))
	for _, id := range c.Labels {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"todo-api/models"
	"todo-api/repository"
	"todo-api/repository/repositorytest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) (repository.TodoRepository, repository.LabelRepository) {
		store := NewStore()
		return store.Todos(), store.Labels()
	})
}

func TestStore_WithLabels(t *testing.T) {
	ctx := context.Background()
	seeded := models.Label{ID: 999, Name: "test label"}
	store := NewStore(WithLabels(seeded))

	todo, err := store.Todos().Create(ctx, models.CreateTodo{Text: "seeded", Labels: []int64{999}})
	require.NoError(t, err)
	assert.Equal(t, []models.Label{seeded}, todo.Labels)

	next, err := store.Labels().Create(ctx, "next")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), next.ID)

	_, err = store.Labels().Create(ctx, "test label")
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	label, err := store.Labels().Create(ctx, "l")
	require.NoError(t, err)
	created, err := store.Todos().Create(ctx, models.CreateTodo{Text: "original", Labels: []int64{label.ID}})
	require.NoError(t, err)

	created.Text = "mutated"
	created.Labels[0].Name = "mutated"

	found, err := store.Todos().Find(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", found.Text)
	assert.Equal(t, "l", found.Labels[0].Name)
}

// Label deletion racing todo creation must never leave a todo referencing a
// label that no longer exists.
func TestStore_ConcurrentLabelDeleteAndTodoCreate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	const n = 50

	labels := make([]models.Label, n)
	for i := range n {
		l, err := store.Labels().Create(ctx, fmt.Sprintf("label %d", i))
		require.NoError(t, err)
		labels[i] = l
	}

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Labels().Delete(ctx, labels[i].ID)
		}()
		go func() {
			defer wg.Done()
			_, err := store.Todos().Create(ctx, models.CreateTodo{Text: "racer", Labels: []int64{labels[i].ID}})
			if err != nil {
				assert.ErrorIs(t, err, repository.ErrNotFound)
			}
		}()
	}
	wg.Wait()

	todos, err := store.Todos().All(ctx)
	require.NoError(t, err)
	for _, todo := range todos {
		assert.Empty(t, todo.Labels)
	}

	remaining, err := store.Labels().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

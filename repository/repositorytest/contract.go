// Package repositorytest holds the behavioural suite every repository
// backend must pass.
package repositorytest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"todo-api/models"
	"todo-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns fresh, empty repositories sharing one backing store.
type Factory func(t *testing.T) (repository.TodoRepository, repository.LabelRepository)

// Run executes the contract suite against the backend produced by newRepos.
func Run(t *testing.T, newRepos Factory) {
	tests := []struct {
		name string
		run  func(t *testing.T, todos repository.TodoRepository, labels repository.LabelRepository)
	}{
		{"label crud scenario", testLabelCRUD},
		{"label duplicate name", testLabelDuplicate},
		{"label delete missing", testLabelDeleteMissing},
		{"todo crud scenario", testTodoCRUD},
		{"todo create then find", testTodoCreateFind},
		{"todo create with missing label", testTodoCreateMissingLabel},
		{"todo missing id", testTodoMissingID},
		{"todo partial update", testTodoPartialUpdate},
		{"todo all ordered", testTodoAllOrdered},
		{"todo ids not reused", testTodoIDsNotReused},
		{"label ids not reused", testLabelIDsNotReused},
		{"label delete detaches todos", testLabelDeleteDetaches},
		{"concurrent todo create", testConcurrentTodoCreate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos, labels := newRepos(t)
			tt.run(t, todos, labels)
		})
	}
}

func testLabelCRUD(t *testing.T, _ repository.TodoRepository, labels repository.LabelRepository) {
	ctx := context.Background()

	label, err := labels.Create(ctx, "test label")
	require.NoError(t, err)
	assert.Equal(t, "test label", label.Name)
	assert.NotZero(t, label.ID)

	all, err := labels.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Label{label}, all)

	require.NoError(t, labels.Delete(ctx, label.ID))

	all, err = labels.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testLabelDuplicate(t *testing.T, _ repository.TodoRepository, labels repository.LabelRepository) {
	ctx := context.Background()

	first, err := labels.Create(ctx, "work")
	require.NoError(t, err)

	_, err = labels.Create(ctx, "work")
	require.Error(t, err)
	var dup *repository.DuplicateError
	require.True(t, errors.As(err, &dup), "expected DuplicateError, got %v", err)
	assert.Equal(t, first.ID, dup.ID)

	all, err := labels.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testLabelDeleteMissing(t *testing.T, _ repository.TodoRepository, labels repository.LabelRepository) {
	ctx := context.Background()

	for range 2 {
		err := labels.Delete(ctx, 404)
		assertNotFound(t, err, 404)
	}
}

func testTodoCRUD(t *testing.T, todos repository.TodoRepository, labels repository.LabelRepository) {
	ctx := context.Background()

	label, err := labels.Create(ctx, "test label")
	require.NoError(t, err)

	created, err := todos.Create(ctx, models.CreateTodo{Text: "buy milk", Labels: []int64{label.ID}})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", created.Text)
	assert.False(t, created.Completed)
	assert.Equal(t, []models.Label{label}, created.Labels)

	all, err := todos.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Todo{created}, all)

	completed := true
	updated, err := todos.Update(ctx, created.ID, models.UpdateTodo{Completed: &completed})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "buy milk", updated.Text)
	assert.True(t, updated.Completed)
	assert.Equal(t, created.Labels, updated.Labels)

	require.NoError(t, todos.Delete(ctx, created.ID))

	_, err = todos.Find(ctx, created.ID)
	assertNotFound(t, err, created.ID)
}

func testTodoCreateFind(t *testing.T, todos repository.TodoRepository, labels repository.LabelRepository) {
	ctx := context.Background()

	a, err := labels.Create(ctx, "a")
	require.NoError(t, err)
	b, err := labels.Create(ctx, "b")
	require.NoError(t, err)

	inputs := []models.CreateTodo{
		{Text: "no labels"},
		{Text: "one label", Labels: []int64{a.ID}},
		{Text: "two labels reversed with repeat", Labels: []int64{b.ID, a.ID, b.ID}},
	}

	var last models.Todo
	for _, in := range inputs {
		created, err := todos.Create(ctx, in)
		require.NoError(t, err)
		assert.NotNil(t, created.Labels, "labels must never be nil")

		found, err := todos.Find(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, found)
		last = found
	}

	assert.Equal(t, []models.Label{a, b}, last.Labels)
}

func testTodoCreateMissingLabel(t *testing.T, todos repository.TodoRepository, labels repository.LabelRepository) {
	ctx := context.Background()

	label, err := labels.Create(ctx, "exists")
	require.NoError(t, err)

	_, err = todos.Create(ctx, models.CreateTodo{Text: "bad", Labels: []int64{label.ID, 999}})
	assertNotFound(t, err, 999)

	all, err := todos.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "failed create must not leave a partial todo")
}

func testTodoMissingID(t *testing.T, todos repository.TodoRepository, _ repository.LabelRepository) {
	ctx := context.Background()
	text := "nothing"

	_, err := todos.Find(ctx, 10)
	assertNotFound(t, err, 10)

	_, err = todos.Update(ctx, 10, models.UpdateTodo{Text: &text})
	assertNotFound(t, err, 10)

	_, err = todos.Update(ctx, 10, models.UpdateTodo{})
	assertNotFound(t, err, 10)

	for range 2 {
		assertNotFound(t, todos.Delete(ctx, 10), 10)
	}
}

func testTodoPartialUpdate(t *testing.T, todos repository.TodoRepository, _ repository.LabelRepository) {
	ctx := context.Background()

	created, err := todos.Create(ctx, models.CreateTodo{Text: "before"})
	require.NoError(t, err)

	text := "after"
	updated, err := todos.Update(ctx, created.ID, models.UpdateTodo{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Text)
	assert.False(t, updated.Completed)

	completed := true
	updated, err = todos.Update(ctx, created.ID, models.UpdateTodo{Completed: &completed})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Text)
	assert.True(t, updated.Completed)

	unchanged, err := todos.Update(ctx, created.ID, models.UpdateTodo{})
	require.NoError(t, err)
	assert.Equal(t, updated, unchanged)
}

func testTodoAllOrdered(t *testing.T, todos repository.TodoRepository, _ repository.LabelRepository) {
	ctx := context.Background()

	all, err := todos.All(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	for i := range 5 {
		_, err := todos.Create(ctx, models.CreateTodo{Text: fmt.Sprintf("todo %d", i)})
		require.NoError(t, err)
	}

	all, err = todos.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
}

func testTodoIDsNotReused(t *testing.T, todos repository.TodoRepository, _ repository.LabelRepository) {
	ctx := context.Background()

	first, err := todos.Create(ctx, models.CreateTodo{Text: "first"})
	require.NoError(t, err)
	second, err := todos.Create(ctx, models.CreateTodo{Text: "second"})
	require.NoError(t, err)

	require.NoError(t, todos.Delete(ctx, first.ID))

	third, err := todos.Create(ctx, models.CreateTodo{Text: "third"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
	assert.Greater(t, third.ID, second.ID)

	found, err := todos.Find(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", found.Text)
}

func testLabelIDsNotReused(t *testing.T, _ repository.TodoRepository, labels repository.LabelRepository) {
	ctx := context.Background()

	first, err := labels.Create(ctx, "first")
	require.NoError(t, err)
	second, err := labels.Create(ctx, "second")
	require.NoError(t, err)
	require.NoError(t, labels.Delete(ctx, first.ID))

	third, err := labels.Create(ctx, "third")
	require.NoError(t, err)
	assert.Greater(t, third.ID, second.ID)

	// a deleted name can be taken again
	again, err := labels.Create(ctx, "first")
	require.NoError(t, err)
	assert.Greater(t, again.ID, third.ID)
}

func testLabelDeleteDetaches(t *testing.T, todos repository.TodoRepository, labels repository.LabelRepository) {
	ctx := context.Background()

	keep, err := labels.Create(ctx, "keep")
	require.NoError(t, err)
	drop, err := labels.Create(ctx, "drop")
	require.NoError(t, err)

	one, err := todos.Create(ctx, models.CreateTodo{Text: "one", Labels: []int64{keep.ID, drop.ID}})
	require.NoError(t, err)
	two, err := todos.Create(ctx, models.CreateTodo{Text: "two", Labels: []int64{drop.ID}})
	require.NoError(t, err)

	require.NoError(t, labels.Delete(ctx, drop.ID))

	found, err := todos.Find(ctx, one.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Label{keep}, found.Labels)

	found, err = todos.Find(ctx, two.ID)
	require.NoError(t, err)
	assert.NotNil(t, found.Labels)
	assert.Empty(t, found.Labels)

	all, err := todos.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = todos.Create(ctx, models.CreateTodo{Text: "three", Labels: []int64{drop.ID}})
	assertNotFound(t, err, drop.ID)
}

func testConcurrentTodoCreate(t *testing.T, todos repository.TodoRepository, labels repository.LabelRepository) {
	ctx := context.Background()
	const n = 20

	label, err := labels.Create(ctx, "shared")
	require.NoError(t, err)

	var wg sync.WaitGroup
	ids := make(chan int64, n)
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			todo, err := todos.Create(ctx, models.CreateTodo{
				Text:   fmt.Sprintf("concurrent %d", i),
				Labels: []int64{label.ID},
			})
			if err != nil {
				errs <- err
				return
			}
			ids <- todo.ID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[int64]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)

	all, err := todos.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)
}

func assertNotFound(t *testing.T, err error, id int64) {
	t.Helper()
	require.Error(t, err)
	var nf *repository.NotFoundError
	require.True(t, errors.As(err, &nf), "expected NotFoundError, got %v", err)
	assert.Equal(t, id, nf.ID)
}

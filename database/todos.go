package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"todo-api/models"
	"todo-api/repository"
)

var _ repository.TodoRepository = (*TodoRepository)(nil)

type TodoRepository struct {
	db *DB
}

func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// Todos are joined with their labels; a todo without labels yields one row
// with NULL label columns.
const selectTodos = `
	SELECT todos.id, todos.text, todos.completed, labels.id, labels.name
	FROM todos
	LEFT JOIN todo_labels ON todo_labels.todo_id = todos.id
	LEFT JOIN labels ON labels.id = todo_labels.label_id
`

// Create inserts the todo and its label links in one transaction. A missing
// label rolls everything back.
func (r *TodoRepository) Create(ctx context.Context, payload models.CreateTodo) (models.Todo, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Todo{}, repository.Unexpected(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	todo := models.Todo{
		Text:   payload.Text,
		Labels: make([]models.Label, 0, len(payload.Labels)),
	}

	err = tx.QueryRowContext(ctx, r.db.rebind(`
		INSERT INTO todos (text, completed) VALUES (?, ?) RETURNING id
	`), todo.Text, todo.Completed).Scan(&todo.ID)
	if err != nil {
		return models.Todo{}, repository.Unexpected(fmt.Errorf("insert todo: %w", err))
	}

	for _, labelID := range payload.LabelIDs() {
		var label models.Label
		err := tx.QueryRowContext(ctx, r.db.rebind(`
			SELECT id, name FROM labels WHERE id = ?
		`), labelID).Scan(&label.ID, &label.Name)
		if errors.Is(err, sql.ErrNoRows) {
			return models.Todo{}, repository.NotFound(labelID)
		}
		if err != nil {
			return models.Todo{}, repository.Unexpected(fmt.Errorf("select label %d: %w", labelID, err))
		}

		if _, err := tx.ExecContext(ctx, r.db.rebind(`
			INSERT INTO todo_labels (todo_id, label_id) VALUES (?, ?)
		`), todo.ID, labelID); err != nil {
			return models.Todo{}, repository.Unexpected(fmt.Errorf("insert todo label: %w", err))
		}
		todo.Labels = append(todo.Labels, label)
	}

	if err := tx.Commit(); err != nil {
		return models.Todo{}, repository.Unexpected(fmt.Errorf("commit transaction: %w", err))
	}

	return todo, nil
}

func (r *TodoRepository) Find(ctx context.Context, id int64) (models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(selectTodos+`
		WHERE todos.id = ?
		ORDER BY todos.id ASC, labels.id ASC
	`), id)
	if err != nil {
		return models.Todo{}, repository.Unexpected(fmt.Errorf("select todo: %w", err))
	}
	defer rows.Close()

	todos, err := scanTodos(rows)
	if err != nil {
		return models.Todo{}, repository.Unexpected(err)
	}
	if len(todos) == 0 {
		return models.Todo{}, repository.NotFound(id)
	}

	return todos[0], nil
}

func (r *TodoRepository) All(ctx context.Context) ([]models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, selectTodos+`
		ORDER BY todos.id ASC, labels.id ASC
	`)
	if err != nil {
		return nil, repository.Unexpected(fmt.Errorf("select todos: %w", err))
	}
	defer rows.Close()

	todos, err := scanTodos(rows)
	if err != nil {
		return nil, repository.Unexpected(err)
	}

	return todos, nil
}

// Update writes only the columns present in payload.
func (r *TodoRepository) Update(ctx context.Context, id int64, payload models.UpdateTodo) (models.Todo, error) {
	if payload.IsEmpty() {
		return r.Find(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	if payload.Text != nil {
		sets = append(sets, "text = ?")
		args = append(args, *payload.Text)
	}
	if payload.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *payload.Completed)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, r.db.rebind(
		"UPDATE todos SET "+strings.Join(sets, ", ")+" WHERE id = ?",
	), args...)
	if err != nil {
		return models.Todo{}, repository.Unexpected(fmt.Errorf("update todo: %w", err))
	}
	if err := requireAffected(res, id); err != nil {
		return models.Todo{}, err
	}

	return r.Find(ctx, id)
}

// Delete removes the todo; its label links go with it through the cascade.
func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`DELETE FROM todos WHERE id = ?`), id)
	if err != nil {
		return repository.Unexpected(fmt.Errorf("delete todo: %w", err))
	}
	return requireAffected(res, id)
}

// scanTodos folds joined rows into todos. Rows must be ordered by todo id.
func scanTodos(rows *sql.Rows) ([]models.Todo, error) {
	// Initialize with empty slice to avoid returning nil
	todos := make([]models.Todo, 0)
	for rows.Next() {
		var (
			todo      models.Todo
			labelID   sql.NullInt64
			labelName sql.NullString
		)
		if err := rows.Scan(&todo.ID, &todo.Text, &todo.Completed, &labelID, &labelName); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}

		if n := len(todos); n == 0 || todos[n-1].ID != todo.ID {
			todo.Labels = make([]models.Label, 0)
			todos = append(todos, todo)
		}
		if labelID.Valid {
			last := &todos[len(todos)-1]
			last.Labels = append(last.Labels, models.Label{ID: labelID.Int64, Name: labelName.String})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return todos, nil
}

func requireAffected(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return repository.Unexpected(fmt.Errorf("rows affected: %w", err))
	}
	if affected == 0 {
		return repository.NotFound(id)
	}
	return nil
}

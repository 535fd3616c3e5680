package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"todo-api/app"
	"todo-api/config/setup"
	"todo-api/database"
	"todo-api/memory"
	"todo-api/models"
	"todo-api/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name string
	new  func(t *testing.T) (repository.TodoRepository, repository.LabelRepository)
}

// backends lists every repository implementation; handler behaviour must be
// identical across them.
var backends = []backend{
	{
		name: "memory",
		new: func(t *testing.T) (repository.TodoRepository, repository.LabelRepository) {
			store := memory.NewStore()
			return store.Todos(), store.Labels()
		},
	},
	{
		name: "sqlite",
		new: func(t *testing.T) (repository.TodoRepository, repository.LabelRepository) {
			db, err := database.New(database.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
			require.NoError(t, err, "Failed to initialize test database")
			require.NoError(t, db.Migrate(), "Failed to run migrations")
			t.Cleanup(func() { db.Close() })
			return database.NewTodoRepository(db), database.NewLabelRepository(db)
		},
	},
}

func forEachBackend(t *testing.T, fn func(t *testing.T, fiberApp *fiber.App)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			todos, labels := b.new(t)
			fiberApp, _ := setupTestApp(todos, labels)
			fn(t, fiberApp)
		})
	}
}

// setupTestApp creates a Fiber app with all routes over the given repositories
func setupTestApp(todos repository.TodoRepository, labels repository.LabelRepository) (*fiber.App, *app.App) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	application := app.New(todos, labels, logger)

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: setup.CustomErrorHandler(logger),
	})
	setup.RegisterRoutes(fiberApp, application)

	return fiberApp, application
}

func doRequest(t *testing.T, fiberApp *fiber.App, method, path, body string) *http.Response {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &v), "cannot decode body: %s", body)
	return v
}

// ==================== MOCKS ====================

type MockTodoRepository struct {
	mock.Mock
}

var _ repository.TodoRepository = (*MockTodoRepository)(nil)

func (m *MockTodoRepository) Create(ctx context.Context, payload models.CreateTodo) (models.Todo, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(models.Todo), args.Error(1)
}

func (m *MockTodoRepository) Find(ctx context.Context, id int64) (models.Todo, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Todo), args.Error(1)
}

func (m *MockTodoRepository) All(ctx context.Context) ([]models.Todo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Todo), args.Error(1)
}

func (m *MockTodoRepository) Update(ctx context.Context, id int64, payload models.UpdateTodo) (models.Todo, error) {
	args := m.Called(ctx, id, payload)
	return args.Get(0).(models.Todo), args.Error(1)
}

func (m *MockTodoRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLabelRepository struct {
	mock.Mock
}

var _ repository.LabelRepository = (*MockLabelRepository)(nil)

func (m *MockLabelRepository) Create(ctx context.Context, name string) (models.Label, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(models.Label), args.Error(1)
}

func (m *MockLabelRepository) All(ctx context.Context) ([]models.Label, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Label), args.Error(1)
}

func (m *MockLabelRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

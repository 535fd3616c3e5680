package setup

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"todo-api/config"
	"todo-api/database"
	"todo-api/memory"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitApp_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.Repository = config.RepositoryMemory

	application, closeFn, err := InitApp(cfg, discardLogger())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &memory.TodoRepository{}, application.Todos)
	assert.IsType(t, &memory.LabelRepository{}, application.Labels)
	assert.NotNil(t, application.Validator)
}

func TestInitApp_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "app.db")

	application, closeFn, err := InitApp(cfg, discardLogger())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &database.TodoRepository{}, application.Todos)
	assert.IsType(t, &database.LabelRepository{}, application.Labels)
}

func TestInitApp_BadDriver(t *testing.T) {
	cfg := config.Default()
	cfg.DBDriver = "mysql"

	_, _, err := InitApp(cfg, discardLogger())
	assert.Error(t, err)
}

func TestRouter_EndToEnd(t *testing.T) {
	cfg := config.Default()
	cfg.Repository = config.RepositoryMemory
	logger := discardLogger()

	application, closeFn, err := InitApp(cfg, logger)
	require.NoError(t, err)
	defer closeFn()

	fiberApp := NewFiberApp(cfg, logger)
	ApplyMiddleware(fiberApp, cfg, logger)
	RegisterRoutes(fiberApp, application)

	resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodOptions, "/todos", nil)
	req.Header.Set("Origin", "http://localhost:3001")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	resp, err = fiberApp.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3001", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimit = 2
	logger := discardLogger()

	fiberApp := NewFiberApp(cfg, logger)
	ApplyMiddleware(fiberApp, cfg, logger)
	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	statuses := make([]int, 0, 3)
	for range 3 {
		resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

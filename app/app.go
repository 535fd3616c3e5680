package app

import (
	"log/slog"
	"todo-api/repository"
	"todo-api/validator"
)

// App holds all application dependencies
// One instance is shared by every handler; the repositories are safe for
// concurrent use.
type App struct {
	Todos     repository.TodoRepository
	Labels    repository.LabelRepository
	Validator *validator.Validator
	Logger    *slog.Logger
}

// New creates a new App instance with all dependencies
func New(todos repository.TodoRepository, labels repository.LabelRepository, logger *slog.Logger) *App {
	return &App{
		Todos:     todos,
		Labels:    labels,
		Validator: validator.New(),
		Logger:    logger,
	}
}

package setup

import (
	"log/slog"
	"todo-api/app"
	"todo-api/config"
	"todo-api/database"
	"todo-api/memory"
)

// InitDatabase opens the configured database and runs migrations
func InitDatabase(cfg *config.Config, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "driver", cfg.DBDriver)
	return db, nil
}

// InitApp builds the repositories selected by cfg.Repository and wires them
// into an App. The returned close function releases the backend.
func InitApp(cfg *config.Config, logger *slog.Logger) (*app.App, func(), error) {
	if cfg.Repository == config.RepositoryMemory {
		store := memory.NewStore()
		logger.Info("using in-memory repositories")
		return app.New(store.Todos(), store.Labels(), logger), func() {}, nil
	}

	db, err := InitDatabase(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	application := app.New(database.NewTodoRepository(db), database.NewLabelRepository(db), logger)
	logger.Info("application initialized with dependency injection")

	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
			return
		}
		logger.Info("database closed")
	}

	return application, closeDB, nil
}

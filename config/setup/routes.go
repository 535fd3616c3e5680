package setup

import (
	"todo-api/app"
	"todo-api/handlers"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {
	fiberApp.Get("/", handlers.Root)
	fiberApp.Get("/health", handlers.Health)

	fiberApp.Post("/todos", handlers.CreateTodo(application))
	fiberApp.Get("/todos", handlers.GetTodos(application))
	fiberApp.Get("/todos/:id", handlers.FindTodo(application))
	fiberApp.Patch("/todos/:id", handlers.UpdateTodo(application))
	fiberApp.Delete("/todos/:id", handlers.DeleteTodo(application))

	fiberApp.Post("/labels", handlers.CreateLabel(application))
	fiberApp.Get("/labels", handlers.GetLabels(application))
	fiberApp.Delete("/labels/:id", handlers.DeleteLabel(application))
}

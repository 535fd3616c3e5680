package handlers

import (
	"fmt"
	"todo-api/app"
	"todo-api/models"

	"github.com/gofiber/fiber/v2"
)

// CreateTodo creates a todo linked to existing labels
func CreateTodo(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateTodo
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		todo, err := a.Todos.Create(c.UserContext(), req)
		if err != nil {
			// A missing label is a problem with the request, not the route
			if id, ok := notFoundID(err); ok {
				return badRequest(c, fmt.Sprintf("Label %d not found", id))
			}
			return serverErrorWithDetails(c, "Failed to create todo", err)
		}

		return created(c, todo)
	}
}

// GetTodos lists all todos ordered by id
func GetTodos(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		todos, err := a.Todos.All(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch todos", err)
		}

		return success(c, todos)
	}
}

func FindTodo(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return badRequest(c, "todo ID must be an integer")
		}

		todo, err := a.Todos.Find(c.UserContext(), id)
		if err != nil {
			if _, ok := notFoundID(err); ok {
				return notFound(c, "Todo not found")
			}
			return serverErrorWithDetails(c, "Failed to fetch todo", err)
		}

		return success(c, todo)
	}
}

// UpdateTodo applies a partial update. A body id, when given, must match
// the path.
func UpdateTodo(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return badRequest(c, "todo ID must be an integer")
		}

		var req models.UpdateTodo
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if req.ID != 0 && req.ID != id {
			return badRequest(c, "todo ID in body does not match path")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		todo, err := a.Todos.Update(c.UserContext(), id, req)
		if err != nil {
			if _, ok := notFoundID(err); ok {
				return notFound(c, "Todo not found")
			}
			return serverErrorWithDetails(c, "Failed to update todo", err)
		}

		return success(c, todo)
	}
}

func DeleteTodo(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return badRequest(c, "todo ID must be an integer")
		}

		if err := a.Todos.Delete(c.UserContext(), id); err != nil {
			if _, ok := notFoundID(err); ok {
				return notFound(c, "Todo not found")
			}
			return serverErrorWithDetails(c, "Failed to delete todo", err)
		}

		return noContent(c)
	}
}

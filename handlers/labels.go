package handlers

import (
	"errors"
	"todo-api/app"
	"todo-api/models"
	"todo-api/repository"

	"github.com/gofiber/fiber/v2"
)

func CreateLabel(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateLabel
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		label, err := a.Labels.Create(c.UserContext(), req.Name)
		if err != nil {
			var dup *repository.DuplicateError
			if errors.As(err, &dup) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "Label with this name already exists",
					"id":    dup.ID,
				})
			}
			return serverErrorWithDetails(c, "Failed to create label", err)
		}

		return created(c, label)
	}
}

func GetLabels(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		labels, err := a.Labels.All(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch labels", err)
		}

		return success(c, labels)
	}
}

// DeleteLabel removes a label and detaches it from every todo
func DeleteLabel(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return badRequest(c, "label ID must be an integer")
		}

		if err := a.Labels.Delete(c.UserContext(), id); err != nil {
			if _, ok := notFoundID(err); ok {
				return notFound(c, "Label not found")
			}
			return serverErrorWithDetails(c, "Failed to delete label", err)
		}

		return noContent(c)
	}
}

package controllers

import (
	"github.com/gofiber/fiber/v2"

	"tasktracker-backend/apperrors"
	"tasktracker-backend/middlewares"
	"tasktracker-backend/services"
	"tasktracker-backend/utils"
)

// CreateTaskRequest is the POST /tasks body.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateTaskRequest is the PUT /tasks/:id body. Optional wrappers keep the
// absent/null/value distinction so "field omitted" and "field cleared" stay
// different operations.
type UpdateTaskRequest struct {
	Title       utils.Optional[string] `json:"title"`
	Description utils.Optional[string] `json:"description"`
	Completed   utils.Optional[bool]   `json:"completed"`
}

// TaskController exposes the six task operations over HTTP. The tenant id
// always comes from the verified identity, never from path or body.
type TaskController struct {
	service *services.TaskService
}

func NewTaskController(service *services.TaskService) *TaskController {
	return &TaskController{service: service}
}

func (tc *TaskController) Create(c *fiber.Ctx) error {
	identity, ok := middlewares.IdentityFrom(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req CreateTaskRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := tc.service.Create(c.UserContext(), identity.Subject, req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (tc *TaskController) List(c *fiber.Ctx) error {
	identity, ok := middlewares.IdentityFrom(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	tasks, err := tc.service.List(c.UserContext(), identity.Subject)
	if err != nil {
		return err
	}
	return c.JSON(tasks)
}

func (tc *TaskController) Get(c *fiber.Ctx) error {
	identity, ok := middlewares.IdentityFrom(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := tc.service.Get(c.UserContext(), identity.Subject, id)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

func (tc *TaskController) Update(c *fiber.Ctx) error {
	identity, ok := middlewares.IdentityFrom(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	task, err := tc.service.Update(c.UserContext(), identity.Subject, id, services.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return err
	}
	return c.JSON(task)
}

func (tc *TaskController) Delete(c *fiber.Ctx) error {
	identity, ok := middlewares.IdentityFrom(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := tc.service.Delete(c.UserContext(), identity.Subject, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (tc *TaskController) ToggleComplete(c *fiber.Ctx) error {
	identity, ok := middlewares.IdentityFrom(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := tc.service.ToggleComplete(c.UserContext(), identity.Subject, id)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

// taskID parses the :id path segment. A non-numeric or non-positive id can
// never name an existing task, so it reports the same not-found as a missing
// record.
func taskID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, apperrors.ErrTaskNotFound
	}
	return uint(id), nil
}

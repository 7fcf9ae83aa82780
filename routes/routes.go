package routes

import (
	"github.com/gofiber/fiber/v2"

	"tasktracker-backend/controllers"
	"tasktracker-backend/middlewares"
)

// Deps carries the constructed handlers and verifier into route wiring.
type Deps struct {
	Tasks    *controllers.TaskController
	Verifier middlewares.TokenVerifier
}

// Register wires all HTTP routes.
func Register(app *fiber.App, deps Deps) {
	app.Get("/", controllers.Health)

	// Every task route requires a verified bearer token.
	tasks := app.Group("/tasks", middlewares.Authenticated(deps.Verifier))
	tasks.Post("", deps.Tasks.Create)
	tasks.Get("", deps.Tasks.List)
	tasks.Get("/:id", deps.Tasks.Get)
	tasks.Put("/:id", deps.Tasks.Update)
	tasks.Delete("/:id", deps.Tasks.Delete)
	tasks.Patch("/:id/complete", deps.Tasks.ToggleComplete)
}

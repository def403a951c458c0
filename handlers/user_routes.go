// handlers/user_routes.go
package handlers

import (
	"fitness-duel-system/middleware"
	"fitness-duel-system/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func SetupUserRoutes(app *fiber.App, userService *services.UserService, requireUser fiber.Handler, log *zap.Logger) {
	users := app.Group("/api/users")

	users.Post("/register", func(c *fiber.Ctx) error {
		var req services.RegisterInput
		if err := c.BodyParser(&req); err != nil {
			return badBody(c, err)
		}
		user, err := userService.Register(c.UserContext(), req)
		if err != nil {
			return writeError(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	})

	users.Post("/login", func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return badBody(c, err)
		}
		res, err := userService.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(res)
	})

	users.Get("/all", requireUser, func(c *fiber.Ctx) error {
		list, err := userService.ListUsers(c.UserContext())
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(list)
	})

	users.Get("/friends", requireUser, func(c *fiber.Ctx) error {
		list, err := userService.Friends(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(list)
	})

	users.Post("/friends/:id", requireUser, func(c *fiber.Ctx) error {
		if err := userService.AddFriend(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(fiber.Map{"message": "friend added"})
	})
}

// handlers/progress_routes.go
package handlers

import (
	"fitness-duel-system/middleware"
	"fitness-duel-system/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func SetupProgressRoutes(app *fiber.App, progressService *services.ProgressService, requireUser fiber.Handler, log *zap.Logger) {
	app.Get("/api/progress", requireUser, func(c *fiber.Ctx) error {
		user, err := progressService.GetProgress(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(user)
	})

	app.Post("/api/progress/update", requireUser, func(c *fiber.Ctx) error {
		var req services.ProgressUpdate
		if err := c.BodyParser(&req); err != nil {
			return badBody(c, err)
		}
		user, err := progressService.UpdateProgress(c.UserContext(), middleware.UserID(c), req)
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(user)
	})

	app.Get("/api/history", requireUser, func(c *fiber.Ctx) error {
		rows, err := progressService.History(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(rows)
	})

	app.Post("/api/history/add", requireUser, func(c *fiber.Ctx) error {
		var req services.HistoryEntry
		if err := c.BodyParser(&req); err != nil {
			return badBody(c, err)
		}
		row, err := progressService.AddHistory(c.UserContext(), middleware.UserID(c), req)
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(row)
	})
}

// SetupInternalRoutes exposes maintenance endpoints for other services.
func SetupInternalRoutes(app *fiber.App, progressService *services.ProgressService, requireService fiber.Handler, log *zap.Logger) {
	internal := app.Group("/internal", requireService)

	internal.Post("/sync/:userId", func(c *fiber.Ctx) error {
		report, err := progressService.SyncUserByID(c.UserContext(), c.Params("userId"))
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(fiber.Map{
			"userId":  report.UserID,
			"checked": report.Checked,
			"changed": report.Changed,
			"skipped": len(report.Skipped),
		})
	})
}

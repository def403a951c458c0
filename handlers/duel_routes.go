// handlers/duel_routes.go
package handlers

import (
	"fitness-duel-system/duel"
	"fitness-duel-system/middleware"
	"fitness-duel-system/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type startDuelRequest struct {
	OpponentID         string   `json:"opponentId"`
	ExerciseCategory   *string  `json:"exerciseCategory"`
	ExerciseCategories []string `json:"exerciseCategories"`
}

// categories accepts either the single-category or the list form.
func (r startDuelRequest) categories() ([]string, error) {
	switch {
	case r.ExerciseCategory != nil:
		return []string{*r.ExerciseCategory}, nil
	case r.ExerciseCategories != nil:
		return r.ExerciseCategories, nil
	}
	return nil, &duel.MissingFieldError{Fields: []string{"exerciseCategory", "exerciseCategories"}}
}

type updateScoresRequest struct {
	ChallengerScore *int                           `json:"challengerScore"`
	OpponentScore   *int                           `json:"opponentScore"`
	Scores          map[string]duel.CategoryScores `json:"scores"`
}

func SetupDuelRoutes(app *fiber.App, duelService *services.DuelService, requireUser fiber.Handler, log *zap.Logger) {
	duels := app.Group("/api/duels")

	duels.Get("/exercises", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"availableExercises": duelService.AllowedExercises()})
	})

	duels.Post("/start", requireUser, func(c *fiber.Ctx) error {
		var req startDuelRequest
		if err := c.BodyParser(&req); err != nil {
			return badBody(c, err)
		}
		if req.OpponentID == "" {
			return writeError(c, log, &duel.MissingFieldError{Fields: []string{"opponentId"}})
		}
		cats, err := req.categories()
		if err != nil {
			return writeError(c, log, err)
		}

		view, err := duelService.Create(c.UserContext(), services.CreateDuelInput{
			ChallengerID: middleware.UserID(c),
			OpponentID:   req.OpponentID,
			Categories:   cats,
		})
		if err != nil {
			return writeError(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "duel created",
			"duel":    view,
		})
	})

	duels.Get("/history", requireUser, func(c *fiber.Ctx) error {
		views, err := duelService.History(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(fiber.Map{"duels": views, "total": len(views)})
	})

	duels.Get("/active", requireUser, func(c *fiber.Ctx) error {
		views, err := duelService.Active(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(fiber.Map{"activeDuels": views, "count": len(views)})
	})

	duels.Get("/:id", requireUser, func(c *fiber.Ctx) error {
		view, err := duelService.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(view)
	})

	duels.Post("/:id/update-scores", requireUser, func(c *fiber.Ctx) error {
		var req updateScoresRequest
		if err := c.BodyParser(&req); err != nil {
			return badBody(c, err)
		}
		view, err := duelService.UpdateScores(c.UserContext(), c.Params("id"), duel.ScoreUpdate{
			Challenger: req.ChallengerScore,
			Opponent:   req.OpponentScore,
			Categories: req.Scores,
		})
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(fiber.Map{"message": "scores updated", "duel": view})
	})

	duels.Post("/:id/finish", requireUser, func(c *fiber.Ctx) error {
		res, err := duelService.Finish(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(fiber.Map{
			"message":              "duel finished",
			"winner":               res.Winner,
			"winnerUsername":       res.WinnerUsername,
			"totalChallengerScore": res.ChallengerTotal,
			"totalOpponentScore":   res.OpponentTotal,
			"duel":                 res.Duel,
		})
	})
}

package repository

import (
	"fitness-duel-system/duel"
	"fitness-duel-system/models"

	"go.uber.org/zap"
)

func toDuelRow(d *duel.Duel) (models.Duel, error) {
	row := models.Duel{
		ID:           d.ID,
		ChallengerID: d.ChallengerID,
		OpponentID:   d.OpponentID,
		Status:       string(d.Status),
		Winner:       d.Winner,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	switch cfg := d.Config.(type) {
	case *duel.Single:
		row.ExerciseCategory = string(cfg.Category)
		row.ChallengerScore = cfg.Scores.Challenger
		row.OpponentScore = cfg.Scores.Opponent
	case *duel.Multi:
		text, err := duel.EncodeExercises(cfg.Scores())
		if err != nil {
			return models.Duel{}, err
		}
		row.Exercises = text
	}
	return row, nil
}

// fromDuelRow never fails: unreadable score text is logged and dropped so the
// rest of the duel stays readable.
func fromDuelRow(row models.Duel, log *zap.Logger) *duel.Duel {
	d := &duel.Duel{
		ID:           row.ID,
		ChallengerID: row.ChallengerID,
		OpponentID:   row.OpponentID,
		Status:       duel.Status(row.Status),
		Winner:       row.Winner,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}

	scores, err := duel.DecodeExercises(row.Exercises)
	if err != nil {
		log.Warn("stored exercise scores are malformed",
			zap.String("duel_id", row.ID),
			zap.String("exercises", row.Exercises),
			zap.Error(err),
		)
	}

	switch {
	case len(scores) > 0:
		d.Config = duel.RestoreMulti(scores)
	case row.ExerciseCategory != "":
		d.Config = &duel.Single{
			Category: duel.NormalizeCategory(row.ExerciseCategory),
			Scores:   duel.ScorePair{Challenger: max(row.ChallengerScore, 0), Opponent: max(row.OpponentScore, 0)},
		}
	default:
		log.Warn("duel has no readable exercise configuration", zap.String("duel_id", row.ID))
		d.Config = duel.RestoreMulti(nil)
	}
	return d
}

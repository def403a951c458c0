package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fitness-duel-system/duel"
	"fitness-duel-system/models"

	"github.com/gosimple/slug"
)

const (
	TypeSingleCategory     = "SINGLE_CATEGORY"
	TypeMultipleCategories = "MULTIPLE_CATEGORIES"
)

// DuelView is the response shape of a duel. Single-category duels fill
// ExerciseCategory and the two scores; multi-category duels fill the
// category list, the per-category breakdown and the totals.
type DuelView struct {
	ID             string             `json:"id"`
	Type           string             `json:"type"`
	Title          string             `json:"title"`
	Slug           string             `json:"slug"`
	Challenger     models.UserSummary `json:"challenger"`
	Opponent       models.UserSummary `json:"opponent"`
	Status         string             `json:"status"`
	Winner         string             `json:"winner,omitempty"`
	WinnerUsername string             `json:"winnerUsername,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`

	ExerciseCategory string `json:"exerciseCategory,omitempty"`
	ChallengerScore  *int   `json:"challengerScore,omitempty"`
	OpponentScore    *int   `json:"opponentScore,omitempty"`

	ExerciseCategories []string                  `json:"exerciseCategories,omitempty"`
	Exercises          map[string]duel.ScorePair `json:"exercises,omitempty"`
	TotalScores        *duel.ScorePair           `json:"totalScores,omitempty"`
}

// ProjectDuel builds the view of d. users maps participant IDs to their
// records; a missing participant is shown by ID only.
func ProjectDuel(d *duel.Duel, users map[string]*models.User) DuelView {
	challenger := summaryOf(d.ChallengerID, users)
	opponent := summaryOf(d.OpponentID, users)

	v := DuelView{
		ID:         d.ID,
		Challenger: challenger,
		Opponent:   opponent,
		Status:     string(d.Status),
		Winner:     d.Winner,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	switch d.Winner {
	case "":
	case duel.Draw:
		v.WinnerUsername = duel.Draw
	case d.ChallengerID:
		v.WinnerUsername = challenger.Username
	case d.OpponentID:
		v.WinnerUsername = opponent.Username
	}

	var names []string
	switch cfg := d.Config.(type) {
	case *duel.Single:
		c, o := cfg.Scores.Challenger, cfg.Scores.Opponent
		v.Type = TypeSingleCategory
		v.ExerciseCategory = string(cfg.Category)
		v.ChallengerScore = &c
		v.OpponentScore = &o
		names = []string{string(cfg.Category)}
	case *duel.Multi:
		v.Type = TypeMultipleCategories
		v.Exercises = make(map[string]duel.ScorePair, len(cfg.Categories()))
		for _, c := range cfg.Categories() {
			p, _ := cfg.Score(c)
			v.Exercises[string(c)] = p
			names = append(names, string(c))
		}
		v.ExerciseCategories = names
		v.TotalScores = &duel.ScorePair{Challenger: cfg.TotalChallenger(), Opponent: cfg.TotalOpponent()}
	}

	v.Title = fmt.Sprintf("%s vs %s: %s", displayName(challenger), displayName(opponent), strings.Join(names, ", "))
	v.Slug = slug.Make(v.Title + " " + shortID(d.ID))
	return v
}

func summaryOf(id string, users map[string]*models.User) models.UserSummary {
	if u, ok := users[id]; ok {
		return u.Summary()
	}
	return models.UserSummary{ID: id}
}

func displayName(s models.UserSummary) string {
	if s.Username != "" {
		return s.Username
	}
	return s.ID
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// projectAll resolves every participant in one lookup and projects ds in order.
func projectAll(ctx context.Context, users UserDirectory, ds []*duel.Duel) ([]DuelView, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, d := range ds {
		for _, id := range []string{d.ChallengerID, d.OpponentID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	byID, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load duel participants: %w", err)
	}

	views := make([]DuelView, len(ds))
	for i, d := range ds {
		views[i] = ProjectDuel(d, byID)
	}
	return views, nil
}

package services

import (
	"testing"

	"fitness-duel-system/duel"
	"fitness-duel-system/models"
)

func TestProjectDuel(t *testing.T) {
	d, err := duel.New(duel.NewParams{
		ID: "a1b2c3d4-0000-0000-0000-000000000000", ChallengerID: "u1", OpponentID: "u2",
		Categories: []string{"squats", "pushups"}, Now: t0,
	})
	if err != nil {
		t.Fatal(err)
	}
	_ = d.UpdateScores(duel.ScoreUpdate{Categories: map[string]duel.CategoryScores{
		"pushups": {Challenger: intPtr(3), Opponent: intPtr(1)},
	}}, t0)
	if _, err := d.Finish(t0); err != nil {
		t.Fatal(err)
	}

	users := map[string]*models.User{"u1": {ID: "u1", Username: "Zoë", Email: "z@example.com"}}
	v := ProjectDuel(d, users)

	if v.Type != TypeMultipleCategories || v.ChallengerScore != nil {
		t.Errorf("unexpected variant fields %+v", v)
	}
	if len(v.ExerciseCategories) != 2 || v.ExerciseCategories[0] != "pushups" {
		t.Errorf("Expected sorted categories, got %v", v.ExerciseCategories)
	}
	if *v.TotalScores != (duel.ScorePair{Challenger: 3, Opponent: 1}) {
		t.Errorf("totals = %+v", v.TotalScores)
	}
	if v.Winner != "u1" || v.WinnerUsername != "Zoë" {
		t.Errorf("winner = %s/%s", v.Winner, v.WinnerUsername)
	}
	if v.Opponent.ID != "u2" || v.Opponent.Username != "" {
		t.Errorf("Expected unknown opponent shown by ID, got %+v", v.Opponent)
	}
	if v.Title != "Zoë vs u2: pushups, squats" {
		t.Errorf("title = %q", v.Title)
	}
	if v.Slug != "zoe-vs-u2-pushups-squats-a1b2c3d4" {
		t.Errorf("slug = %q", v.Slug)
	}
}

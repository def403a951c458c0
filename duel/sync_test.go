package duel

import (
	"testing"
	"time"
)

func TestCountersFor(t *testing.T) {
	c := Counters{PushUps: 1, Squats: 2, PlankSeconds: 3, DailySteps: 4}
	want := map[Category]int{CategoryPushups: 1, CategorySquats: 2, CategoryPlank: 3, CategorySteps: 4}
	for cat, v := range want {
		got, ok := c.For(cat)
		if !ok || got != v {
			t.Errorf("For(%s) = %d, %v; want %d", cat, got, ok, v)
		}
	}
	if _, ok := c.For("burpees"); ok {
		t.Error("Expected unknown category to be unresolved")
	}
}

func TestSyncSetsOnlyOwnSlot(t *testing.T) {
	asChallenger := mustNew(t, "d1", "u", "x", "pushups")
	asOpponent := mustNew(t, "d2", "y", "u", "steps")
	_ = asChallenger.UpdateScores(ScoreUpdate{Challenger: intPtr(1), Opponent: intPtr(7)}, t0)
	_ = asOpponent.UpdateScores(ScoreUpdate{Challenger: intPtr(500), Opponent: intPtr(2)}, t0)

	now := t0.Add(time.Hour)
	counters := Counters{PushUps: 40, DailySteps: 8000}
	changed, skipped := Sync("u", counters, []*Duel{asChallenger, asOpponent}, now)

	if len(changed) != 2 || len(skipped) != 0 {
		t.Fatalf("changed=%d skipped=%d", len(changed), len(skipped))
	}
	if s := asChallenger.Config.(*Single).Scores; s != (ScorePair{40, 7}) {
		t.Errorf("challenger-side duel = %+v, want 40:7", s)
	}
	if s := asOpponent.Config.(*Single).Scores; s != (ScorePair{500, 8000}) {
		t.Errorf("opponent-side duel = %+v, want 500:8000", s)
	}
	if !asChallenger.UpdatedAt.Equal(now) {
		t.Error("Expected UpdatedAt refreshed on synced duel")
	}
}

func TestSyncLeavesMultiAndFinishedUntouched(t *testing.T) {
	multi := mustNew(t, "m", "u", "x", "pushups", "squats")
	finished := mustNew(t, "f", "u", "x", "squats")
	if _, err := finished.Finish(t0); err != nil {
		t.Fatal(err)
	}

	changed, skipped := Sync("u", Counters{PushUps: 99, Squats: 99}, []*Duel{multi, finished}, t0.Add(time.Hour))
	if len(changed) != 0 || len(skipped) != 0 {
		t.Fatalf("Expected no changes, got changed=%d skipped=%d", len(changed), len(skipped))
	}
	if multi.Config.TotalChallenger() != 0 || !multi.UpdatedAt.Equal(t0) {
		t.Error("multi-category duel must not be synced")
	}
	if finished.Config.TotalChallenger() != 0 {
		t.Error("finished duel must not be synced")
	}
}

func TestSyncSkipsUnresolvableAndContinues(t *testing.T) {
	broken := &Duel{ID: "b", ChallengerID: "u", OpponentID: "x", Status: StatusInProgress, Config: &Single{Category: "burpees"}}
	stranger := mustNew(t, "s", "p", "q", "plank")
	ok := mustNew(t, "ok", "u", "x", "plank")

	changed, skipped := Sync("u", Counters{PlankSeconds: 120}, []*Duel{broken, stranger, ok}, t0)
	if len(skipped) != 2 {
		t.Fatalf("Expected 2 skipped duels, got %d", len(skipped))
	}
	if len(changed) != 1 || changed[0].ID != "ok" {
		t.Fatalf("Expected the valid duel to be synced, got %v", changed)
	}
}

func TestSyncUnchangedValueIsNotReported(t *testing.T) {
	d := mustNew(t, "d", "u", "x", "squats")
	changed, _ := Sync("u", Counters{Squats: 0}, []*Duel{d}, t0.Add(time.Hour))
	if len(changed) != 0 {
		t.Errorf("Expected no change when value is identical")
	}
}

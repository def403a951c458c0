package duel

import (
	"fmt"
	"time"
)

// Counters are a user's live progress values as read from the user directory.
type Counters struct {
	PushUps      int
	Squats       int
	PlankSeconds int
	DailySteps   int
}

// For maps a category onto the counter that feeds it.
func (c Counters) For(cat Category) (int, bool) {
	switch cat {
	case CategoryPushups:
		return c.PushUps, true
	case CategorySquats:
		return c.Squats, true
	case CategoryPlank:
		return c.PlankSeconds, true
	case CategorySteps:
		return c.DailySteps, true
	}
	return 0, false
}

// SyncSkip records a duel Sync could not apply.
type SyncSkip struct {
	DuelID string
	Reason error
}

// Sync pushes a user's counters into their in-progress single-category duels,
// setting only the user's own slot. Multi-category duels are reported manually
// and are left untouched. A duel that cannot be resolved is skipped; the rest
// are still processed.
func Sync(userID string, counters Counters, active []*Duel, now time.Time) (changed []*Duel, skipped []SyncSkip) {
	for _, d := range active {
		ok, err := SyncOne(userID, counters, d, now)
		if err != nil {
			skipped = append(skipped, SyncSkip{DuelID: d.ID, Reason: err})
			continue
		}
		if ok {
			changed = append(changed, d)
		}
	}
	return changed, skipped
}

// SyncOne applies Sync to a single duel and reports whether it changed.
func SyncOne(userID string, counters Counters, d *Duel, now time.Time) (bool, error) {
	if !d.InProgress() {
		return false, nil
	}
	single, ok := d.Config.(*Single)
	if !ok {
		return false, nil
	}
	value, ok := counters.For(single.Category)
	if !ok {
		return false, fmt.Errorf("no progress counter for category %q", single.Category)
	}

	challenger, opponent := single.Scores.Challenger, single.Scores.Opponent
	switch userID {
	case d.ChallengerID:
		challenger = value
	case d.OpponentID:
		opponent = value
	default:
		return false, fmt.Errorf("user %s is not a participant", userID)
	}
	if challenger == single.Scores.Challenger && opponent == single.Scores.Opponent {
		return false, nil
	}

	if err := d.UpdateScores(ScoreUpdate{Challenger: &challenger, Opponent: &opponent}, now); err != nil {
		return false, err
	}
	return true, nil
}

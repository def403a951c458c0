// Package duel holds the scoring and lifecycle rules of two-player fitness
// duels. It has no storage or transport dependencies; callers load duels,
// apply these rules and persist the result.
package duel

import (
	"slices"
	"time"
)

// Status of a duel. FINISHED is terminal.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
)

// Draw is recorded as the winner when totals are equal.
const Draw = "Draw"

// Duel is one competition between a challenger and an opponent.
type Duel struct {
	ID           string
	ChallengerID string
	OpponentID   string
	Status       Status
	Winner       string
	Config       Config
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (d *Duel) IsSingle() bool { return IsSingle(d.Config) }

func (d *Duel) IsMulti() bool { return IsMulti(d.Config) }

func (d *Duel) InProgress() bool { return d.Status == StatusInProgress }

// Involves reports whether userID is one of the two participants.
func (d *Duel) Involves(userID string) bool {
	return d.ChallengerID == userID || d.OpponentID == userID
}

// NewParams carries everything New needs. Active should hold the
// challenger's in-progress duels; others are ignored.
type NewParams struct {
	ID           string
	ChallengerID string
	OpponentID   string
	Categories   []string
	Active       []*Duel
	Now          time.Time
}

// New validates a creation request and builds the duel.
func New(p NewParams) (*Duel, error) {
	if p.ChallengerID == p.OpponentID {
		return nil, ErrSelfDuel
	}
	cats, err := normalizeRequested(p.Categories)
	if err != nil {
		return nil, err
	}
	for _, a := range p.Active {
		if coversRequest(a, p.ChallengerID, p.OpponentID, cats) {
			return nil, ErrDuplicateActiveDuel
		}
	}

	var cfg Config
	if len(cats) == 1 {
		cfg = NewSingle(cats[0])
	} else {
		m, err := NewMulti(cats)
		if err != nil {
			return nil, err
		}
		cfg = m
	}

	return &Duel{
		ID:           p.ID,
		ChallengerID: p.ChallengerID,
		OpponentID:   p.OpponentID,
		Status:       StatusInProgress,
		Config:       cfg,
		CreatedAt:    p.Now,
		UpdatedAt:    p.Now,
	}, nil
}

// normalizeRequested lower-cases, validates and de-duplicates the requested
// categories, keeping first-occurrence order.
func normalizeRequested(raw []string) ([]Category, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyCategorySet
	}
	var invalid []string
	seen := make(map[Category]bool, len(raw))
	out := make([]Category, 0, len(raw))
	for _, r := range raw {
		c := NormalizeCategory(r)
		if !c.IsAllowed() {
			invalid = append(invalid, r)
			continue
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	if len(invalid) > 0 {
		return nil, &UnknownExerciseError{Invalid: invalid, Allowed: AllowedCategoryNames()}
	}
	return out, nil
}

// coversRequest: a multi duel covers any subset of its categories, a single
// duel only the identical single-category request.
func coversRequest(a *Duel, challengerID, opponentID string, cats []Category) bool {
	if a == nil || !a.InProgress() || a.ChallengerID != challengerID || a.OpponentID != opponentID {
		return false
	}
	switch cfg := a.Config.(type) {
	case *Multi:
		for _, c := range cats {
			if !cfg.Has(c) {
				return false
			}
		}
		return true
	case *Single:
		return len(cats) == 1 && cats[0] == cfg.Category
	}
	return false
}

// ScoreUpdate is a manual score report. Single-category duels read
// Challenger and Opponent; multi-category duels read Categories.
type ScoreUpdate struct {
	Challenger *int
	Opponent   *int
	Categories map[string]CategoryScores
}

// CategoryScores is one category's entry of a multi-category update. A nil
// side is treated as 0.
type CategoryScores struct {
	Challenger *int `json:"challenger"`
	Opponent   *int `json:"opponent"`
}

func (cs CategoryScores) pair() ScorePair {
	var p ScorePair
	if cs.Challenger != nil {
		p.Challenger = *cs.Challenger
	}
	if cs.Opponent != nil {
		p.Opponent = *cs.Opponent
	}
	return p
}

// UpdateScores applies u. Multi-category updates are all-or-nothing: every
// entry is validated before any is written.
func (d *Duel) UpdateScores(u ScoreUpdate, now time.Time) error {
	if !d.InProgress() {
		return ErrDuelFinished
	}
	switch cfg := d.Config.(type) {
	case *Single:
		var missing []string
		if u.Challenger == nil {
			missing = append(missing, "challengerScore")
		}
		if u.Opponent == nil {
			missing = append(missing, "opponentScore")
		}
		if len(missing) > 0 {
			return &MissingFieldError{Fields: missing}
		}
		if err := cfg.SetScores(*u.Challenger, *u.Opponent); err != nil {
			return err
		}
	case *Multi:
		if u.Categories == nil {
			return &MissingFieldError{Fields: []string{"scores"}}
		}
		if err := repeatedCategory(u.Categories); err != nil {
			return err
		}
		staged := make(map[Category]ScorePair, len(u.Categories))
		for raw, cs := range u.Categories {
			c := NormalizeCategory(raw)
			p := cs.pair()
			if err := cfg.check(c, p); err != nil {
				return err
			}
			staged[c] = p
		}
		for c, p := range staged {
			cfg.scores[c] = p
		}
	default:
		return ErrInvalidDuelType
	}
	d.UpdatedAt = now
	return nil
}

// repeatedCategory reports the smallest category named by more than one key.
func repeatedCategory(entries map[string]CategoryScores) error {
	keys := make(map[Category][]string, len(entries))
	for raw := range entries {
		c := NormalizeCategory(raw)
		keys[c] = append(keys[c], raw)
	}
	var rep *RepeatedCategoryError
	for c, raws := range keys {
		if len(raws) < 2 || (rep != nil && string(c) > rep.Category) {
			continue
		}
		slices.Sort(raws)
		rep = &RepeatedCategoryError{Category: string(c), Keys: raws}
	}
	if rep != nil {
		return rep
	}
	return nil
}

// Result is the outcome of Finish.
type Result struct {
	Winner          string
	ChallengerTotal int
	OpponentTotal   int
}

// Finish closes the duel. Winner is the participant with the strictly greater
// total, or Draw.
func (d *Duel) Finish(now time.Time) (Result, error) {
	if d.Status == StatusFinished {
		return Result{}, ErrAlreadyFinished
	}
	r := Result{
		ChallengerTotal: d.Config.TotalChallenger(),
		OpponentTotal:   d.Config.TotalOpponent(),
	}
	switch {
	case r.ChallengerTotal > r.OpponentTotal:
		r.Winner = d.ChallengerID
	case r.OpponentTotal > r.ChallengerTotal:
		r.Winner = d.OpponentID
	default:
		r.Winner = Draw
	}
	d.Status = StatusFinished
	d.Winner = r.Winner
	d.UpdatedAt = now
	return r, nil
}

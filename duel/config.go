package duel

import "sort"

// Config is the exercise configuration of a duel: either *Single or *Multi.
// The unexported method keeps other packages from adding variants.
type Config interface {
	Categories() []Category
	TotalChallenger() int
	TotalOpponent() int
	isConfig()
}

// Single is a duel over exactly one category with two scalar scores.
type Single struct {
	Category Category
	Scores   ScorePair
}

// NewSingle builds a single-category config starting at 0:0. The category must
// already be normalized and validated.
func NewSingle(c Category) *Single {
	return &Single{Category: c}
}

func (*Single) isConfig() {}

func (s *Single) Categories() []Category { return []Category{s.Category} }

func (s *Single) TotalChallenger() int { return s.Scores.Challenger }

func (s *Single) TotalOpponent() int { return s.Scores.Opponent }

// SetScores overwrites both scores.
func (s *Single) SetScores(challenger, opponent int) error {
	p := ScorePair{Challenger: challenger, Opponent: opponent}
	if !p.valid() {
		return &NegativeScoreError{}
	}
	s.Scores = p
	return nil
}

// Multi is a duel over several categories, each with its own score pair.
type Multi struct {
	scores map[Category]ScorePair
}

// NewMulti builds a multi-category config with every pair at 0:0.
func NewMulti(categories []Category) (*Multi, error) {
	if len(categories) == 0 {
		return nil, ErrEmptyCategorySet
	}
	m := &Multi{scores: make(map[Category]ScorePair, len(categories))}
	for _, c := range categories {
		m.scores[c] = ScorePair{}
	}
	return m, nil
}

// RestoreMulti rebuilds a multi config from persisted scores. Unlike NewMulti
// it accepts an empty map, which is how a duel with unreadable stored scores
// is represented.
func RestoreMulti(scores map[Category]ScorePair) *Multi {
	m := &Multi{scores: make(map[Category]ScorePair, len(scores))}
	for c, p := range scores {
		m.scores[c] = p
	}
	return m
}

func (*Multi) isConfig() {}

// Categories returns the category names in sorted order.
func (m *Multi) Categories() []Category {
	out := make([]Category, 0, len(m.scores))
	for c := range m.scores {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether the duel was created with category c.
func (m *Multi) Has(c Category) bool {
	_, ok := m.scores[c]
	return ok
}

// Score returns the pair stored for c.
func (m *Multi) Score(c Category) (ScorePair, bool) {
	p, ok := m.scores[c]
	return p, ok
}

// Scores returns a copy of the whole category map.
func (m *Multi) Scores() map[Category]ScorePair {
	out := make(map[Category]ScorePair, len(m.scores))
	for c, p := range m.scores {
		out[c] = p
	}
	return out
}

func (m *Multi) TotalChallenger() int {
	total := 0
	for _, p := range m.scores {
		total += p.Challenger
	}
	return total
}

func (m *Multi) TotalOpponent() int {
	total := 0
	for _, p := range m.scores {
		total += p.Opponent
	}
	return total
}

// SetCategoryScores overwrites the pair of one existing category.
func (m *Multi) SetCategoryScores(c Category, challenger, opponent int) error {
	if err := m.check(c, ScorePair{Challenger: challenger, Opponent: opponent}); err != nil {
		return err
	}
	m.scores[c] = ScorePair{Challenger: challenger, Opponent: opponent}
	return nil
}

func (m *Multi) check(c Category, p ScorePair) error {
	if !m.Has(c) {
		return &UnknownCategoryError{Category: string(c), Known: categoryNames(m.Categories())}
	}
	if !p.valid() {
		return &NegativeScoreError{Category: string(c)}
	}
	return nil
}

// IsSingle reports whether cfg is the single-category variant.
func IsSingle(cfg Config) bool {
	_, ok := cfg.(*Single)
	return ok
}

// IsMulti reports whether cfg is the multi-category variant.
func IsMulti(cfg Config) bool {
	_, ok := cfg.(*Multi)
	return ok
}

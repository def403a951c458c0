package duel

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ScorePair holds the challenger and opponent scores of one category.
type ScorePair struct {
	Challenger int `json:"challenger"`
	Opponent   int `json:"opponent"`
}

func (p ScorePair) valid() bool {
	return p.Challenger >= 0 && p.Opponent >= 0
}

// EncodeScore renders a pair as "<challenger>:<opponent>".
func EncodeScore(p ScorePair) string {
	return strconv.Itoa(p.Challenger) + ":" + strconv.Itoa(p.Opponent)
}

// DecodeScore parses the "<challenger>:<opponent>" form. Stored text may be
// hand-edited, so anything other than two non-negative integers is rejected.
func DecodeScore(text string) (ScorePair, error) {
	if strings.Count(text, ":") != 1 {
		return ScorePair{}, &MalformedScoreError{Text: text}
	}
	left, right, _ := strings.Cut(text, ":")
	c, err := parseScore(left)
	if err != nil {
		return ScorePair{}, &MalformedScoreError{Text: text}
	}
	o, err := parseScore(right)
	if err != nil {
		return ScorePair{}, &MalformedScoreError{Text: text}
	}
	return ScorePair{Challenger: c, Opponent: o}, nil
}

func parseScore(s string) (int, error) {
	if s == "" || strings.ContainsAny(s, "+-") {
		return 0, fmt.Errorf("invalid score %q", s)
	}
	return strconv.Atoi(s)
}

// EncodeExercises serializes a multi-category score map as a JSON object of
// category to "c:o" strings. An empty map encodes to the empty string.
func EncodeExercises(scores map[Category]ScorePair) (string, error) {
	if len(scores) == 0 {
		return "", nil
	}
	flat := make(map[string]string, len(scores))
	for c, p := range scores {
		flat[string(c)] = EncodeScore(p)
	}
	b, err := json.Marshal(flat)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeExercises is the inverse of EncodeExercises. Empty text or "{}" yields
// an empty map. On a malformed entry the entries that did decode are returned
// together with the first error.
func DecodeExercises(text string) (map[Category]ScorePair, error) {
	out := map[Category]ScorePair{}
	text = strings.TrimSpace(text)
	if text == "" || text == "{}" {
		return out, nil
	}
	var flat map[string]string
	if err := json.Unmarshal([]byte(text), &flat); err != nil {
		return out, fmt.Errorf("decode exercises: %w", err)
	}
	var firstErr error
	for k, v := range flat {
		p, err := DecodeScore(v)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out[NormalizeCategory(k)] = p
	}
	return out, firstErr
}

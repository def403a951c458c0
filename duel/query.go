package duel

import "sort"

// SortHistory orders duels newest first. Equal or missing creation times fall
// back to descending ID so the order is deterministic.
func SortHistory(ds []*Duel) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if !a.CreatedAt.IsZero() && !b.CreatedAt.IsZero() && !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// FilterActive keeps the in-progress duels involving userID.
func FilterActive(ds []*Duel, userID string) []*Duel {
	out := make([]*Duel, 0, len(ds))
	for _, d := range ds {
		if d.InProgress() && d.Involves(userID) {
			out = append(out, d)
		}
	}
	return out
}

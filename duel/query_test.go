package duel

import (
	"testing"
	"time"
)

func TestSortHistory(t *testing.T) {
	ds := []*Duel{
		{ID: "a", CreatedAt: t0},
		{ID: "c", CreatedAt: t0.Add(2 * time.Hour)},
		{ID: "b", CreatedAt: t0},
		{ID: "z"},
		{ID: "d", CreatedAt: t0.Add(time.Hour)},
	}
	SortHistory(ds)

	var got []string
	for _, d := range ds {
		got = append(got, d.ID)
	}
	want := []string{"z", "c", "d", "b", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestFilterActive(t *testing.T) {
	active := mustNew(t, "a", "u", "x", "pushups")
	other := mustNew(t, "o", "p", "q", "pushups")
	done := mustNew(t, "f", "x", "u", "plank")
	_, _ = done.Finish(t0)

	got := FilterActive([]*Duel{active, other, done}, "u")
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected active list %v", got)
	}
}

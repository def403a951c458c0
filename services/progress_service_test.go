package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fitness-duel-system/duel"
	"fitness-duel-system/models"
	"fitness-duel-system/repository"

	"go.uber.org/zap"
)

func TestUpdateProgressSyncsSingleDuels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pushups, _ := f.duelSvc.Create(ctx, CreateDuelInput{ChallengerID: f.alice.ID, OpponentID: f.bob.ID, Categories: []string{"pushups"}})
	steps, _ := f.duelSvc.Create(ctx, CreateDuelInput{ChallengerID: f.bob.ID, OpponentID: f.alice.ID, Categories: []string{"steps"}})
	multi, _ := f.duelSvc.Create(ctx, CreateDuelInput{ChallengerID: f.alice.ID, OpponentID: f.bob.ID, Categories: []string{"pushups", "squats"}})

	user, err := f.progress.UpdateProgress(ctx, f.alice.ID, ProgressUpdate{PushUps: intPtr(40), DailySteps: intPtr(8000), WaterMl: intPtr(500)})
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if user.PushUps != 40 || user.DailySteps != 8000 || user.WaterMl != 500 || user.Squats != 0 {
		t.Errorf("unexpected counters %+v", user)
	}

	got, _ := f.duelSvc.Get(ctx, pushups.ID)
	if *got.ChallengerScore != 40 || *got.OpponentScore != 0 {
		t.Errorf("pushups duel = %d:%d, want 40:0", *got.ChallengerScore, *got.OpponentScore)
	}
	got, _ = f.duelSvc.Get(ctx, steps.ID)
	if *got.ChallengerScore != 0 || *got.OpponentScore != 8000 {
		t.Errorf("steps duel = %d:%d, want 0:8000", *got.ChallengerScore, *got.OpponentScore)
	}
	got, _ = f.duelSvc.Get(ctx, multi.ID)
	if *got.TotalScores != (duel.ScorePair{}) {
		t.Errorf("multi duel must stay untouched, got %+v", got.TotalScores)
	}

	history, err := f.progress.History(ctx, f.alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Steps != 8000 || history[0].Day != "2025-03-01" {
		t.Errorf("unexpected history %+v", history)
	}

	if _, err := f.progress.UpdateProgress(ctx, f.alice.ID, ProgressUpdate{Squats: intPtr(12)}); err != nil {
		t.Fatal(err)
	}
	history, _ = f.progress.History(ctx, f.alice.ID)
	if len(history) != 1 || history[0].Squats != 12 || history[0].PushUps != 40 {
		t.Errorf("Expected same-day snapshot to be replaced, got %+v", history)
	}
}

func TestUpdateProgressRejectsNegative(t *testing.T) {
	f := newFixture(t)
	_, err := f.progress.UpdateProgress(context.Background(), f.alice.ID, ProgressUpdate{Squats: intPtr(-3), PushUps: intPtr(-1), DailySteps: intPtr(5)})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if len(vErr.Fields) != 2 || vErr.Fields[0] != "pushUps" || vErr.Fields[1] != "squats" {
		t.Errorf("unexpected fields %v", vErr.Fields)
	}

	user, _ := f.progress.GetProgress(context.Background(), f.alice.ID)
	if user.DailySteps != 0 {
		t.Error("Expected no counter to change on rejected update")
	}
}

func TestUpdateProgressUnknownUser(t *testing.T) {
	f := newFixture(t)
	if _, err := f.progress.UpdateProgress(context.Background(), "00000000-0000-0000-0000-000000000000", ProgressUpdate{}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestSyncUserByIDReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.duelSvc.Create(ctx, CreateDuelInput{ChallengerID: f.alice.ID, OpponentID: f.bob.ID, Categories: []string{"plank"}})
	_, _ = f.duelSvc.Create(ctx, CreateDuelInput{ChallengerID: f.alice.ID, OpponentID: f.bob.ID, Categories: []string{"plank", "steps"}})

	f.alice.PlankSeconds = 90
	if err := f.users.Save(ctx, f.alice); err != nil {
		t.Fatal(err)
	}

	report, err := f.progress.SyncUserByID(ctx, f.alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if report.Checked != 1 || report.Changed != 1 || len(report.Skipped) != 0 {
		t.Errorf("unexpected report %+v", report)
	}

	report, _ = f.progress.SyncUserByID(ctx, f.alice.ID)
	if report.Changed != 0 {
		t.Errorf("Expected second sync to change nothing, got %+v", report)
	}
}

// Both participants sync at once; neither write may clobber the other slot.
func TestConcurrentSyncFromBothSides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.duelSvc.Create(ctx, CreateDuelInput{ChallengerID: f.alice.ID, OpponentID: f.bob.ID, Categories: []string{"squats"}})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := f.progress.UpdateProgress(ctx, f.alice.ID, ProgressUpdate{Squats: intPtr(50)}); err != nil {
			t.Error(err)
		}
	}()
	go func() {
		defer wg.Done()
		if _, err := f.progress.UpdateProgress(ctx, f.bob.ID, ProgressUpdate{Squats: intPtr(70)}); err != nil {
			t.Error(err)
		}
	}()
	wg.Wait()

	got, err := f.duelSvc.Get(ctx, v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *got.ChallengerScore != 50 || *got.OpponentScore != 70 {
		t.Errorf("Expected 50:70 after concurrent syncs, got %d:%d", *got.ChallengerScore, *got.OpponentScore)
	}
}

// pausingDirectory blocks the next FindByID after it has read the row, until
// release is closed.
type pausingDirectory struct {
	*repository.UserRepository
	armed   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func (p *pausingDirectory) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, err := p.UserRepository.FindByID(ctx, id)
	if p.armed.CompareAndSwap(true, false) {
		close(p.read)
		<-p.release
	}
	return u, err
}

func TestSyncByIDDoesNotRegressNewerUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.duelSvc.Create(ctx, CreateDuelInput{ChallengerID: f.alice.ID, OpponentID: f.bob.ID, Categories: []string{"pushups"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.progress.UpdateProgress(ctx, f.alice.ID, ProgressUpdate{PushUps: intPtr(10)}); err != nil {
		t.Fatal(err)
	}

	dir := &pausingDirectory{UserRepository: f.users, read: make(chan struct{}), release: make(chan struct{})}
	dir.armed.Store(true)
	svc := NewProgressService(dir, f.duels, repository.NewProgressHistoryRepository(f.db), f.locks, zap.NewNop())
	svc.Now = f.progress.Now

	syncDone := make(chan error, 1)
	go func() {
		_, err := svc.SyncUserByID(ctx, f.alice.ID)
		syncDone <- err
	}()
	<-dir.read

	updateDone := make(chan error, 1)
	go func() {
		_, err := svc.UpdateProgress(ctx, f.alice.ID, ProgressUpdate{PushUps: intPtr(20)})
		updateDone <- err
	}()
	select {
	case err := <-updateDone:
		t.Fatalf("UpdateProgress finished while a sync held stale counters: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(dir.release)

	if err := <-syncDone; err != nil {
		t.Fatal(err)
	}
	if err := <-updateDone; err != nil {
		t.Fatal(err)
	}

	got, err := f.duelSvc.Get(ctx, v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *got.ChallengerScore != 20 {
		t.Errorf("Expected challenger score 20 after the later update, got %d", *got.ChallengerScore)
	}
}

func TestAddHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	row, err := f.progress.AddHistory(ctx, f.alice.ID, HistoryEntry{Day: "2025-02-27", Steps: 3000, WaterMl: 750})
	if err != nil {
		t.Fatalf("AddHistory failed: %v", err)
	}
	if row.ID == "" || row.UserID != f.alice.ID || row.Steps != 3000 {
		t.Errorf("unexpected row %+v", row)
	}

	replaced, err := f.progress.AddHistory(ctx, f.alice.ID, HistoryEntry{Day: "2025-02-27", Steps: 3500})
	if err != nil {
		t.Fatal(err)
	}
	if replaced.ID != row.ID || replaced.Steps != 3500 || replaced.WaterMl != 0 {
		t.Errorf("Expected the same day to be replaced, got %+v", replaced)
	}

	today, err := f.progress.AddHistory(ctx, f.alice.ID, HistoryEntry{PushUps: 15})
	if err != nil {
		t.Fatal(err)
	}
	if today.Day != "2025-03-01" {
		t.Errorf("Expected an empty day to default to today, got %s", today.Day)
	}

	history, _ := f.progress.History(ctx, f.alice.ID)
	if len(history) != 2 || history[0].Day != "2025-02-27" {
		t.Errorf("unexpected history %+v", history)
	}
	user, _ := f.progress.GetProgress(ctx, f.alice.ID)
	if user.PushUps != 0 || user.DailySteps != 0 {
		t.Errorf("Expected live counters untouched, got %+v", user)
	}
}

func TestAddHistoryRejections(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		user   string
		entry  HistoryEntry
		fields []string
		want   error
	}{
		{name: "negative values", entry: HistoryEntry{Steps: -1, WaterMl: -5}, fields: []string{"steps", "water_ml"}},
		{name: "bad day", entry: HistoryEntry{Day: "27.02.2025"}, fields: []string{"day"}},
		{name: "unknown user", user: "00000000-0000-0000-0000-000000000000", want: ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := tt.user
			if user == "" {
				user = f.alice.ID
			}
			_, err := f.progress.AddHistory(context.Background(), user, tt.entry)
			if tt.want != nil {
				if !errors.Is(err, tt.want) {
					t.Fatalf("Expected %v, got %v", tt.want, err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if len(vErr.Fields) != len(tt.fields) {
				t.Fatalf("Expected fields %v, got %v", tt.fields, vErr.Fields)
			}
			for i := range tt.fields {
				if vErr.Fields[i] != tt.fields[i] {
					t.Errorf("Expected fields %v, got %v", tt.fields, vErr.Fields)
				}
			}
		})
	}
	history, _ := f.progress.History(context.Background(), f.alice.ID)
	if len(history) != 0 {
		t.Errorf("Expected no rows after rejected entries, got %+v", history)
	}
}

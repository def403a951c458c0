package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fitness-duel-system/services"

	"go.uber.org/zap"
)

type staticParticipants struct {
	ids []string
	err error
}

func (s staticParticipants) ActiveParticipants(context.Context) ([]string, error) {
	return s.ids, s.err
}

type recordingSyncer struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (r *recordingSyncer) SyncUserByID(_ context.Context, id string) (services.SyncReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, id)
	if r.fail[id] {
		return services.SyncReport{}, errors.New("boom")
	}
	return services.SyncReport{UserID: id, Changed: 1}, nil
}

func (r *recordingSyncer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestRunOnceContinuesAfterFailure(t *testing.T) {
	syncer := &recordingSyncer{fail: map[string]bool{"b": true}}
	w := NewDuelSyncWorker(staticParticipants{ids: []string{"a", "b", "c"}}, syncer, time.Minute, zap.NewNop())

	w.RunOnce(context.Background())

	if syncer.count() != 3 {
		t.Fatalf("Expected every participant to be synced, got %v", syncer.calls)
	}
}

func TestRunOnceListingError(t *testing.T) {
	syncer := &recordingSyncer{}
	w := NewDuelSyncWorker(staticParticipants{err: errors.New("db down")}, syncer, time.Minute, zap.NewNop())

	w.RunOnce(context.Background())

	if syncer.count() != 0 {
		t.Errorf("Expected no sync calls, got %v", syncer.calls)
	}
}

func TestStartRunsOnSchedule(t *testing.T) {
	syncer := &recordingSyncer{}
	w := NewDuelSyncWorker(staticParticipants{ids: []string{"a"}}, syncer, 20*time.Millisecond, zap.NewNop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for syncer.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if syncer.count() == 0 {
		t.Fatal("Expected the scheduled job to run")
	}
}

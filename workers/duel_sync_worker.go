// workers/duel_sync_worker.go
package workers

import (
	"context"
	"fmt"
	"time"

	"fitness-duel-system/services"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// ParticipantSource lists users with at least one in-progress duel.
type ParticipantSource interface {
	ActiveParticipants(ctx context.Context) ([]string, error)
}

// UserSyncer re-applies a user's progress counters to their duels.
type UserSyncer interface {
	SyncUserByID(ctx context.Context, userID string) (services.SyncReport, error)
}

// DuelSyncWorker periodically reconciles duel scores with progress counters,
// catching updates whose inline sync failed.
type DuelSyncWorker struct {
	participants ParticipantSource
	syncer       UserSyncer
	interval     time.Duration
	log          *zap.Logger
	scheduler    gocron.Scheduler
}

func NewDuelSyncWorker(participants ParticipantSource, syncer UserSyncer, interval time.Duration, log *zap.Logger) *DuelSyncWorker {
	return &DuelSyncWorker{
		participants: participants,
		syncer:       syncer,
		interval:     interval,
		log:          log,
	}
}

// Start schedules the job. Runs never overlap.
func (w *DuelSyncWorker) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() { w.RunOnce(ctx) }),
		gocron.WithName("duel-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule duel sync: %w", err)
	}
	sched.Start()
	w.scheduler = sched
	w.log.Info("duel sync worker started", zap.Duration("interval", w.interval))
	return nil
}

func (w *DuelSyncWorker) Stop() error {
	if w.scheduler == nil {
		return nil
	}
	w.log.Info("duel sync worker stopped")
	return w.scheduler.Shutdown()
}

// RunOnce syncs every active participant. A failure for one user is logged
// and does not stop the others.
func (w *DuelSyncWorker) RunOnce(ctx context.Context) {
	ids, err := w.participants.ActiveParticipants(ctx)
	if err != nil {
		w.log.Error("failed to list active duel participants", zap.Error(err))
		return
	}

	var changed, failed int
	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		report, err := w.syncer.SyncUserByID(ctx, id)
		if err != nil {
			failed++
			w.log.Warn("duel sync failed for user", zap.String("user_id", id), zap.Error(err))
			continue
		}
		changed += report.Changed
	}

	w.log.Info("duel sync run finished",
		zap.Int("users", len(ids)),
		zap.Int("duels_changed", changed),
		zap.Int("users_failed", failed),
	)
}

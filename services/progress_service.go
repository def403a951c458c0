package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"fitness-duel-system/duel"
	"fitness-duel-system/locker"
	"fitness-duel-system/models"
	"fitness-duel-system/repository"

	"go.uber.org/zap"
)

// ProgressService owns the users' activity counters and keeps their
// single-category duels in step with them.
type ProgressService struct {
	users   UserDirectory
	duels   DuelStore
	history ProgressHistoryStore
	locks   locker.Locker
	log     *zap.Logger

	Now func() time.Time
}

func NewProgressService(users UserDirectory, duels DuelStore, history ProgressHistoryStore, locks locker.Locker, log *zap.Logger) *ProgressService {
	return &ProgressService{
		users:   users,
		duels:   duels,
		history: history,
		locks:   locks,
		log:     log,
		Now:     time.Now,
	}
}

// ProgressUpdate carries the counters to overwrite. Nil fields are left as is.
type ProgressUpdate struct {
	DailySteps   *int `json:"dailySteps"`
	PushUps      *int `json:"pushUps"`
	Squats       *int `json:"squats"`
	PlankSeconds *int `json:"plankSeconds"`
	WaterMl      *int `json:"waterMl"`
}

func (u ProgressUpdate) validate() error {
	var negative []string
	for name, v := range map[string]*int{
		"dailySteps":   u.DailySteps,
		"pushUps":      u.PushUps,
		"squats":       u.Squats,
		"plankSeconds": u.PlankSeconds,
		"waterMl":      u.WaterMl,
	} {
		if v != nil && *v < 0 {
			negative = append(negative, name)
		}
	}
	if len(negative) > 0 {
		slices.Sort(negative)
		return &ValidationError{Message: "progress values cannot be negative", Fields: negative}
	}
	return nil
}

func (u ProgressUpdate) apply(user *models.User) {
	if u.DailySteps != nil {
		user.DailySteps = *u.DailySteps
	}
	if u.PushUps != nil {
		user.PushUps = *u.PushUps
	}
	if u.Squats != nil {
		user.Squats = *u.Squats
	}
	if u.PlankSeconds != nil {
		user.PlankSeconds = *u.PlankSeconds
	}
	if u.WaterMl != nil {
		user.WaterMl = *u.WaterMl
	}
}

// SyncReport summarizes one SyncUser run.
type SyncReport struct {
	UserID  string          `json:"userId"`
	Checked int             `json:"checked"`
	Changed int             `json:"changed"`
	Skipped []duel.SyncSkip `json:"-"`
}

func countersOf(u *models.User) duel.Counters {
	return duel.Counters{
		PushUps:      u.PushUps,
		Squats:       u.Squats,
		PlankSeconds: u.PlankSeconds,
		DailySteps:   u.DailySteps,
	}
}

func (s *ProgressService) GetProgress(ctx context.Context, userID string) (*models.User, error) {
	return s.findUser(ctx, userID)
}

// UpdateProgress overwrites the provided counters, syncs the user's duels and
// records today's snapshot.
func (s *ProgressService) UpdateProgress(ctx context.Context, userID string, upd ProgressUpdate) (*models.User, error) {
	if err := upd.validate(); err != nil {
		return nil, err
	}

	unlock, err := s.locks.Lock(ctx, "user:"+userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	upd.apply(user)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	if _, err := s.SyncUser(ctx, user); err != nil {
		s.log.Error("duel sync after progress update failed", zap.String("user_id", userID), zap.Error(err))
	}

	if err := s.history.UpsertDay(ctx, &models.ProgressHistory{
		UserID:       user.ID,
		Day:          s.Now().Format(time.DateOnly),
		Steps:        user.DailySteps,
		PushUps:      user.PushUps,
		Squats:       user.Squats,
		PlankSeconds: user.PlankSeconds,
		WaterMl:      user.WaterMl,
	}); err != nil {
		return nil, fmt.Errorf("save progress history: %w", err)
	}
	return user, nil
}

// SyncUser pushes the user's counters into every active single-category duel.
// Each duel is reloaded under its lock so a concurrent manual update is never
// overwritten with a stale copy. Duels that cannot be synced are logged and
// skipped.
func (s *ProgressService) SyncUser(ctx context.Context, user *models.User) (SyncReport, error) {
	report := SyncReport{UserID: user.ID}
	active, err := s.duels.FindActiveByParticipant(ctx, user.ID)
	if err != nil {
		return report, fmt.Errorf("load active duels: %w", err)
	}

	counters := countersOf(user)
	for _, candidate := range duel.FilterActive(active, user.ID) {
		if !candidate.IsSingle() {
			continue
		}
		report.Checked++
		changed, err := s.syncDuel(ctx, user.ID, counters, candidate.ID)
		if err != nil {
			report.Skipped = append(report.Skipped, duel.SyncSkip{DuelID: candidate.ID, Reason: err})
			s.log.Warn("skipped duel during progress sync",
				zap.String("user_id", user.ID),
				zap.String("duel_id", candidate.ID),
				zap.Error(err),
			)
			continue
		}
		if changed {
			report.Changed++
		}
	}

	if report.Changed > 0 {
		s.log.Info("synced duel scores from progress",
			zap.String("user_id", user.ID),
			zap.Int("changed", report.Changed),
			zap.Int("skipped", len(report.Skipped)),
		)
	}
	return report, nil
}

// SyncUserByID loads the user and runs SyncUser. The user lock is held for
// the whole run so the counters cannot go stale against a concurrent
// UpdateProgress.
func (s *ProgressService) SyncUserByID(ctx context.Context, userID string) (SyncReport, error) {
	unlock, err := s.locks.Lock(ctx, "user:"+userID)
	if err != nil {
		return SyncReport{UserID: userID}, err
	}
	defer unlock()

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return SyncReport{UserID: userID}, err
	}
	return s.SyncUser(ctx, user)
}

func (s *ProgressService) syncDuel(ctx context.Context, userID string, counters duel.Counters, duelID string) (bool, error) {
	unlock, err := s.locks.Lock(ctx, duelKey(duelID))
	if err != nil {
		return false, err
	}
	defer unlock()

	d, err := s.duels.FindByID(ctx, duelID)
	if err != nil {
		return false, err
	}
	changed, err := duel.SyncOne(userID, counters, d, s.Now())
	if err != nil || !changed {
		return false, err
	}
	if err := s.duels.Save(ctx, d); err != nil {
		return false, err
	}
	return true, nil
}

// HistoryEntry is a manually recorded daily snapshot. An empty Day means today.
type HistoryEntry struct {
	Day          string `json:"day"`
	Steps        int    `json:"steps"`
	PushUps      int    `json:"push_ups"`
	Squats       int    `json:"squats"`
	PlankSeconds int    `json:"plank_seconds"`
	WaterMl      int    `json:"water_ml"`
}

func (e HistoryEntry) validate() error {
	var bad []string
	if e.Day != "" {
		if _, err := time.Parse(time.DateOnly, e.Day); err != nil {
			bad = append(bad, "day")
		}
	}
	for name, v := range map[string]int{
		"steps":         e.Steps,
		"push_ups":      e.PushUps,
		"squats":        e.Squats,
		"plank_seconds": e.PlankSeconds,
		"water_ml":      e.WaterMl,
	} {
		if v < 0 {
			bad = append(bad, name)
		}
	}
	if len(bad) > 0 {
		slices.Sort(bad)
		return &ValidationError{Message: "history entry needs a YYYY-MM-DD day and non-negative values", Fields: bad}
	}
	return nil
}

// AddHistory records a snapshot for the given day, replacing any snapshot the
// user already has for it. Live counters and duels are not touched.
func (s *ProgressService) AddHistory(ctx context.Context, userID string, e HistoryEntry) (*models.ProgressHistory, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}

	day := e.Day
	if day == "" {
		day = s.Now().Format(time.DateOnly)
	}
	err := s.history.UpsertDay(ctx, &models.ProgressHistory{
		UserID:       userID,
		Day:          day,
		Steps:        e.Steps,
		PushUps:      e.PushUps,
		Squats:       e.Squats,
		PlankSeconds: e.PlankSeconds,
		WaterMl:      e.WaterMl,
	})
	if err != nil {
		return nil, fmt.Errorf("save progress history: %w", err)
	}
	return s.history.FindDay(ctx, userID, day)
}

// History returns the user's daily snapshots, oldest first.
func (s *ProgressService) History(ctx context.Context, userID string) ([]models.ProgressHistory, error) {
	return s.history.ListByUser(ctx, userID)
}

func (s *ProgressService) findUser(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

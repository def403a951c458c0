package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitness-duel-system/duel"
	"fitness-duel-system/locker"
	"fitness-duel-system/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DuelService runs the duel lifecycle against storage. Every
// read-modify-write on a duel holds the "duel:<id>" lock.
type DuelService struct {
	duels   DuelStore
	users   UserDirectory
	locks   locker.Locker
	archive Archiver
	log     *zap.Logger

	Now   func() time.Time
	NewID func() string
}

// NewDuelService wires the service. archive may be nil.
func NewDuelService(duels DuelStore, users UserDirectory, locks locker.Locker, archive Archiver, log *zap.Logger) *DuelService {
	return &DuelService{
		duels:   duels,
		users:   users,
		locks:   locks,
		archive: archive,
		log:     log,
		Now:     time.Now,
		NewID:   uuid.NewString,
	}
}

type CreateDuelInput struct {
	ChallengerID string
	OpponentID   string
	Categories   []string
}

// FinishResult is returned by Finish.
type FinishResult struct {
	Winner          string   `json:"winner"`
	WinnerUsername  string   `json:"winnerUsername"`
	ChallengerTotal int      `json:"totalChallengerScore"`
	OpponentTotal   int      `json:"totalOpponentScore"`
	Duel            DuelView `json:"duel"`
}

func duelKey(id string) string { return "duel:" + id }

func pairKey(challengerID, opponentID string) string {
	return "pair:" + challengerID + ":" + opponentID
}

// AllowedExercises lists the categories a duel can be created with.
func (s *DuelService) AllowedExercises() []string {
	return duel.AllowedCategoryNames()
}

// Create starts a duel. The pair lock makes the duplicate check and the insert
// atomic with respect to other creates for the same challenger and opponent.
func (s *DuelService) Create(ctx context.Context, in CreateDuelInput) (*DuelView, error) {
	if in.OpponentID == "" {
		return nil, &duel.MissingFieldError{Fields: []string{"opponentId"}}
	}
	users, err := s.users.FindByIDs(ctx, []string{in.ChallengerID, in.OpponentID})
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	if _, ok := users[in.ChallengerID]; !ok {
		return nil, fmt.Errorf("challenger %s: %w", in.ChallengerID, ErrUserNotFound)
	}
	if _, ok := users[in.OpponentID]; !ok {
		return nil, fmt.Errorf("opponent %s: %w", in.OpponentID, ErrUserNotFound)
	}

	unlock, err := s.locks.Lock(ctx, pairKey(in.ChallengerID, in.OpponentID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	active, err := s.duels.FindActiveByParticipant(ctx, in.ChallengerID)
	if err != nil {
		return nil, fmt.Errorf("load active duels: %w", err)
	}

	d, err := duel.New(duel.NewParams{
		ID:           s.NewID(),
		ChallengerID: in.ChallengerID,
		OpponentID:   in.OpponentID,
		Categories:   in.Categories,
		Active:       active,
		Now:          s.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.duels.Save(ctx, d); err != nil {
		return nil, err
	}

	s.log.Info("duel created",
		zap.String("duel_id", d.ID),
		zap.String("challenger_id", d.ChallengerID),
		zap.String("opponent_id", d.OpponentID),
		zap.Strings("categories", categoryStrings(d.Config.Categories())),
	)
	v := ProjectDuel(d, users)
	return &v, nil
}

// UpdateScores applies a manual score report.
func (s *DuelService) UpdateScores(ctx context.Context, duelID string, u duel.ScoreUpdate) (*DuelView, error) {
	var updated *duel.Duel
	err := s.withDuel(ctx, duelID, func(d *duel.Duel) error {
		if err := d.UpdateScores(u, s.Now()); err != nil {
			return err
		}
		updated = d
		return s.duels.Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("duel scores updated",
		zap.String("duel_id", duelID),
		zap.Int("challenger_total", updated.Config.TotalChallenger()),
		zap.Int("opponent_total", updated.Config.TotalOpponent()),
	)
	return s.view(ctx, updated)
}

// Finish closes the duel and records the winner. When an archive is
// configured the final view is uploaded; upload failures are only logged.
func (s *DuelService) Finish(ctx context.Context, duelID string) (*FinishResult, error) {
	var (
		finished *duel.Duel
		result   duel.Result
	)
	err := s.withDuel(ctx, duelID, func(d *duel.Duel) error {
		r, err := d.Finish(s.Now())
		if err != nil {
			return err
		}
		finished, result = d, r
		return s.duels.Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	v, err := s.view(ctx, finished)
	if err != nil {
		return nil, err
	}
	s.log.Info("duel finished",
		zap.String("duel_id", duelID),
		zap.String("winner", result.Winner),
		zap.Int("challenger_total", result.ChallengerTotal),
		zap.Int("opponent_total", result.OpponentTotal),
	)
	s.archiveView(ctx, v)

	return &FinishResult{
		Winner:          result.Winner,
		WinnerUsername:  v.WinnerUsername,
		ChallengerTotal: result.ChallengerTotal,
		OpponentTotal:   result.OpponentTotal,
		Duel:            *v,
	}, nil
}

func (s *DuelService) Get(ctx context.Context, duelID string) (*DuelView, error) {
	d, err := s.find(ctx, duelID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, d)
}

// History lists every duel of the user, newest first.
func (s *DuelService) History(ctx context.Context, userID string) ([]DuelView, error) {
	ds, err := s.duels.FindByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load duel history: %w", err)
	}
	duel.SortHistory(ds)
	return projectAll(ctx, s.users, ds)
}

// Active lists the user's in-progress duels, newest first.
func (s *DuelService) Active(ctx context.Context, userID string) ([]DuelView, error) {
	ds, err := s.duels.FindActiveByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load active duels: %w", err)
	}
	ds = duel.FilterActive(ds, userID)
	duel.SortHistory(ds)
	return projectAll(ctx, s.users, ds)
}

// withDuel loads the duel under its lock and hands it to fn.
func (s *DuelService) withDuel(ctx context.Context, duelID string, fn func(*duel.Duel) error) error {
	unlock, err := s.locks.Lock(ctx, duelKey(duelID))
	if err != nil {
		return err
	}
	defer unlock()

	d, err := s.find(ctx, duelID)
	if err != nil {
		return err
	}
	return fn(d)
}

func (s *DuelService) find(ctx context.Context, duelID string) (*duel.Duel, error) {
	d, err := s.duels.FindByID(ctx, duelID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDuelNotFound
	}
	return d, err
}

func (s *DuelService) view(ctx context.Context, d *duel.Duel) (*DuelView, error) {
	views, err := projectAll(ctx, s.users, []*duel.Duel{d})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *DuelService) archiveView(ctx context.Context, v *DuelView) {
	if s.archive == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		s.log.Error("failed to encode finished duel", zap.String("duel_id", v.ID), zap.Error(err))
		return
	}
	url, err := s.archive.ArchiveDuel(ctx, v.ID, payload)
	if err != nil {
		s.log.Warn("failed to archive finished duel", zap.String("duel_id", v.ID), zap.Error(err))
		return
	}
	s.log.Info("finished duel archived", zap.String("duel_id", v.ID), zap.String("url", url))
}

func categoryStrings(cs []duel.Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

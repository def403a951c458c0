package services

import (
	"context"

	"fitness-duel-system/duel"
	"fitness-duel-system/models"
)

// UserDirectory resolves users and owns their progress counters.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Save(ctx context.Context, u *models.User) error
	List(ctx context.Context) ([]models.User, error)
	AddFriend(ctx context.Context, userID, friendID string) error
	Friends(ctx context.Context, userID string) ([]*models.User, error)
}

// DuelStore persists duels.
type DuelStore interface {
	Save(ctx context.Context, d *duel.Duel) error
	FindByID(ctx context.Context, id string) (*duel.Duel, error)
	FindByParticipant(ctx context.Context, userID string) ([]*duel.Duel, error)
	FindActiveByParticipant(ctx context.Context, userID string) ([]*duel.Duel, error)
	ActiveParticipants(ctx context.Context) ([]string, error)
}

// ProgressHistoryStore keeps one counter snapshot per user and day.
type ProgressHistoryStore interface {
	UpsertDay(ctx context.Context, h *models.ProgressHistory) error
	FindDay(ctx context.Context, userID, day string) (*models.ProgressHistory, error)
	ListByUser(ctx context.Context, userID string) ([]models.ProgressHistory, error)
}

// Archiver stores a finished duel outside the database and returns where.
type Archiver interface {
	ArchiveDuel(ctx context.Context, duelID string, payload []byte) (string, error)
}

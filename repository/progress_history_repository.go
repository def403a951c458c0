package repository

import (
	"context"

	"fitness-duel-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressHistoryRepository stores the daily counter snapshots.
type ProgressHistoryRepository struct {
	DB *gorm.DB
}

func NewProgressHistoryRepository(db *gorm.DB) *ProgressHistoryRepository {
	return &ProgressHistoryRepository{DB: db}
}

// UpsertDay writes the snapshot for (h.UserID, h.Day), replacing the counters
// if the day already has a row.
func (r *ProgressHistoryRepository) UpsertDay(ctx context.Context, h *models.ProgressHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"steps", "push_ups", "squats", "plank_seconds", "water_ml", "updated_at",
		}),
	}).Create(h).Error
}

// FindDay loads the snapshot for one user and day.
func (r *ProgressHistoryRepository) FindDay(ctx context.Context, userID, day string) (*models.ProgressHistory, error) {
	var h models.ProgressHistory
	err := r.DB.WithContext(ctx).Where("user_id = ? AND day = ?", userID, day).First(&h).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

// ListByUser returns the user's snapshots, oldest day first.
func (r *ProgressHistoryRepository) ListByUser(ctx context.Context, userID string) ([]models.ProgressHistory, error) {
	var rows []models.ProgressHistory
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day ASC").
		Find(&rows).Error
	return rows, err
}

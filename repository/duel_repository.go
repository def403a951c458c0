package repository

import (
	"context"
	"errors"
	"fmt"

	"fitness-duel-system/duel"
	"fitness-duel-system/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DuelRepository persists duels with gorm.
type DuelRepository struct {
	DB  *gorm.DB
	log *zap.Logger
}

func NewDuelRepository(db *gorm.DB, log *zap.Logger) *DuelRepository {
	return &DuelRepository{DB: db, log: log}
}

// Save inserts or fully overwrites the duel row.
func (r *DuelRepository) Save(ctx context.Context, d *duel.Duel) error {
	row, err := toDuelRow(d)
	if err != nil {
		return fmt.Errorf("encode duel %s: %w", d.ID, err)
	}
	if err := r.DB.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save duel %s: %w", d.ID, err)
	}
	return nil
}

func (r *DuelRepository) FindByID(ctx context.Context, id string) (*duel.Duel, error) {
	var row models.Duel
	if err := r.DB.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromDuelRow(row, r.log), nil
}

// FindByParticipant returns every duel the user takes part in, newest first.
func (r *DuelRepository) FindByParticipant(ctx context.Context, userID string) ([]*duel.Duel, error) {
	var rows []models.Duel
	err := r.DB.WithContext(ctx).
		Where("challenger_id = ? OR opponent_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.fromRows(rows), nil
}

// FindActiveByParticipant returns the user's in-progress duels.
func (r *DuelRepository) FindActiveByParticipant(ctx context.Context, userID string) ([]*duel.Duel, error) {
	var rows []models.Duel
	err := r.DB.WithContext(ctx).
		Where("(challenger_id = ? OR opponent_id = ?) AND status = ?", userID, userID, string(duel.StatusInProgress)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.fromRows(rows), nil
}

// ActiveParticipants lists the distinct users with at least one in-progress duel.
func (r *DuelRepository) ActiveParticipants(ctx context.Context) ([]string, error) {
	var challengers, opponents []string
	active := r.DB.WithContext(ctx).
		Model(&models.Duel{}).
		Where("status = ?", string(duel.StatusInProgress)).
		Session(&gorm.Session{})
	if err := active.Distinct().Pluck("challenger_id", &challengers).Error; err != nil {
		return nil, err
	}
	if err := active.Distinct().Pluck("opponent_id", &opponents).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(challengers)+len(opponents))
	var out []string
	for _, id := range append(challengers, opponents...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *DuelRepository) fromRows(rows []models.Duel) []*duel.Duel {
	out := make([]*duel.Duel, len(rows))
	for i, row := range rows {
		out[i] = fromDuelRow(row, r.log)
	}
	return out
}

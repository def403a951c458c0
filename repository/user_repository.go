package repository

import (
	"context"
	"errors"

	"fitness-duel-system/models"

	"gorm.io/gorm"
)

// UserRepository is the gorm-backed user directory.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByIDs loads several users at once, keyed by ID. Unknown IDs are absent
// from the result.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	var users []models.User
	if len(ids) > 0 {
		if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
	}
	out := make(map[string]*models.User, len(users))
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	err := r.DB.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).Order("username ASC").Find(&users).Error
	return users, err
}

// AddFriend links both users to each other in one transaction.
func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user, friend models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.First(&friend, "id = ?", friendID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Model(&user).Association("Friends").Append(&friend); err != nil {
			return err
		}
		return tx.Model(&friend).Association("Friends").Append(&user)
	})
}

// Friends lists the users linked to userID.
func (r *UserRepository) Friends(ctx context.Context, userID string) ([]*models.User, error) {
	user := models.User{ID: userID}
	var friends []*models.User
	if err := r.DB.WithContext(ctx).Model(&user).Association("Friends").Find(&friends); err != nil {
		return nil, err
	}
	return friends, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

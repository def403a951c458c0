package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a registered athlete together with their live progress counters.
// The duel engine only reads the counters; the progress routes write them.
type User struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Username     string `gorm:"index;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Activity counters
	DailySteps   int `json:"daily_steps" gorm:"default:0"`
	PushUps      int `json:"push_ups" gorm:"default:0"`
	Squats       int `json:"squats" gorm:"default:0"`
	PlankSeconds int `json:"plank_seconds" gorm:"default:0"`
	WaterMl      int `json:"water_ml" gorm:"default:0"`

	Friends []*User `gorm:"many2many:user_friends" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserSummary is the public projection of a user embedded in other responses.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

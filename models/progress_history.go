package models

import "time"

// ProgressHistory is one day's snapshot of a user's counters, used for the
// statistics charts. There is at most one row per (user, day).
type ProgressHistory struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string    `gorm:"uniqueIndex:idx_progress_user_day;not null" json:"user_id"`
	Day          string    `gorm:"uniqueIndex:idx_progress_user_day;type:varchar(10);not null" json:"day"` // YYYY-MM-DD
	Steps        int       `json:"steps"`
	PushUps      int       `json:"push_ups"`
	Squats       int       `json:"squats"`
	PlankSeconds int       `json:"plank_seconds"`
	WaterMl      int       `json:"water_ml"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

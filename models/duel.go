package models

import "time"

// Duel is the persisted form of a duel. Single-category duels use
// ExerciseCategory and the two score columns; multi-category duels keep a
// JSON object of category -> "challenger:opponent" in Exercises. An empty
// Exercises column means the duel has no multi-category data.
type Duel struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	ChallengerID string `gorm:"index;not null" json:"challenger_id"`
	OpponentID   string `gorm:"index;not null" json:"opponent_id"`
	Status       string `gorm:"type:varchar(16);index;not null;default:'IN_PROGRESS'" json:"status"`
	Winner       string `json:"winner,omitempty"`

	ExerciseCategory string `gorm:"type:varchar(32)" json:"exercise_category,omitempty"`
	ChallengerScore  int    `gorm:"default:0" json:"challenger_score"`
	OpponentScore    int    `gorm:"default:0" json:"opponent_score"`

	Exercises string `gorm:"type:text" json:"exercises,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

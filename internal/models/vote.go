package models

import (
	"time"
)

// Vote is one user's +1/-1 on an alternate ending. The (user_id, alternate_ending_id)
// pair is unique, so a user holds at most one vote per ending.
type Vote struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            uint            `gorm:"not null;uniqueIndex:idx_user_ending_vote" json:"user_id"`
	User              User            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AlternateEndingID string          `gorm:"size:36;not null;index;uniqueIndex:idx_user_ending_vote" json:"alternate_ending_id"`
	AlternateEnding   AlternateEnding `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Value             int             `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

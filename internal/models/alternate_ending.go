package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlternateEnding is a user-written ending for a TMDB movie. Score is the running sum of
// its votes and is only ever changed by atomic increments.
type AlternateEnding struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	TmdbMovieID int       `gorm:"not null;index" json:"tmdb_movie_id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Score       int       `gorm:"default:0;not null;index" json:"score"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	ContestID   *string   `gorm:"size:36;index" json:"contest_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Filled per request, not stored
	UserVote int `gorm:"-" json:"user_vote"`
}

func (e *AlternateEnding) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"
)

// MovieLike marks a TMDB movie a user liked.
type MovieLike struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index;uniqueIndex:idx_user_movie" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	TmdbMovieID int       `gorm:"not null;index;uniqueIndex:idx_user_movie" json:"tmdb_movie_id"`
	CreatedAt   time.Time `json:"created_at"`
}

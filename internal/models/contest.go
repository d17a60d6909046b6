package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContestStatus string

const (
	ContestUpcoming  ContestStatus = "UPCOMING"
	ContestActive    ContestStatus = "ACTIVE"
	ContestVoting    ContestStatus = "VOTING"
	ContestCompleted ContestStatus = "COMPLETED"
)

func (s ContestStatus) Valid() bool {
	switch s {
	case ContestUpcoming, ContestActive, ContestVoting, ContestCompleted:
		return true
	}
	return false
}

type Contest struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	Theme         string         `gorm:"not null" json:"theme"`
	StartDate     time.Time      `gorm:"not null" json:"start_date"`
	EndDate       time.Time      `gorm:"not null;index" json:"end_date"`
	VotingEndDate time.Time      `gorm:"not null" json:"voting_end_date"`
	Status        ContestStatus  `gorm:"type:varchar(20);not null;default:'UPCOMING';index" json:"status"`
	Movies        []ContestMovie `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"movies"`
	Entries       []ContestEntry `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"entries"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (c *Contest) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ContestMovie is a TMDB movie admins picked for a contest. Title and poster are copied
// from TMDB when the movie is added.
type ContestMovie struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ContestID   string    `gorm:"size:36;not null;uniqueIndex:idx_contest_movie" json:"contest_id"`
	TmdbMovieID int       `gorm:"not null;uniqueIndex:idx_contest_movie" json:"tmdb_movie_id"`
	Title       string    `gorm:"not null" json:"title"`
	PosterPath  string    `json:"poster_path"`
	CreatedAt   time.Time `json:"created_at"`
}

type ContestEntry struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	ContestID         string          `gorm:"size:36;not null;index" json:"contest_id"`
	AlternateEndingID string          `gorm:"size:36;not null;uniqueIndex" json:"alternate_ending_id"`
	AlternateEnding   AlternateEnding `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"alternate_ending"`
	CreatedAt         time.Time       `json:"created_at"`
}

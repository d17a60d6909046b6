package services

import (
	"context"
	"errors"
	"plottwisters/internal/models"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

const (
	MaxEndingTitle   = 100
	MaxEndingContent = 10000
)

var (
	ErrEndingTitle   = errors.New("title must be between 1 and 100 characters")
	ErrEndingContent = errors.New("content must be between 1 and 10000 characters")
)

type EndingInput struct {
	Title   string
	Content string
}

// Normalize trims the input and checks its lengths.
func (in *EndingInput) Normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if n := utf8.RuneCountInString(in.Title); n == 0 || n > MaxEndingTitle {
		return ErrEndingTitle
	}
	if n := utf8.RuneCountInString(in.Content); n == 0 || n > MaxEndingContent {
		return ErrEndingContent
	}
	return nil
}

type EndingService struct {
	db *gorm.DB
}

func NewEndingService(db *gorm.DB) *EndingService {
	return &EndingService{db: db}
}

func (s *EndingService) Create(ctx context.Context, authorID uint, movieID int, in EndingInput) (*models.AlternateEnding, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	ending := &models.AlternateEnding{
		TmdbMovieID: movieID,
		Title:       in.Title,
		Content:     in.Content,
		AuthorID:    authorID,
	}
	if err := s.db.WithContext(ctx).Create(ending).Error; err != nil {
		return nil, err
	}
	return ending, nil
}

// Update edits an ending owned by authorID. Endings belonging to someone else are
// reported as not found.
func (s *EndingService) Update(ctx context.Context, authorID uint, endingID string, in EndingInput) (*models.AlternateEnding, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&models.AlternateEnding{}).
		Where("id = ? AND author_id = ?", endingID, authorID).
		Updates(map[string]interface{}{"title": in.Title, "content": in.Content})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrEntryNotFound
	}
	return s.Get(ctx, endingID)
}

func (s *EndingService) Get(ctx context.Context, endingID string) (*models.AlternateEnding, error) {
	var ending models.AlternateEnding
	if err := s.db.WithContext(ctx).Preload("Author").First(&ending, "id = ?", endingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &ending, nil
}

// ForMovie lists a movie's endings, best first.
func (s *EndingService) ForMovie(ctx context.Context, movieID int) ([]models.AlternateEnding, error) {
	var endings []models.AlternateEnding
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("tmdb_movie_id = ?", movieID).
		Order("score DESC").
		Order("created_at ASC").
		Find(&endings).Error
	return endings, err
}

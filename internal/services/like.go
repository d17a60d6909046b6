package services

import (
	"context"
	"errors"
	"plottwisters/internal/models"

	"gorm.io/gorm"
)

type LikeService struct {
	db *gorm.DB
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

// Toggle likes the movie if the user hasn't yet, otherwise removes the like.
// It reports whether the movie is liked afterwards.
func (s *LikeService) Toggle(ctx context.Context, userID uint, movieID int) (bool, error) {
	liked := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND tmdb_movie_id = ?", userID, movieID).Delete(&models.MovieLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		like := models.MovieLike{UserID: userID, TmdbMovieID: movieID}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		liked = true
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a parallel request from the same user created it first
		return true, nil
	}
	return liked, err
}

func (s *LikeService) IsLiked(ctx context.Context, userID uint, movieID int) bool {
	if userID == 0 {
		return false
	}
	var count int64
	s.db.WithContext(ctx).Model(&models.MovieLike{}).
		Where("user_id = ? AND tmdb_movie_id = ?", userID, movieID).
		Count(&count)
	return count > 0
}

func (s *LikeService) Count(ctx context.Context, movieID int) int64 {
	var count int64
	s.db.WithContext(ctx).Model(&models.MovieLike{}).Where("tmdb_movie_id = ?", movieID).Count(&count)
	return count
}

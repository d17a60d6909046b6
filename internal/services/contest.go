package services

import (
	"context"
	"errors"
	"fmt"
	"plottwisters/internal/models"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrContestNotFound   = errors.New("contest not found")
	ErrContestClosed     = errors.New("contest is not accepting entries")
	ErrMovieNotInContest = errors.New("movie not found in this contest")
	ErrInvalidStatus     = errors.New("invalid contest status")
)

// MovieFetcher looks up movie metadata.
type MovieFetcher interface {
	Movie(ctx context.Context, movieID int) (*Movie, error)
}

type ContestInput struct {
	Title         string
	Description   string
	Theme         string
	StartDate     time.Time
	EndDate       time.Time
	VotingEndDate time.Time
}

// ValidationError lists the problems found in a submitted form, keyed by field.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

func (in *ContestInput) Validate() error {
	errs := ValidationError{}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Theme = strings.TrimSpace(in.Theme)

	if in.Title == "" {
		errs["title"] = "Title is required"
	}
	if in.Description == "" {
		errs["description"] = "Description is required"
	}
	if in.Theme == "" {
		errs["theme"] = "Theme is required"
	}
	if in.StartDate.IsZero() {
		errs["startDate"] = "Start date is required"
	}
	if in.EndDate.IsZero() {
		errs["endDate"] = "End date is required"
	} else if !in.StartDate.IsZero() && !in.EndDate.After(in.StartDate) {
		errs["endDate"] = "End date must be after start date"
	}
	if in.VotingEndDate.IsZero() {
		errs["votingEndDate"] = "Voting end date is required"
	} else if !in.EndDate.IsZero() && in.VotingEndDate.Before(in.EndDate) {
		errs["votingEndDate"] = "Voting must end after submissions close"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ContestService struct {
	db     *gorm.DB
	movies MovieFetcher
}

func NewContestService(db *gorm.DB, movies MovieFetcher) *ContestService {
	return &ContestService{db: db, movies: movies}
}

func (s *ContestService) Create(ctx context.Context, in ContestInput) (*models.Contest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	contest := &models.Contest{
		Title:         in.Title,
		Description:   in.Description,
		Theme:         in.Theme,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		VotingEndDate: in.VotingEndDate,
		Status:        models.ContestUpcoming,
	}
	if err := s.db.WithContext(ctx).Create(contest).Error; err != nil {
		return nil, err
	}
	return contest, nil
}

// Active lists contests currently taking entries, closing soonest first.
func (s *ContestService) Active(ctx context.Context) ([]models.Contest, error) {
	var contests []models.Contest
	err := s.db.WithContext(ctx).
		Preload("Movies").
		Where("status = ?", models.ContestActive).
		Order("end_date ASC").
		Find(&contests).Error
	return contests, err
}

func (s *ContestService) All(ctx context.Context) ([]models.Contest, error) {
	var contests []models.Contest
	err := s.db.WithContext(ctx).Order("start_date DESC").Find(&contests).Error
	return contests, err
}

// Get loads a contest with its movies and entries (endings and their authors included).
func (s *ContestService) Get(ctx context.Context, contestID string) (*models.Contest, error) {
	var contest models.Contest
	err := s.db.WithContext(ctx).
		Preload("Movies").
		Preload("Entries.AlternateEnding.Author").
		First(&contest, "id = ?", contestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}
	return &contest, nil
}

func (s *ContestService) SetStatus(ctx context.Context, contestID string, status models.ContestStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	res := s.db.WithContext(ctx).Model(&models.Contest{}).
		Where("id = ?", contestID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrContestNotFound
	}
	return nil
}

// FindMovie returns the contest and the given movie's entry in it.
func (s *ContestService) FindMovie(ctx context.Context, contestID string, movieID int) (*models.Contest, *models.ContestMovie, error) {
	contest, err := s.Get(ctx, contestID)
	if err != nil {
		return nil, nil, err
	}
	for i := range contest.Movies {
		if contest.Movies[i].TmdbMovieID == movieID {
			return contest, &contest.Movies[i], nil
		}
	}
	return contest, nil, ErrMovieNotInContest
}

func (s *ContestService) Movies(ctx context.Context, contestID string) ([]models.ContestMovie, error) {
	movies := []models.ContestMovie{}
	err := s.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("created_at ASC").
		Find(&movies).Error
	return movies, err
}

// AddMovie attaches a TMDB movie to a contest, copying its title and poster. Adding a
// movie twice is a no-op.
func (s *ContestService) AddMovie(ctx context.Context, contestID string, movieID int) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Contest{}).Where("id = ?", contestID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrContestNotFound
	}

	movie, err := s.movies.Movie(ctx, movieID)
	if err != nil {
		return fmt.Errorf("fetch movie %d: %w", movieID, err)
	}

	cm := models.ContestMovie{
		ContestID:   contestID,
		TmdbMovieID: movieID,
		Title:       movie.Title,
		PosterPath:  movie.PosterURL("w500"),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&cm).Error
}

func (s *ContestService) RemoveMovie(ctx context.Context, contestID string, movieID int) error {
	return s.db.WithContext(ctx).
		Where("contest_id = ? AND tmdb_movie_id = ?", contestID, movieID).
		Delete(&models.ContestMovie{}).Error
}

// SubmitEntry creates an ending for one of the contest's movies and registers it as a
// contest entry, both or neither.
func (s *ContestService) SubmitEntry(ctx context.Context, authorID uint, contestID string, movieID int, in EndingInput) (*models.AlternateEnding, error) {
	contest, _, err := s.FindMovie(ctx, contestID, movieID)
	if err != nil {
		return nil, err
	}
	if contest.Status != models.ContestActive {
		return nil, ErrContestClosed
	}
	if err := in.Normalize(); err != nil {
		return nil, err
	}

	ending := &models.AlternateEnding{
		TmdbMovieID: movieID,
		Title:       in.Title,
		Content:     in.Content,
		AuthorID:    authorID,
		ContestID:   &contest.ID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ending).Error; err != nil {
			return err
		}
		entry := models.ContestEntry{ContestID: contest.ID, AlternateEndingID: ending.ID}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return ending, nil
}

// EntriesByMovie groups a loaded contest's entries under the movie they were written for,
// in contest movie order, each group sorted by score.
func EntriesByMovie(contest *models.Contest) []MovieEntries {
	groups := make([]MovieEntries, len(contest.Movies))
	index := make(map[int]int, len(contest.Movies))
	for i, m := range contest.Movies {
		groups[i].Movie = m
		index[m.TmdbMovieID] = i
	}
	for _, entry := range contest.Entries {
		if i, ok := index[entry.AlternateEnding.TmdbMovieID]; ok {
			groups[i].Endings = append(groups[i].Endings, entry.AlternateEnding)
		}
	}
	for i := range groups {
		sort.SliceStable(groups[i].Endings, func(a, b int) bool {
			return groups[i].Endings[a].Score > groups[i].Endings[b].Score
		})
	}
	return groups
}

type MovieEntries struct {
	Movie   models.ContestMovie
	Endings []models.AlternateEnding
}

// AdvanceStatuses moves contests along UPCOMING -> ACTIVE -> VOTING -> COMPLETED once
// their dates have passed and returns how many rows changed.
func (s *ContestService) AdvanceStatuses(ctx context.Context, now time.Time) (int64, error) {
	steps := []struct {
		from, to models.ContestStatus
		column   string
	}{
		{models.ContestVoting, models.ContestCompleted, "voting_end_date"},
		{models.ContestActive, models.ContestVoting, "end_date"},
		{models.ContestUpcoming, models.ContestActive, "start_date"},
	}

	var total int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, step := range steps {
			res := tx.Model(&models.Contest{}).
				Where("status = ? AND "+step.column+" <= ?", step.from, now).
				Update("status", step.to)
			if res.Error != nil {
				return res.Error
			}
			total += res.RowsAffected
		}
		return nil
	})
	return total, err
}

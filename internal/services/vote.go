package services

import (
	"context"
	"errors"
	"fmt"
	"plottwisters/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidDirection = errors.New("invalid vote value")
	ErrInvalidEntry     = errors.New("alternate ending id is required")
	ErrEntryNotFound    = errors.New("alternate ending not found")
	ErrVoteConflict     = errors.New("vote was changed by another request")
)

type VoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// CastVote records direction (+1 or -1) from userID on an alternate ending and returns the
// ending's score after the change.
//
// A first vote is created, repeating the same direction removes the vote, and the opposite
// direction flips it. The vote row and the score move together in one transaction; the
// score is only touched through "score + delta" so concurrent voters never lose updates.
func (s *VoteService) CastVote(ctx context.Context, userID uint, endingID string, direction int) (int, error) {
	if endingID == "" {
		return 0, ErrInvalidEntry
	}
	if direction != 1 && direction != -1 {
		return 0, ErrInvalidDirection
	}

	var score int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ending models.AlternateEnding
		if err := tx.Select("id").Where("id = ?", endingID).Take(&ending).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return err
		}

		delta, err := applyVote(tx, userID, endingID, direction)
		if err != nil {
			return err
		}

		res := tx.Model(&models.AlternateEnding{}).
			Where("id = ?", endingID).
			UpdateColumn("score", gorm.Expr("score + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEntryNotFound
		}

		return tx.Model(&models.AlternateEnding{}).
			Select("score").
			Where("id = ?", endingID).
			Row().
			Scan(&score)
	})
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) || errors.Is(err, ErrVoteConflict) {
			return 0, err
		}
		return 0, fmt.Errorf("cast vote on %s: %w", endingID, err)
	}
	return score, nil
}

// applyVote moves the user's vote row to its next state and returns the score delta.
// Updates and deletes are guarded on the value read earlier, so a concurrent request
// from the same user that got there first turns this call into ErrVoteConflict.
func applyVote(tx *gorm.DB, userID uint, endingID string, direction int) (int, error) {
	var existing models.Vote
	err := tx.Where("user_id = ? AND alternate_ending_id = ?", userID, endingID).Take(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	found := err == nil

	previous := 0
	if found {
		previous = existing.Value
	}
	delta, next := scoreDelta(previous, direction)

	switch {
	case !found:
		vote := models.Vote{UserID: userID, AlternateEndingID: endingID, Value: next}
		if err := tx.Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return 0, ErrVoteConflict
			}
			return 0, err
		}
	case next == 0:
		res := tx.Where("id = ? AND value = ?", existing.ID, previous).Delete(&models.Vote{})
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 0 {
			return 0, ErrVoteConflict
		}
	default:
		res := tx.Model(&models.Vote{}).
			Where("id = ? AND value = ?", existing.ID, previous).
			Update("value", next)
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 0 {
			return 0, ErrVoteConflict
		}
	}
	return delta, nil
}

// scoreDelta returns the score change and the user's resulting vote value (0 = none)
// when a user currently holding previous (0 = none) casts direction.
func scoreDelta(previous, direction int) (delta, next int) {
	switch previous {
	case 0:
		return direction, direction
	case direction:
		return -direction, 0
	default:
		// -1 -> +1 or +1 -> -1 swings by two
		return 2 * direction, direction
	}
}

// UserVotes returns userID's vote value keyed by alternate ending id, for the given endings.
func (s *VoteService) UserVotes(ctx context.Context, userID uint, endingIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(endingIDs))
	if userID == 0 || len(endingIDs) == 0 {
		return out, nil
	}

	var votes []models.Vote
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND alternate_ending_id IN ?", userID, endingIDs).
		Find(&votes).Error; err != nil {
		return nil, err
	}
	for _, v := range votes {
		out[v.AlternateEndingID] = v.Value
	}
	return out, nil
}

// FillUserVotes sets UserVote on each ending for the given user.
func (s *VoteService) FillUserVotes(ctx context.Context, userID uint, endings []models.AlternateEnding) error {
	ids := make([]string, len(endings))
	for i, e := range endings {
		ids[i] = e.ID
	}
	votes, err := s.UserVotes(ctx, userID, ids)
	if err != nil {
		return err
	}
	for i := range endings {
		endings[i].UserVote = votes[endings[i].ID]
	}
	return nil
}

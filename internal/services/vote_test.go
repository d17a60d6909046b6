package services

import (
	"context"
	"errors"
	"fmt"
	"plottwisters/internal/models"
	"plottwisters/internal/testutil"
	"sync"
	"testing"

	"gorm.io/gorm"
)

func TestScoreDelta(t *testing.T) {
	tests := []struct {
		name      string
		previous  int
		direction int
		delta     int
		next      int
	}{
		{"first upvote", 0, 1, 1, 1},
		{"first downvote", 0, -1, -1, -1},
		{"repeat upvote removes", 1, 1, -1, 0},
		{"repeat downvote removes", -1, -1, 1, 0},
		{"down to up", -1, 1, 2, 1},
		{"up to down", 1, -1, -2, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, next := scoreDelta(tt.previous, tt.direction)
			if delta != tt.delta || next != tt.next {
				t.Errorf("scoreDelta(%d, %d) = (%d, %d), want (%d, %d)",
					tt.previous, tt.direction, delta, next, tt.delta, tt.next)
			}
		})
	}
}

func TestCastVoteSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewVoteService(db)
	ctx := context.Background()

	author := testutil.CreateTestUser(t, db, "author")
	voter := testutil.CreateTestUser(t, db, "voter")
	ending := testutil.CreateTestEnding(t, db, author, 597)

	steps := []struct {
		direction int
		wantScore int
		wantVote  int // 0 = no vote row
	}{
		{1, 1, 1},
		{1, 0, 0},
		{-1, -1, -1},
		{1, 1, 1},
		{-1, -1, -1},
		{-1, 0, 0},
	}

	for i, step := range steps {
		score, err := svc.CastVote(ctx, voter.ID, ending.ID, step.direction)
		if err != nil {
			t.Fatalf("step %d: CastVote failed: %v", i, err)
		}
		if score != step.wantScore {
			t.Errorf("step %d: expected score %d, got %d", i, step.wantScore, score)
		}
		if stored := testutil.EndingScore(t, db, ending.ID); stored != score {
			t.Errorf("step %d: returned score %d but stored score is %d", i, score, stored)
		}

		var votes []models.Vote
		db.Where("user_id = ? AND alternate_ending_id = ?", voter.ID, ending.ID).Find(&votes)
		switch {
		case step.wantVote == 0 && len(votes) != 0:
			t.Errorf("step %d: expected no vote row, got %d", i, len(votes))
		case step.wantVote != 0 && (len(votes) != 1 || votes[0].Value != step.wantVote):
			t.Errorf("step %d: expected one vote with value %d, got %+v", i, step.wantVote, votes)
		}
	}
}

func TestCastVoteSwitchMovesByTwo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewVoteService(db)
	ctx := context.Background()

	author := testutil.CreateTestUser(t, db, "author")
	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	ending := testutil.CreateTestEnding(t, db, author, 155)

	if _, err := svc.CastVote(ctx, bob.ID, ending.ID, 1); err != nil {
		t.Fatalf("bob upvote: %v", err)
	}
	before, err := svc.CastVote(ctx, alice.ID, ending.ID, -1)
	if err != nil {
		t.Fatalf("alice downvote: %v", err)
	}
	after, err := svc.CastVote(ctx, alice.ID, ending.ID, 1)
	if err != nil {
		t.Fatalf("alice switch: %v", err)
	}
	if after-before != 2 {
		t.Errorf("expected switch delta of 2, got %d (from %d to %d)", after-before, before, after)
	}
	if after != 2 {
		t.Errorf("expected final score 2, got %d", after)
	}
}

func TestCastVoteRejectsBadInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewVoteService(db)
	ctx := context.Background()

	author := testutil.CreateTestUser(t, db, "author")
	ending := testutil.CreateTestEnding(t, db, author, 13)

	for _, dir := range []int{0, 2, -2} {
		if _, err := svc.CastVote(ctx, author.ID, ending.ID, dir); !errors.Is(err, ErrInvalidDirection) {
			t.Errorf("direction %d: expected ErrInvalidDirection, got %v", dir, err)
		}
	}
	if _, err := svc.CastVote(ctx, author.ID, "", 1); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry, got %v", err)
	}
	if _, err := svc.CastVote(ctx, author.ID, "missing", 1); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	var count int64
	db.Model(&models.Vote{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no votes after rejected calls, got %d", count)
	}
	if score := testutil.EndingScore(t, db, ending.ID); score != 0 {
		t.Errorf("expected score 0 after rejected calls, got %d", score)
	}
}

func TestCastVoteConcurrentDistinctUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewVoteService(db)
	ctx := context.Background()

	author := testutil.CreateTestUser(t, db, "author")
	ending := testutil.CreateTestEnding(t, db, author, 680)

	const numVoters = 20
	voters := make([]*models.User, numVoters)
	for i := range voters {
		voters[i] = testutil.CreateTestUser(t, db, fmt.Sprintf("voter%d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, numVoters)
	for _, v := range voters {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			if _, err := svc.CastVote(ctx, userID, ending.ID, 1); err != nil {
				errs <- err
			}
		}(v.ID)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent vote failed: %v", err)
	}
	if score := testutil.EndingScore(t, db, ending.ID); score != numVoters {
		t.Errorf("expected score %d, got %d", numVoters, score)
	}

	var count int64
	db.Model(&models.Vote{}).Where("alternate_ending_id = ?", ending.ID).Count(&count)
	if count != numVoters {
		t.Errorf("expected %d vote rows, got %d", numVoters, count)
	}
}

func TestUserVotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewVoteService(db)
	ctx := context.Background()

	author := testutil.CreateTestUser(t, db, "author")
	voter := testutil.CreateTestUser(t, db, "voter")
	up := testutil.CreateTestEnding(t, db, author, 1)
	down := testutil.CreateTestEnding(t, db, author, 1)
	none := testutil.CreateTestEnding(t, db, author, 1)

	if _, err := svc.CastVote(ctx, voter.ID, up.ID, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CastVote(ctx, voter.ID, down.ID, -1); err != nil {
		t.Fatal(err)
	}

	endings := []models.AlternateEnding{*up, *down, *none}
	if err := svc.FillUserVotes(ctx, voter.ID, endings); err != nil {
		t.Fatalf("FillUserVotes failed: %v", err)
	}
	want := []int{1, -1, 0}
	for i, e := range endings {
		if e.UserVote != want[i] {
			t.Errorf("ending %d: expected user vote %d, got %d", i, want[i], e.UserVote)
		}
	}
}

func TestCastVoteSameUserRace(t *testing.T) {
	tests := []struct {
		name      string
		seed      int // the voter's vote before the race, 0 = none
		direction int
		interfere string
		wantVote  int // 0 = no vote row
		wantScore int
	}{
		{"repeat loses to a switch", 1, 1, "UPDATE votes SET value = -1 WHERE user_id = ?", 1, 1},
		{"switch loses to a switch", 1, -1, "UPDATE votes SET value = -1 WHERE user_id = ?", 1, 1},
		{"switch loses to a removal", -1, 1, "DELETE FROM votes WHERE user_id = ?", -1, -1},
		{"first vote loses to a first vote", 0, 1, "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			svc := NewVoteService(db)
			ctx := context.Background()

			author := testutil.CreateTestUser(t, db, "author")
			voter := testutil.CreateTestUser(t, db, "voter")
			ending := testutil.CreateTestEnding(t, db, author, 597)

			if tt.seed != 0 {
				if _, err := svc.CastVote(ctx, voter.ID, ending.ID, tt.seed); err != nil {
					t.Fatalf("seed vote failed: %v", err)
				}
			}

			testutil.AfterNextVoteLookup(t, db, func(tx *gorm.DB) {
				var err error
				if tt.interfere != "" {
					err = tx.Exec(tt.interfere, voter.ID).Error
				} else {
					err = tx.Create(&models.Vote{UserID: voter.ID, AlternateEndingID: ending.ID, Value: 1}).Error
				}
				if err != nil {
					t.Errorf("concurrent write failed: %v", err)
				}
			})

			_, err := svc.CastVote(ctx, voter.ID, ending.ID, tt.direction)
			if !errors.Is(err, ErrVoteConflict) {
				t.Fatalf("Expected ErrVoteConflict, got %v", err)
			}

			var votes []models.Vote
			db.Where("user_id = ? AND alternate_ending_id = ?", voter.ID, ending.ID).Find(&votes)
			switch {
			case tt.wantVote == 0 && len(votes) != 0:
				t.Errorf("Expected no vote row after rollback, got %+v", votes)
			case tt.wantVote != 0 && (len(votes) != 1 || votes[0].Value != tt.wantVote):
				t.Errorf("Expected vote %d to survive, got %+v", tt.wantVote, votes)
			}
			if score := testutil.EndingScore(t, db, ending.ID); score != tt.wantScore {
				t.Errorf("Expected score %d after rollback, got %d", tt.wantScore, score)
			}
		})
	}
}

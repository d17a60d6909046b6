package services

import (
	"context"
	"plottwisters/internal/models"
	"plottwisters/internal/testutil"
	"testing"
	"time"
)

func TestContestSchedulerRunsOnStart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewContestService(db, testMovies)

	now := time.Now()
	contest, err := svc.Create(context.Background(), ContestInput{
		Title:         "Open now",
		Description:   "Already started",
		Theme:         "Any",
		StartDate:     now.Add(-time.Hour),
		EndDate:       now.Add(24 * time.Hour),
		VotingEndDate: now.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}

	s := NewContestScheduler(svc, time.Hour)
	s.Start()
	s.Stop()
	// second Stop is a no-op
	s.Stop()

	var stored models.Contest
	db.First(&stored, "id = ?", contest.ID)
	if stored.Status != models.ContestActive {
		t.Errorf("Expected first tick to activate the contest, got %s", stored.Status)
	}
}

func TestContestSchedulerStopWithoutStart(t *testing.T) {
	s := NewContestScheduler(nil, time.Hour)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on a scheduler that was never started")
	}

	// a stopped scheduler stays stopped; with no contest service a worker would panic
	s.Start()
	s.Stop()
}

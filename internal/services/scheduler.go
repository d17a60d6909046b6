package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// ContestScheduler periodically advances contest statuses by their dates.
type ContestScheduler struct {
	contests *ContestService
	interval time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

func NewContestScheduler(contests *ContestService, interval time.Duration) *ContestScheduler {
	return &ContestScheduler{
		contests: contests,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one pass immediately and then one per interval until Stop.
func (s *ContestScheduler) Start() {
	s.startOnce.Do(func() { go s.worker() })
}

// Stop ends the worker and waits for it. Stopping a scheduler that never started
// returns at once and prevents a later Start.
func (s *ContestScheduler) Stop() {
	s.startOnce.Do(func() { close(s.done) })
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

func (s *ContestScheduler) worker() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick()
	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stop:
			return
		}
	}
}

func (s *ContestScheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.contests.AdvanceStatuses(ctx, time.Now())
	if err != nil {
		log.Printf("Failed to advance contest statuses: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Advanced %d contest statuses", n)
	}
}

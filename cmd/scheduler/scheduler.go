package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderJob enqueues lesson reminders for idle learners
type ReminderJob interface {
	// EnqueueReminders enqueues one reminder per eligible user
	//
	// "ctx" is the context for the run.
	//
	// Returns the number of reminders enqueued and an error if any.
	EnqueueReminders(ctx context.Context) (int, error)
}

// Scheduler runs the reminder job on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	job     ReminderJob
	logger  *zap.Logger
	timeout time.Duration
}

// NewScheduler creates a new scheduler instance.
// "spec" is a standard five-field cron expression.
func NewScheduler(spec string, job ReminderJob, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		job:     job,
		logger:  logger,
		timeout: 5 * time.Minute,
	}

	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid reminder cron %q: %w", spec, err)
	}

	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Time("next_run", s.Next()))
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// Next returns the time of the next scheduled run
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// runOnce executes a single reminder pass
func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	count, err := s.job.EnqueueReminders(ctx)
	if err != nil {
		s.logger.Error("Reminder run failed", zap.Error(err))
		return
	}
	s.logger.Info("Reminder run finished", zap.Int("enqueued", count))
}

package services

import (
	"context"
	"time"

	"github.com/learncamera/backend/internal/models"
	"go.uber.org/zap"
)

// ReminderRepository defines methods for finding users to remind
type ReminderRepository interface {
	// ListReminderTargets lists users whose latest incomplete lesson was started before idleBefore
	//
	// "ctx" is the context for the request.
	// "idleBefore" is the latest start time that counts as idle.
	//
	// Returns a list of reminder targets and an error if any.
	ListReminderTargets(ctx context.Context, idleBefore time.Time) ([]models.ReminderTarget, error)
}

// ReminderCooldown limits how often one user is reminded
type ReminderCooldown interface {
	// Acquire claims the reminder slot of a user for ttl
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "ttl" is how long the slot stays claimed.
	//
	// Returns false when the slot is already claimed.
	Acquire(ctx context.Context, userID int, ttl time.Duration) (bool, error)
}

type reminderService struct {
	reminderRepo ReminderRepository
	cooldown     ReminderCooldown
	enqueuer     TaskEnqueuer
	idleAfter    time.Duration
	cooldownTTL  time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewReminderService creates a new reminder service
func NewReminderService(
	reminderRepo ReminderRepository,
	cooldown ReminderCooldown,
	enqueuer TaskEnqueuer,
	idleAfter time.Duration,
	cooldownTTL time.Duration,
	logger *zap.Logger,
) *reminderService {
	return &reminderService{
		reminderRepo: reminderRepo,
		cooldown:     cooldown,
		enqueuer:     enqueuer,
		idleAfter:    idleAfter,
		cooldownTTL:  cooldownTTL,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// EnqueueReminders enqueues one reminder for every idle user outside the cooldown.
// Failures for a single user are logged and skipped.
// Returns the number of reminders enqueued.
func (s *reminderService) EnqueueReminders(ctx context.Context) (int, error) {
	targets, err := s.reminderRepo.ListReminderTargets(ctx, s.now().Add(-s.idleAfter))
	if err != nil {
		return 0, err
	}

	enqueued := 0
	for _, target := range targets {
		acquired, err := s.cooldown.Acquire(ctx, target.UserID, s.cooldownTTL)
		if err != nil {
			s.logger.Error("failed to check reminder cooldown", zap.Int("user_id", target.UserID), zap.Error(err))
			continue
		}
		if !acquired {
			s.logger.Debug("reminder skipped, cooldown active", zap.Int("user_id", target.UserID))
			continue
		}

		if err := s.enqueuer.EnqueueLessonReminder(ctx, target.UserID); err != nil {
			s.logger.Error("failed to enqueue lesson reminder", zap.Int("user_id", target.UserID), zap.Error(err))
			continue
		}
		enqueued++
	}

	s.logger.Info("lesson reminders enqueued",
		zap.Int("candidates", len(targets)),
		zap.Int("enqueued", enqueued),
	)
	return enqueued, nil
}

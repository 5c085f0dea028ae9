package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Notifier sends the e-mails behind each task type
type Notifier interface {
	// SendPurchaseConfirmation e-mails the buyer of a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the buyer.
	// "courseID" is the ID of the purchased course.
	//
	// Returns an error if the e-mail should be retried.
	SendPurchaseConfirmation(ctx context.Context, userID, courseID int) error
	// SendLessonReminder e-mails a user about their last unfinished lesson
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns an error if the e-mail should be retried.
	SendLessonReminder(ctx context.Context, userID int) error
}

// Worker processes background tasks
type Worker struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewWorker creates a new worker instance
func NewWorker(notifier Notifier, logger *zap.Logger) *Worker {
	return &Worker{notifier: notifier, logger: logger}
}

// Register attaches the task handlers to mux
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypePurchaseConfirmation, w.HandlePurchaseConfirmation)
	mux.HandleFunc(TypeLessonReminder, w.HandleLessonReminder)
}

// HandlePurchaseConfirmation handles TypePurchaseConfirmation tasks
func (w *Worker) HandlePurchaseConfirmation(ctx context.Context, t *asynq.Task) error {
	var payload PurchaseConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to parse payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := w.notifier.SendPurchaseConfirmation(ctx, payload.UserID, payload.CourseID); err != nil {
		w.logger.Error("purchase confirmation failed",
			zap.Int("user_id", payload.UserID),
			zap.Int("course_id", payload.CourseID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// HandleLessonReminder handles TypeLessonReminder tasks
func (w *Worker) HandleLessonReminder(ctx context.Context, t *asynq.Task) error {
	var payload LessonReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to parse payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := w.notifier.SendLessonReminder(ctx, payload.UserID); err != nil {
		w.logger.Error("lesson reminder failed", zap.Int("user_id", payload.UserID), zap.Error(err))
		return err
	}
	return nil
}

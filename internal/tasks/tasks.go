// Package tasks defines the background jobs of the platform and their asynq plumbing
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Task types
const (
	TypePurchaseConfirmation = "email:purchase_confirmation"
	TypeLessonReminder       = "email:lesson_reminder"
)

// Queues
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

// PurchaseConfirmationPayload is the payload of TypePurchaseConfirmation
type PurchaseConfirmationPayload struct {
	UserID   int `json:"user_id"`
	CourseID int `json:"course_id"`
}

// LessonReminderPayload is the payload of TypeLessonReminder
type LessonReminderPayload struct {
	UserID int `json:"user_id"`
}

// taskClient is the part of asynq.Client used for enqueueing
type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer schedules background jobs through asynq
type Enqueuer struct {
	client taskClient
}

// NewEnqueuer creates a new enqueuer on top of an asynq client
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueuePurchaseConfirmation schedules the purchase confirmation e-mail.
// The task ID is derived from the purchase so a repeated enqueue is rejected by asynq.
func (e *Enqueuer) EnqueuePurchaseConfirmation(ctx context.Context, userID, courseID int) error {
	task, err := newTask(TypePurchaseConfirmation, PurchaseConfirmationPayload{UserID: userID, CourseID: courseID})
	if err != nil {
		return err
	}

	_, err = e.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(10),
		asynq.TaskID(fmt.Sprintf("purchase-confirmation:%d:%d", userID, courseID)),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", TypePurchaseConfirmation, err)
	}
	return nil
}

// EnqueueLessonReminder schedules a lesson reminder e-mail
func (e *Enqueuer) EnqueueLessonReminder(ctx context.Context, userID int) error {
	task, err := newTask(TypeLessonReminder, LessonReminderPayload{UserID: userID})
	if err != nil {
		return err
	}

	_, err = e.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", TypeLessonReminder, err)
	}
	return nil
}

func newTask(taskType string, payload any) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data), nil
}

package services

import (
	"context"
	"fmt"

	"github.com/learncamera/backend/internal/apperrors"
	"github.com/learncamera/backend/internal/models"
	"go.uber.org/zap"
)

// PurchaseRepository defines methods for purchase data access
type PurchaseRepository interface {
	// Exists checks if the user has purchased the course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns a boolean and an error if any.
	Exists(ctx context.Context, userID, courseID int) (bool, error)
	// GetOrCreate records a purchase unless (user, course) already has one
	//
	// "ctx" is the context for the request.
	// "purchase" is the purchase to record. Its ID is set when a row is created.
	//
	// Returns whether a row was created and an error if any. An existing row is never modified.
	GetOrCreate(ctx context.Context, purchase *models.Purchase) (bool, error)
	// ListByUser lists the user's purchased courses
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns a list of purchased courses and an error if any.
	ListByUser(ctx context.Context, userID int) ([]models.PurchasedCourse, error)
}

// TaskEnqueuer defines methods for scheduling background jobs
type TaskEnqueuer interface {
	// EnqueuePurchaseConfirmation schedules the purchase confirmation e-mail
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the buyer.
	// "courseID" is the ID of the purchased course.
	//
	// Returns an error if the task could not be enqueued.
	EnqueuePurchaseConfirmation(ctx context.Context, userID, courseID int) error
	// EnqueueLessonReminder schedules a lesson reminder e-mail
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user to remind.
	//
	// Returns an error if the task could not be enqueued.
	EnqueueLessonReminder(ctx context.Context, userID int) error
}

type purchaseService struct {
	courseRepo   CourseRepository
	purchaseRepo PurchaseRepository
	enqueuer     TaskEnqueuer
	logger       *zap.Logger
}

// NewPurchaseService creates a new purchase service.
// It is the purchase ledger and the access gate for gated lessons.
func NewPurchaseService(
	courseRepo CourseRepository,
	purchaseRepo PurchaseRepository,
	enqueuer TaskEnqueuer,
	logger *zap.Logger,
) *purchaseService {
	return &purchaseService{
		courseRepo:   courseRepo,
		purchaseRepo: purchaseRepo,
		enqueuer:     enqueuer,
		logger:       logger,
	}
}

// HasAccess reports whether the user holds a purchase of the course
func (s *purchaseService) HasAccess(ctx context.Context, userID, courseID int) (bool, error) {
	return s.purchaseRepo.Exists(ctx, userID, courseID)
}

// CourseAccess reports whether the user holds a purchase of the course identified by slug
func (s *purchaseService) CourseAccess(ctx context.Context, userID int, courseSlug string) (*models.CourseAccess, error) {
	course, err := s.courseRepo.GetBySlug(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	hasAccess, err := s.HasAccess(ctx, userID, course.ID)
	if err != nil {
		return nil, err
	}

	return &models.CourseAccess{CourseSlug: course.Slug, HasAccess: hasAccess}, nil
}

// CheckLessonAccess allows free preview lessons to anyone and other lessons to buyers of the course.
// "userID" is nil for anonymous callers.
func (s *purchaseService) CheckLessonAccess(ctx context.Context, userID *int, location *models.LessonLocation) error {
	if location.Lesson.IsFreePreview {
		return nil
	}

	if userID == nil {
		return apperrors.Unauthenticated("authentication required")
	}

	hasAccess, err := s.HasAccess(ctx, *userID, location.CourseID)
	if err != nil {
		return err
	}
	if !hasAccess {
		return apperrors.Forbidden("purchase required")
	}

	return nil
}

// RecordPurchase records a completed checkout. Recording the same (user, course) twice
// keeps the first row and its provider references.
// A confirmation e-mail is enqueued only for a newly recorded purchase.
func (s *purchaseService) RecordPurchase(ctx context.Context, checkout *models.CompletedCheckout) (bool, error) {
	if _, err := s.courseRepo.GetByID(ctx, checkout.CourseID); err != nil {
		return false, err
	}

	purchase := &models.Purchase{
		UserID:                checkout.UserID,
		CourseID:              checkout.CourseID,
		StripeSessionID:       checkout.SessionID,
		StripePaymentIntentID: checkout.PaymentIntentID,
	}

	created, err := s.purchaseRepo.GetOrCreate(ctx, purchase)
	if err != nil {
		return false, fmt.Errorf("failed to record purchase: %w", err)
	}

	if !created {
		s.logger.Info("purchase already recorded",
			zap.Int("user_id", checkout.UserID),
			zap.Int("course_id", checkout.CourseID),
			zap.String("session_id", checkout.SessionID),
		)
		return false, nil
	}

	s.logger.Info("purchase recorded",
		zap.Int("purchase_id", purchase.ID),
		zap.Int("user_id", checkout.UserID),
		zap.Int("course_id", checkout.CourseID),
	)

	// The purchase stands even if the e-mail cannot be scheduled
	if err := s.enqueuer.EnqueuePurchaseConfirmation(ctx, checkout.UserID, checkout.CourseID); err != nil {
		s.logger.Error("failed to enqueue purchase confirmation",
			zap.Int("user_id", checkout.UserID),
			zap.Int("course_id", checkout.CourseID),
			zap.Error(err),
		)
	}

	return true, nil
}

// ListPurchases lists the courses the user has bought
func (s *purchaseService) ListPurchases(ctx context.Context, userID int) ([]models.PurchasedCourse, error) {
	return s.purchaseRepo.ListByUser(ctx, userID)
}

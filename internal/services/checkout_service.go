package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/learncamera/backend/internal/apperrors"
	"github.com/learncamera/backend/internal/models"
	"go.uber.org/zap"
)

// ErrInvalidWebhook is returned by a PaymentProvider for payloads that fail verification
var ErrInvalidWebhook = errors.New("invalid webhook payload or signature")

// PaymentProvider defines the operations of the external payment provider
type PaymentProvider interface {
	// CreateCheckoutSession opens a hosted checkout for one course
	//
	// "ctx" is the context for the request.
	// "params" describes the buyer, the course and the redirect URLs.
	//
	// Returns the session id and URL and an error if any.
	CreateCheckoutSession(ctx context.Context, params models.CheckoutSessionParams) (*models.CheckoutResponse, error)
	// ParseCompletedCheckout verifies a webhook delivery and extracts a paid checkout from it
	//
	// "payload" is the raw request body.
	// "signature" is the provider's signature header.
	//
	// Returns nil without error for events that do not record a purchase.
	// Verification failures wrap ErrInvalidWebhook.
	ParseCompletedCheckout(payload []byte, signature string) (*models.CompletedCheckout, error)
}

// PurchaseRecorder records completed checkouts
type PurchaseRecorder interface {
	// RecordPurchase records a purchase idempotently
	//
	// "ctx" is the context for the request.
	// "checkout" is the verified checkout.
	//
	// Returns whether a new purchase was recorded and an error if any.
	RecordPurchase(ctx context.Context, checkout *models.CompletedCheckout) (bool, error)
}

type checkoutService struct {
	courseRepo   CourseRepository
	purchaseRepo PurchaseRepository
	userRepo     UserRepository
	provider     PaymentProvider
	recorder     PurchaseRecorder
	frontendURL  string
	currency     string
	logger       *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	courseRepo CourseRepository,
	purchaseRepo PurchaseRepository,
	userRepo UserRepository,
	provider PaymentProvider,
	recorder PurchaseRecorder,
	frontendURL string,
	currency string,
	logger *zap.Logger,
) *checkoutService {
	return &checkoutService{
		courseRepo:   courseRepo,
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		provider:     provider,
		recorder:     recorder,
		frontendURL:  frontendURL,
		currency:     currency,
		logger:       logger,
	}
}

// CreateCheckoutSession starts a payment for a course the user does not own yet
func (s *checkoutService) CreateCheckoutSession(ctx context.Context, userID int, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetBySlug(ctx, req.CourseSlug)
	if err != nil {
		return nil, err
	}

	if course.StripePriceID == "" && course.PriceCents <= 0 {
		return nil, apperrors.Validation("course is not for sale")
	}

	owned, err := s.purchaseRepo.Exists(ctx, userID, course.ID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, apperrors.Conflict("course already purchased")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, apperrors.Unauthenticated("user not found")
		}
		return nil, err
	}

	slug := url.QueryEscape(course.Slug)
	params := models.CheckoutSessionParams{
		UserID:        userID,
		CustomerEmail: user.Email,
		CourseID:      course.ID,
		CourseTitle:   course.Title,
		PriceID:       course.StripePriceID,
		UnitAmount:    course.PriceCents,
		Currency:      s.currency,
		SuccessURL:    s.frontendURL + "/success?course=" + slug + "&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.frontendURL + "/cancel?course=" + slug,
	}

	session, err := s.provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		s.logger.Error("failed to create checkout session",
			zap.Int("user_id", userID),
			zap.String("course_slug", course.Slug),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return session, nil
}

// HandleWebhook verifies a provider event and records the purchase it carries.
// Events that carry no purchase are acknowledged without effect.
// Returns whether a new purchase was recorded.
func (s *checkoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) (bool, error) {
	checkout, err := s.provider.ParseCompletedCheckout(payload, signature)
	if err != nil {
		if errors.Is(err, ErrInvalidWebhook) {
			return false, apperrors.Validation("invalid payload or signature")
		}
		return false, err
	}
	if checkout == nil {
		return false, nil
	}

	created, err := s.recorder.RecordPurchase(ctx, checkout)
	if apperrors.Is(err, apperrors.KindNotFound) {
		// Course removed after checkout; retrying the delivery cannot succeed
		s.logger.Warn("webhook for unknown course ignored",
			zap.Int("course_id", checkout.CourseID),
			zap.String("session_id", checkout.SessionID),
		)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return created, nil
}

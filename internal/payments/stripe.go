// Package payments integrates the Stripe hosted checkout
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/learncamera/backend/internal/models"
	"github.com/learncamera/backend/internal/services"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const (
	eventCheckoutSessionCompleted = "checkout.session.completed"

	metadataUserID   = "user_id"
	metadataCourseID = "course_id"
)

// sessionCreator is the part of the Stripe client used to open checkout sessions
type sessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeProvider opens Stripe checkout sessions and verifies Stripe webhooks
type StripeProvider struct {
	sessions      sessionCreator
	webhookSecret string
	logger        *zap.Logger
}

// NewStripeProvider creates a provider for the given API key and webhook signing secret
func NewStripeProvider(secretKey, webhookSecret string, logger *zap.Logger) *StripeProvider {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &StripeProvider{
		sessions:      sc.CheckoutSessions,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// CreateCheckoutSession opens a payment-mode checkout session for one course
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params models.CheckoutSessionParams) (*models.CheckoutResponse, error) {
	stripeParams := buildSessionParams(params)
	stripeParams.Context = ctx

	session, err := p.sessions.New(stripeParams)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}

	p.logger.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.Int("user_id", params.UserID),
		zap.Int("course_id", params.CourseID),
	)

	return &models.CheckoutResponse{ID: session.ID, URL: session.URL}, nil
}

// ParseCompletedCheckout verifies the Stripe-Signature header and extracts a paid checkout.
// Other event types, unpaid sessions and sessions without purchase metadata yield nil.
func (p *StripeProvider) ParseCompletedCheckout(payload []byte, signature string) (*models.CompletedCheckout, error) {
	if p.webhookSecret == "" {
		return nil, errors.New("stripe webhook secret is not configured")
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrInvalidWebhook, err)
	}

	if event.Type != eventCheckoutSessionCompleted {
		p.logger.Debug("webhook event ignored", zap.String("event_type", string(event.Type)))
		return nil, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrInvalidWebhook, err)
	}

	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid &&
		session.PaymentStatus != stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
		p.logger.Info("unpaid checkout session ignored",
			zap.String("session_id", session.ID),
			zap.String("payment_status", string(session.PaymentStatus)),
		)
		return nil, nil
	}

	userID, errUser := strconv.Atoi(session.Metadata[metadataUserID])
	courseID, errCourse := strconv.Atoi(session.Metadata[metadataCourseID])
	if errUser != nil || errCourse != nil {
		p.logger.Warn("checkout session without purchase metadata ignored", zap.String("session_id", session.ID))
		return nil, nil
	}

	checkout := &models.CompletedCheckout{
		SessionID: session.ID,
		UserID:    userID,
		CourseID:  courseID,
	}
	if session.PaymentIntent != nil {
		checkout.PaymentIntentID = session.PaymentIntent.ID
	}

	return checkout, nil
}

func buildSessionParams(params models.CheckoutSessionParams) *stripe.CheckoutSessionParams {
	lineItem := &stripe.CheckoutSessionLineItemParams{
		Quantity: stripe.Int64(1),
	}
	if params.PriceID != "" {
		lineItem.Price = stripe.String(params.PriceID)
	} else {
		lineItem.PriceData = &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(params.Currency),
			UnitAmount: stripe.Int64(params.UnitAmount),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(params.CourseTitle),
			},
		}
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:         []*stripe.CheckoutSessionLineItemParams{lineItem},
		SuccessURL:        stripe.String(params.SuccessURL),
		CancelURL:         stripe.String(params.CancelURL),
		ClientReferenceID: stripe.String(strconv.Itoa(params.UserID)),
	}
	if params.CustomerEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	sessionParams.AddMetadata(metadataUserID, strconv.Itoa(params.UserID))
	sessionParams.AddMetadata(metadataCourseID, strconv.Itoa(params.CourseID))

	return sessionParams
}

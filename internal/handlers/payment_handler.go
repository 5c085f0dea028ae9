package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learncamera/backend/internal/models"
	"go.uber.org/zap"
)

// maxWebhookPayload bounds the webhook body read into memory
const maxWebhookPayload = 65536

// CheckoutService is the interface that wraps methods for paying for courses
type CheckoutService interface {
	// CreateCheckoutSession opens a hosted checkout for a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the buyer.
	// "req" names the course.
	//
	// Returns the checkout session and an error if any.
	CreateCheckoutSession(ctx context.Context, userID int, req *models.CheckoutRequest) (*models.CheckoutResponse, error)
	// HandleWebhook verifies a payment provider event and records the purchase it carries
	//
	// "ctx" is the context for the request.
	// "payload" is the raw request body.
	// "signature" is the provider signature header.
	//
	// Returns whether a new purchase was recorded and an error if any.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (bool, error)
}

// PurchaseLister is the interface that wraps listing a user's purchases
type PurchaseLister interface {
	// ListPurchases lists the courses the user has bought
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns a list of purchased courses and an error if any.
	ListPurchases(ctx context.Context, userID int) ([]models.PurchasedCourse, error)
}

// PaymentHandler handles HTTP requests for checkout and purchases
type PaymentHandler struct {
	BaseHandler
	service        CheckoutService
	purchaseLister PurchaseLister
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(svc CheckoutService, purchaseLister PurchaseLister, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:        svc,
		purchaseLister: purchaseLister,
		BaseHandler:    BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all payment handler routes
func (h *PaymentHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/payments", func(r chi.Router) {
		r.Post("/webhook", h.Webhook)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/create-checkout-session", h.CreateCheckoutSession)
			r.Get("/purchases", h.ListPurchases)
		})
	})
}

// CreateCheckoutSession handles POST /payments/create-checkout-session
// @Summary Create checkout session
// @Description Open a Stripe checkout session for a course the user has not bought
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CheckoutRequest true "Course to buy"
// @Success 200 {object} models.CheckoutResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /payments/create-checkout-session [post]
func (h *PaymentHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	session, err := h.service.CreateCheckoutSession(r.Context(), userID, &req)
	if err != nil {
		h.RespondAppError(w, err, "failed to create checkout session")
		return
	}

	h.RespondJSON(w, http.StatusOK, session)
}

// Webhook handles POST /payments/webhook
// @Summary Stripe webhook
// @Description Receive Stripe events. A paid checkout.session.completed records the purchase; other events are acknowledged.
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /payments/webhook [post]
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookPayload))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	created, err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.RespondAppError(w, err, "failed to handle webhook")
		return
	}

	status := "ignored"
	if created {
		status = "recorded"
	}
	h.RespondJSON(w, http.StatusOK, models.StatusResponse{Status: status})
}

// ListPurchases handles GET /payments/purchases
// @Summary List purchases
// @Description Get the courses bought by the current user
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.PurchasedCourse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /payments/purchases [get]
func (h *PaymentHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	purchases, err := h.purchaseLister.ListPurchases(r.Context(), userID)
	if err != nil {
		h.RespondAppError(w, err, "failed to list purchases")
		return
	}

	h.RespondJSON(w, http.StatusOK, purchases)
}

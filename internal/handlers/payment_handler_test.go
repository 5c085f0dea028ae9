package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/learncamera/backend/internal/apperrors"
	"github.com/learncamera/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPaymentRouter(svc *mockCheckoutService, lister *mockPurchaseLister) *chi.Mux {
	r := chi.NewRouter()
	NewPaymentHandler(svc, lister, zap.NewNop()).RegisterRoutes(r, withUserID(3, int(models.RoleUser)))
	return r
}

func TestPaymentHandler_CreateCheckoutSession(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		svc            *mockCheckoutService
		expectedStatus int
		expectedDetail string
	}{
		{
			name:           "success",
			body:           `{"course_slug":"photography-101"}`,
			svc:            &mockCheckoutService{response: &models.CheckoutResponse{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/cs_test_1"}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed body",
			body:           `{"course_slug":`,
			svc:            &mockCheckoutService{},
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "invalid request body",
		},
		{
			name:           "already purchased",
			body:           `{"course_slug":"photography-101"}`,
			svc:            &mockCheckoutService{err: apperrors.Conflict("course already purchased")},
			expectedStatus: http.StatusConflict,
			expectedDetail: "course already purchased",
		},
		{
			name:           "provider failure",
			body:           `{"course_slug":"photography-101"}`,
			svc:            &mockCheckoutService{err: errors.New("stripe unavailable")},
			expectedStatus: http.StatusInternalServerError,
			expectedDetail: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/payments/create-checkout-session", strings.NewReader(tt.body))
			newPaymentRouter(tt.svc, &mockPurchaseLister{}).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedDetail != "" {
				assert.Equal(t, tt.expectedDetail, decodeDetail(t, rec))
				return
			}
			var resp models.CheckoutResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "cs_test_1", resp.ID)
			require.NotNil(t, tt.svc.request)
			assert.Equal(t, "photography-101", tt.svc.request.CourseSlug)
		})
	}
}

func TestPaymentHandler_Webhook(t *testing.T) {
	tests := []struct {
		name           string
		svc            *mockCheckoutService
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "new purchase",
			svc:            &mockCheckoutService{created: true},
			expectedStatus: http.StatusOK,
			expectedBody:   "recorded",
		},
		{
			name:           "ignored event",
			svc:            &mockCheckoutService{},
			expectedStatus: http.StatusOK,
			expectedBody:   "ignored",
		},
		{
			name:           "bad signature",
			svc:            &mockCheckoutService{err: apperrors.Validation("invalid payload or signature")},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(`{"type":"checkout.session.completed"}`))
			req.Header.Set("Stripe-Signature", "t=1,v1=abc")
			newPaymentRouter(tt.svc, &mockPurchaseLister{}).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "t=1,v1=abc", tt.svc.signature)
			assert.JSONEq(t, `{"type":"checkout.session.completed"}`, string(tt.svc.payload))
			if tt.expectedBody != "" {
				var status models.StatusResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
				assert.Equal(t, tt.expectedBody, status.Status)
			}
		})
	}
}

func TestPaymentHandler_Webhook_PayloadTooLarge(t *testing.T) {
	svc := &mockCheckoutService{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(strings.Repeat("a", maxWebhookPayload+1)))
	newPaymentRouter(svc, &mockPurchaseLister{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.payload)
}

func TestPaymentHandler_ListPurchases(t *testing.T) {
	purchasedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	lister := &mockPurchaseLister{purchases: []models.PurchasedCourse{
		{CourseID: 1, CourseSlug: "photography-101", CourseTitle: "Photography 101", PurchasedAt: purchasedAt},
	}}
	rec := httptest.NewRecorder()
	newPaymentRouter(&mockCheckoutService{}, lister).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payments/purchases", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var purchases []models.PurchasedCourse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &purchases))
	require.Len(t, purchases, 1)
	assert.Equal(t, "photography-101", purchases[0].CourseSlug)
	assert.True(t, purchasedAt.Equal(purchases[0].PurchasedAt))
}

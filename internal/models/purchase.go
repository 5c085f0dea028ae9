package models

import "time"

// Purchase grants a user access to a course
type Purchase struct {
	ID                    int       `json:"id"`
	UserID                int       `json:"user_id"`
	CourseID              int       `json:"course_id"`
	StripeSessionID       string    `json:"stripe_session_id"`
	StripePaymentIntentID string    `json:"stripe_payment_intent_id"`
	PurchasedAt           time.Time `json:"purchased_at"`
}

// PurchasedCourse is an entry of a user's purchase list
type PurchasedCourse struct {
	CourseID    int       `json:"course_id"`
	CourseSlug  string    `json:"course_slug"`
	CourseTitle string    `json:"course_title"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// CourseAccess reports whether a user may view gated lessons of a course
type CourseAccess struct {
	CourseSlug string `json:"course_slug"`
	HasAccess  bool   `json:"has_access"`
}

// CheckoutRequest represents a request to start paying for a course
type CheckoutRequest struct {
	CourseSlug string `json:"course_slug" validate:"required,max=255"`
}

// CheckoutResponse carries the provider's checkout session
type CheckoutResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CompletedCheckout is a verified, paid checkout reported by the payment provider
type CompletedCheckout struct {
	SessionID       string
	PaymentIntentID string
	UserID          int
	CourseID        int
}

// CheckoutSessionParams describes a checkout session to open with the payment provider.
// PriceID takes precedence over an inline UnitAmount price.
type CheckoutSessionParams struct {
	UserID        int
	CustomerEmail string
	CourseID      int
	CourseTitle   string
	PriceID       string
	UnitAmount    int64
	Currency      string
	SuccessURL    string
	CancelURL     string
}

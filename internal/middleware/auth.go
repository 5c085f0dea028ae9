package middleware

import (
	"context"
	"net/http"
	"strings"
)

// TokenValidator validates access tokens.
// It is satisfied by *auth.TokenGenerator.
type TokenValidator interface {
	// ValidateAccessToken returns the user id and role carried by a valid access token.
	// "token" is the raw token string.
	//
	// If the token is malformed, expired or of the wrong type, an error is returned.
	ValidateAccessToken(token string) (int, int, error)
}

// AuthMiddleware validates the JWT access token and stores userID and role in the context.
// Requests without a valid token are rejected with 401.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeDetail(w, http.StatusUnauthorized, "authentication required")
				return
			}

			userID, role, err := validator.ValidateAccessToken(token)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID, role)))
		})
	}
}

// OptionalAuthMiddleware attaches the caller's identity when a valid token is present.
// Anonymous requests, and requests with an invalid token, pass through unauthenticated.
func OptionalAuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := tokenFromRequest(r); token != "" {
				if userID, role, err := validator.ValidateAccessToken(token); err == nil {
					r = r.WithContext(withUser(r.Context(), userID, role))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RoleMiddleware validates the JWT access token and checks that the user's role is >= requiredRole
func RoleMiddleware(validator TokenValidator, requiredRole int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeDetail(w, http.StatusUnauthorized, "authentication required")
				return
			}

			userID, role, err := validator.ValidateAccessToken(token)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if role < requiredRole {
				writeDetail(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID, role)))
		})
	}
}

// GetUserID retrieves the user ID from context
func GetUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}

// GetRole retrieves the user role from context
func GetRole(ctx context.Context) (int, bool) {
	role, ok := ctx.Value(roleKey).(int)
	return role, ok
}

// WithUser returns a copy of ctx carrying the given identity
func WithUser(ctx context.Context, userID, role int) context.Context {
	return withUser(ctx, userID, role)
}

func withUser(ctx context.Context, userID, role int) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// tokenFromRequest reads a bearer token from the Authorization header, falling back to the access_token cookie
func tokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// mockValidator is a mock implementation of TokenValidator
type mockValidator struct {
	userID int
	role   int
	err    error
	token  string
}

func (m *mockValidator) ValidateAccessToken(token string) (int, int, error) {
	m.token = token
	return m.userID, m.role, m.err
}

func identityHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		role, _ := GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(strings.Repeat("u", userID) + strings.Repeat("r", role)))
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		cookie         string
		validator      *mockValidator
		expectedStatus int
		expectedToken  string
	}{
		{
			name:           "bearer token",
			header:         "Bearer abc",
			validator:      &mockValidator{userID: 2, role: 1},
			expectedStatus: http.StatusOK,
			expectedToken:  "abc",
		},
		{
			name:           "lower-case scheme",
			header:         "bearer abc",
			validator:      &mockValidator{userID: 2, role: 1},
			expectedStatus: http.StatusOK,
			expectedToken:  "abc",
		},
		{
			name:           "cookie fallback",
			cookie:         "from-cookie",
			validator:      &mockValidator{userID: 2, role: 1},
			expectedStatus: http.StatusOK,
			expectedToken:  "from-cookie",
		},
		{
			name:           "missing token",
			validator:      &mockValidator{},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			header:         "Token abc",
			validator:      &mockValidator{},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			header:         "Bearer abc",
			validator:      &mockValidator{err: errors.New("expired")},
			expectedStatus: http.StatusUnauthorized,
			expectedToken:  "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()

			AuthMiddleware(tt.validator)(identityHandler(t)).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedToken, tt.validator.token)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "uur", w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"detail"`)
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	t.Run("anonymous passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		OptionalAuthMiddleware(&mockValidator{})(identityHandler(t)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("invalid token passes through anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()

		OptionalAuthMiddleware(&mockValidator{err: errors.New("bad")})(identityHandler(t)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()

		OptionalAuthMiddleware(&mockValidator{userID: 3, role: 2})(identityHandler(t)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "uuurr", w.Body.String())
	})
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		validator      *mockValidator
		expectedStatus int
	}{
		{"sufficient role", "Bearer t", &mockValidator{userID: 1, role: 2}, http.StatusOK},
		{"insufficient role", "Bearer t", &mockValidator{userID: 1, role: 1}, http.StatusForbidden},
		{"no token", "", &mockValidator{}, http.StatusUnauthorized},
		{"invalid token", "Bearer t", &mockValidator{err: errors.New("bad")}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			RoleMiddleware(tt.validator, 2)(identityHandler(t)).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "req-42", seen)
		assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	})

	t.Run("replaces malformed id", func(t *testing.T) {
		for _, incoming := range []string{"has space", "line\nbreak", strings.Repeat("x", 65)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", incoming)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.NotEqual(t, incoming, seen)
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
		}
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	handler := RecoveryMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"internal server error"}`, w.Body.String())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "panic recovered", logs.All()[0].Message)
}

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := RequestIDMiddleware(LoggerMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/courses", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/api/courses", fields["path"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	handler := RequestSizeLimitMiddleware(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("small body", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}")))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("large body", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64))))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"https://learn.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://learn.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "https://learn.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://learn.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://learn.example", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBearerAuth(t *testing.T) {
	const secret = "secret-token"

	testCases := []struct {
		name               string
		authHeader         string // Authorization header to simulate the request
		expectedStatusCode int
		shouldCallNext     bool // Whether the next handler should be called
	}{
		{
			name:               "Success - valid bearer token",
			authHeader:         "Bearer secret-token",
			expectedStatusCode: http.StatusOK,
			shouldCallNext:     true,
		},
		{
			name:               "Failure - no auth header",
			authHeader:         "",
			expectedStatusCode: http.StatusUnauthorized,
			shouldCallNext:     false,
		},
		{
			name:               "Failure - not a bearer token",
			authHeader:         "Basic secret-token",
			expectedStatusCode: http.StatusUnauthorized,
			shouldCallNext:     false,
		},
		{
			name:               "Failure - wrong token",
			authHeader:         "Bearer other-token",
			expectedStatusCode: http.StatusUnauthorized,
			shouldCallNext:     false,
		},
		{
			name:               "Failure - empty bearer token",
			authHeader:         "Bearer ",
			expectedStatusCode: http.StatusUnauthorized,
			shouldCallNext:     false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			authMiddleware := BearerAuth(secret, discardLogger())

			// nextHandlerCalled - a flag to check if the next handler was called
			nextHandlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextHandlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			testHandler := authMiddleware(nextHandler)

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()
			testHandler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.shouldCallNext, nextHandlerCalled)
			if !tc.shouldCallNext {
				assert.JSONEq(t, `{"error":"Invalid or missing authentication token"}`, rr.Body.String())
			}
		})
	}
}

func TestRecoverer(t *testing.T) {
	// given a handler that panics
	panicking := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	})
	testHandler := Recoverer(discardLogger())(panicking)

	// when
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	testHandler.ServeHTTP(rr, req)

	// then the panic is downgraded to a generic 500
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rr.Body.String())
}

func TestRequestIDInjector(t *testing.T) {
	var gotID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	testHandler := RequestIDInjector(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	testHandler.ServeHTTP(rr, req)

	assert.NotEmpty(t, gotID, "a request id must be generated when none is present")
}

package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/premium-blog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/premium-blog/internal/lib/jwt"
	"github.com/magabrotheeeer/premium-blog/internal/metrics"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*jwt.CustomClaims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJWTMiddleware(t *testing.T) {
	claims := &jwt.CustomClaims{UserUID: "uid-1", Phone: "+79001234567", Role: "user"}

	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(m *AuthServiceMock)
		optional       bool
		wantStatusCode int
		wantUser       string
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good",
			setupMock: func(m *AuthServiceMock) {
				m.On("ValidateToken", mock.Anything, "good").Return(claims, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantUser:       "uid-1",
		},
		{
			name:           "missing header",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic abc",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad",
			setupMock: func(m *AuthServiceMock) {
				m.On("ValidateToken", mock.Anything, "bad").Return(nil, errors.New("expired")).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "optional without header is anonymous",
			optional:       true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:       "optional with invalid token",
			authHeader: "Bearer bad",
			optional:   true,
			setupMock: func(m *AuthServiceMock) {
				m.On("ValidateToken", mock.Anything, "bad").Return(nil, errors.New("expired")).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(authMock)
			}
			var gotUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = middlewarectx.UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			mw := middlewarectx.JWTMiddleware(authMock, newNoopLogger())
			if tt.optional {
				mw = middlewarectx.OptionalJWTMiddleware(authMock, newNoopLogger())
			}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			mw(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			assert.Equal(t, tt.wantUser, gotUser)
			authMock.AssertExpectations(t)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := middlewarectx.NewIPRateLimiter(0.001, 2)
	h := middlewarectx.RateLimitMiddleware(limiter, newNoopLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/register", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1000"), "other clients have their own budget")
}

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.MustNew(reg)

	r := chi.NewRouter()
	r.Use(middlewarectx.MetricsMiddleware(m))
	r.Get("/api/v1/posts/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/posts/"+id, nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	expected := `
# HELP premium_blog_http_requests_total HTTP requests by route pattern, method and status.
# TYPE premium_blog_http_requests_total counter
premium_blog_http_requests_total{method="GET",route="/api/v1/posts/{id}",status="404"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "premium_blog_http_requests_total"))
}

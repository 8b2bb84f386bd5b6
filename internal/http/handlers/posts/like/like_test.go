package like

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/magabrotheeeer/premium-blog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/premium-blog/internal/lib/jwt"
	"github.com/magabrotheeeer/premium-blog/internal/services/posts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Like(ctx context.Context, userUID string, id int64) (int64, error) {
	args := m.Called(ctx, userUID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockService) Unlike(ctx context.Context, userUID string, id int64) (int64, error) {
	args := m.Called(ctx, userUID, id)
	return args.Get(0).(int64), args.Error(1)
}

func TestLikeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		method         string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "поставить лайк",
			method: http.MethodPost,
			setupMock: func(m *MockService) {
				m.On("Like", mock.Anything, "u-1", int64(5)).Return(int64(3), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"like_count":3`,
		},
		{
			name:   "снять лайк",
			method: http.MethodDelete,
			setupMock: func(m *MockService) {
				m.On("Unlike", mock.Anything, "u-1", int64(5)).Return(int64(2), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"like_count":2`,
		},
		{
			name:   "пост не найден",
			method: http.MethodPost,
			setupMock: func(m *MockService) {
				m.On("Like", mock.Anything, "u-1", int64(5)).Return(int64(0), posts.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"post not found"`,
		},
		{
			name:           "неподдерживаемый метод",
			method:         http.MethodPut,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusMethodNotAllowed,
			expectedBody:   `"method not allowed"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(tt.method, "/api/v1/posts/5/like", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "5")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithUser(ctx, &jwt.CustomClaims{UserUID: "u-1"}))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

package remove

import (
	"context"
	"errors"
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

// MockService реализует интерфейс remove.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, actorUID string, id int64) error {
	return m.Called(ctx, actorUID, id).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное удаление",
			id:   "10",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "u-1", int64(10)).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "нет прав",
			id:   "11",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "u-1", int64(11)).Return(posts.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"not allowed to delete this post"`,
		},
		{
			name: "пост не найден",
			id:   "12",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "u-1", int64(12)).Return(posts.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"post not found"`,
		},
		{
			name: "ошибка сервиса",
			id:   "13",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "u-1", int64(13)).Return(errors.New("db"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not delete post"`,
		},
		{
			name:           "некорректный id",
			id:             "x",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"failed to decode id from url"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/posts/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithUser(ctx, &jwt.CustomClaims{UserUID: "u-1"}))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			} else {
				assert.Empty(t, w.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

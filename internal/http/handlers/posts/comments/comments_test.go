package comments

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/magabrotheeeer/premium-blog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/premium-blog/internal/lib/jwt"
	"github.com/magabrotheeeer/premium-blog/internal/models"
	"github.com/magabrotheeeer/premium-blog/internal/services/posts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Comment(ctx context.Context, userUID string, id int64, text string) (*models.Comment, error) {
	args := m.Called(ctx, userUID, id, text)
	if c := args.Get(0); c != nil {
		return c.(*models.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Comments(ctx context.Context, id int64) ([]*models.Comment, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.([]*models.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

func withPost(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(middlewarectx.WithUser(ctx, &jwt.CustomClaims{UserUID: "u-1"}))
}

func TestCommentsHandler_List(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := new(MockService)
	svc.On("Comments", mock.Anything, int64(1)).Return([]*models.Comment{{ID: 1, PostID: 1, Text: "nice"}}, nil)
	svc.On("Comments", mock.Anything, int64(2)).Return(nil, posts.ErrNotFound)
	h := New(logger, svc)

	w := httptest.NewRecorder()
	h.List(w, withPost(httptest.NewRequest(http.MethodGet, "/api/v1/posts/1/comments", nil), "1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"text":"nice"`)

	w = httptest.NewRecorder()
	h.List(w, withPost(httptest.NewRequest(http.MethodGet, "/api/v1/posts/2/comments", nil), "2"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}

func TestCommentsHandler_Create(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "комментарий добавлен",
			body: `{"text":"спасибо"}`,
			setupMock: func(m *MockService) {
				m.On("Comment", mock.Anything, "u-1", int64(1), "спасибо").Return(&models.Comment{ID: 9, UserUID: "u-1", PostID: 1, Text: "спасибо"}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":9`,
		},
		{
			name:           "пустой текст",
			body:           `{"text":""}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Text is a required field`,
		},
		{
			name: "текст из пробелов",
			body: `{"text":"   "}`,
			setupMock: func(m *MockService) {
				m.On("Comment", mock.Anything, "u-1", int64(1), "   ").Return(nil, posts.ErrEmptyComment)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   posts.ErrEmptyComment.Error(),
		},
		{
			name: "пост не найден",
			body: `{"text":"hi"}`,
			setupMock: func(m *MockService) {
				m.On("Comment", mock.Anything, "u-1", int64(1), "hi").Return(nil, posts.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"post not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := withPost(httptest.NewRequest(http.MethodPost, "/api/v1/posts/1/comments", bytes.NewBufferString(tt.body)), "1")
			w := httptest.NewRecorder()
			New(logger, svc).Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

package create

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

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

func (m *MockService) Create(ctx context.Context, authorUID string, in models.PostInput) (*models.Post, error) {
	args := m.Called(ctx, authorUID, in)
	if p := args.Get(0); p != nil {
		return p.(*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное создание",
			body: `{"title":"Go","description":"text","premium":true,"price":500}`,
			setupMock: func(m *MockService) {
				in := models.PostInput{Title: "Go", Description: "text", Premium: true, Price: 500}
				m.On("Create", mock.Anything, "author-1", in).Return(&models.Post{ID: 1, Title: "Go", AuthorUID: "author-1", Premium: true}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"author_uid":"author-1"`,
		},
		{
			name:           "битый json",
			body:           `{"title":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name:           "нет заголовка",
			body:           `{"description":"text"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Title is a required field`,
		},
		{
			name: "запрещённое слово",
			body: `{"title":"bad"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "author-1", models.PostInput{Title: "bad"}).Return(nil, posts.ErrForbiddenWord)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   posts.ErrForbiddenWord.Error(),
		},
		{
			name: "ошибка сервиса",
			body: `{"title":"ok"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "author-1", models.PostInput{Title: "ok"}).Return(nil, errors.New("db"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not create post"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", bytes.NewBufferString(tt.body))
			req = req.WithContext(middlewarectx.WithUser(req.Context(), &jwt.CustomClaims{UserUID: "author-1"}))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

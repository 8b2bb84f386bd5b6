package cabinet

import (
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
	"github.com/magabrotheeeer/premium-blog/internal/services/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Cabinet(ctx context.Context, userUID string) (*subscription.Cabinet, error) {
	args := m.Called(ctx, userUID)
	if c := args.Get(0); c != nil {
		return c.(*subscription.Cabinet), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCabinetHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		uid            string
		result         *subscription.Cabinet
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "кабинет с активной подпиской",
			uid:  "u-1",
			result: &subscription.Cabinet{
				User:     &models.User{UID: "u-1", PhoneNumber: "+79990000001"},
				Active:   true,
				Payments: []*models.Payment{{ID: 3, Status: models.PaymentFulfilled}},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"subscription_active":true`,
		},
		{
			name:           "пользователь удалён",
			uid:            "u-2",
			err:            subscription.ErrUserNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"user not found"`,
		},
		{
			name:           "ошибка хранилища",
			uid:            "u-3",
			err:            errors.New("db"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not load cabinet"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			var res any
			if tt.result != nil {
				res = tt.result
			}
			svc.On("Cabinet", mock.Anything, tt.uid).Return(res, tt.err)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			req = req.WithContext(middlewarectx.WithUser(req.Context(), &jwt.CustomClaims{UserUID: tt.uid}))
			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

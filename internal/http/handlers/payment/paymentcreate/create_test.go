package paymentcreate

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
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

func (m *MockService) Checkout(ctx context.Context, userUID, idempotencyKey string) (*models.Payment, error) {
	args := m.Called(ctx, userUID, idempotencyKey)
	if p := args.Get(0); p != nil {
		return p.(*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(body, key, uid string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewBufferString(body))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	if uid != "" {
		req = req.WithContext(middlewarectx.WithUser(req.Context(), &jwt.CustomClaims{UserUID: uid}))
	}
	return req
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	url := "https://checkout.stripe.com/c/pay/cs_test_1"
	payment := &models.Payment{ID: 1, UserUID: "u-1", Amount: 10000, Status: models.PaymentPending, CheckoutURL: &url}

	tests := []struct {
		name           string
		body           string
		key            string
		uid            string
		redirect       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "ключ из заголовка, ответ JSON",
			key:  "k-1",
			uid:  "u-1",
			setupMock: func(m *MockService) {
				m.On("Checkout", mock.Anything, "u-1", "k-1").Return(payment, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"checkout_url":"https://checkout.stripe.com/c/pay/cs_test_1"`,
		},
		{
			name: "ключ из тела",
			body: `{"idempotency_key":"k-2"}`,
			uid:  "u-1",
			setupMock: func(m *MockService) {
				m.On("Checkout", mock.Anything, "u-1", "k-2").Return(payment, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:     "веб-маршрут перенаправляет",
			uid:      "u-1",
			redirect: true,
			setupMock: func(m *MockService) {
				m.On("Checkout", mock.Anything, "u-1", "").Return(payment, nil)
			},
			expectedStatus: http.StatusSeeOther,
		},
		{
			name: "платёж ещё создаётся",
			key:  "k-3",
			uid:  "u-1",
			setupMock: func(m *MockService) {
				m.On("Checkout", mock.Anything, "u-1", "k-3").Return(nil, subscription.ErrCheckoutInProgress)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "ошибка провайдера",
			uid:  "u-1",
			setupMock: func(m *MockService) {
				m.On("Checkout", mock.Anything, "u-1", "").Return(nil, subscription.ErrProvider)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   subscription.ErrProvider.Error(),
		},
		{
			name:           "без пользователя",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "ключ ровно 64 символа",
			key:  strings.Repeat("k", 64),
			uid:  "u-1",
			setupMock: func(m *MockService) {
				m.On("Checkout", mock.Anything, "u-1", strings.Repeat("k", 64)).Return(payment, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "ключ в заголовке длиннее колонки",
			key:            strings.Repeat("k", 65),
			uid:            "u-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "field IdempotencyKey must be at most 64 characters long",
		},
		{
			name:           "ключ в теле длиннее колонки",
			body:           `{"idempotency_key":"` + strings.Repeat("k", 200) + `"}`,
			uid:            "u-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "битое тело",
			body:           `{"idempotency_key":`,
			uid:            "u-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			h := New(logger, svc)
			if tt.redirect {
				h = NewRedirect(logger, svc)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, newRequest(tt.body, tt.key, tt.uid))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.redirect {
				assert.Equal(t, url, w.Header().Get("Location"))
			}
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			svc.AssertExpectations(t)
		})
	}
}

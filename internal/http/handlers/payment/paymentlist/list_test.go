package paymentlist

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error) {
	args := m.Called(ctx, userUID)
	if p := args.Get(0); p != nil {
		return p.([]*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := new(MockService)
	svc.On("ListPayments", mock.Anything, "u-1").Return([]*models.Payment{{ID: 2, Status: models.PaymentPaid}}, nil)
	svc.On("ListPayments", mock.Anything, "u-2").Return(nil, nil)
	svc.On("ListPayments", mock.Anything, "u-3").Return(nil, errors.New("db"))
	h := New(logger, svc)

	do := func(uid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/payments", nil)
		req = req.WithContext(middlewarectx.WithUser(req.Context(), &jwt.CustomClaims{UserUID: uid}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := do("u-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"paid"`)

	w = do("u-2")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)

	assert.Equal(t, http.StatusInternalServerError, do("u-3").Code)
	svc.AssertExpectations(t)
}

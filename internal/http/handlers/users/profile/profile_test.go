package profile

import (
	"bytes"
	"context"
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

func (m *MockService) UpdateProfile(ctx context.Context, uid string, upd models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, uid, upd)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestProfileHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	country := "RU"

	svc := new(MockService)
	svc.On("UpdateProfile", mock.Anything, "u-1", models.ProfileUpdate{Country: &country}).
		Return(&models.User{UID: "u-1", Country: &country}, nil)
	h := New(logger, svc)

	do := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/me", bytes.NewBufferString(body))
		req = req.WithContext(middlewarectx.WithUser(req.Context(), &jwt.CustomClaims{UserUID: "u-1"}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := do(`{"country":"RU"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"country":"RU"`)

	w = do(`{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "field Email must be a valid email")

	svc.AssertExpectations(t)
}

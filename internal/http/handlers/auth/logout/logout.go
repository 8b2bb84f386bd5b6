// Package logout реализует отзыв refresh-токена.
package logout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/services/auth"
)

// Request содержит отзываемый refresh-токен.
type Request struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Handler обрабатывает выход пользователя.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс отзыва токена.
type Service interface {
	Logout(ctx context.Context, refreshToken string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Отзывает refresh-токен до истечения его срока.
// @Tags Auth
// @Accept  json
// @Param request body Request true "Refresh-токен"
// @Success 204 "Токен отозван"
// @Failure 401 {object} response.ErrorResponse "Токен недействителен"
// @Router /api/v1/logout [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	err := h.service.Logout(r.Context(), req.Refresh)
	if errors.Is(err, auth.ErrInvalidToken) {
		response.Fail(w, r, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if err != nil {
		log.Error("logout failed", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

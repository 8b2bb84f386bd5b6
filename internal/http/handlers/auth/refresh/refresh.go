// Package refresh реализует обмен refresh-токена на новый access-токен.
package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/services/auth"
)

// Request содержит refresh-токен.
type Request struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Handler обрабатывает обновление токена.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс обновления токена.
type Service interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
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
// @Summary Обновление access-токена
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Refresh-токен"
// @Success 200 {object} response.Response "Новый access-токен"
// @Failure 401 {object} response.ErrorResponse "Токен недействителен или отозван"
// @Router /api/v1/token/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

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

	access, err := h.service.Refresh(r.Context(), req.Refresh)
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrUserNotFound) {
		response.Fail(w, r, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if err != nil {
		log.Error("refresh failed", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not refresh token")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]string{"access": access}))
}

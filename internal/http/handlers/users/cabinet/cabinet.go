// Package cabinet реализует личный кабинет: профиль, подписку и платежи пользователя.
package cabinet

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/magabrotheeeer/premium-blog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/services/subscription"
)

// Handler обрабатывает запросы к личному кабинету.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс сборки кабинета.
type Service interface {
	Cabinet(ctx context.Context, userUID string) (*subscription.Cabinet, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Личный кабинет
// @Description Профиль текущего пользователя, его подписка и история платежей.
// @Tags Users
// @Produce  json
// @Success 200 {object} subscription.Cabinet "Кабинет"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /api/v1/users/me [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.cabinet"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	c, err := h.service.Cabinet(r.Context(), middlewarectx.UserFromContext(r.Context()))
	if errors.Is(err, subscription.ErrUserNotFound) {
		response.Fail(w, r, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Error("failed to build cabinet", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not load cabinet")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(c))
}

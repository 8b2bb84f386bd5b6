// Package paymentlist отдаёт историю платежей текущего пользователя.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/magabrotheeeer/premium-blog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/models"
)

// Service определяет интерфейс получения платежей.
type Service interface {
	ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error)
}

// Handler обрабатывает запрос списка платежей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Платежи пользователя
// @Tags Payments
// @Produce  json
// @Success 200 {array} models.Payment "Платежи, новые первыми"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /api/v1/payments [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.service.ListPayments(r.Context(), middlewarectx.UserFromContext(r.Context()))
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list payments")
		return
	}
	if list == nil {
		list = []*models.Payment{}
	}

	render.JSON(w, r, response.StatusOKWithData(list))
}

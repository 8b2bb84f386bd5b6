// Package paymentsuccess обрабатывает возврат пользователя со страницы оплаты.
//
// Провайдер подставляет session_id в адрес возврата; по нему статус платежа
// сверяется с провайдером, не дожидаясь вебхука.
package paymentsuccess

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/models"
	"github.com/magabrotheeeer/premium-blog/internal/services/subscription"
)

// Service определяет интерфейс сверки сессии оплаты.
type Service interface {
	ConfirmSession(ctx context.Context, sessionID string) (*models.Payment, error)
}

// Handler обрабатывает возврат после оплаты.
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
// @Summary Возврат после оплаты
// @Description Сверяет сессию оплаты с провайдером и активирует подписку, если платёж прошёл.
// @Tags Payments
// @Produce  json
// @Param session_id query string true "ID сессии оплаты"
// @Success 200 {object} models.Payment "Платёж"
// @Failure 400 {object} response.ErrorResponse "Нет session_id"
// @Failure 404 {object} response.ErrorResponse "Платёж не найден"
// @Failure 502 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /payment-success/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.success"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		response.Fail(w, r, http.StatusBadRequest, "session_id is required")
		return
	}

	payment, err := h.service.ConfirmSession(r.Context(), sessionID)
	switch {
	case errors.Is(err, subscription.ErrPaymentNotFound):
		response.Fail(w, r, http.StatusNotFound, "payment not found")
		return
	case errors.Is(err, subscription.ErrProvider):
		log.Error("payment provider failed", sl.Err(err))
		response.Fail(w, r, http.StatusBadGateway, subscription.ErrProvider.Error())
		return
	case err != nil:
		log.Error("failed to confirm session", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not confirm payment")
		return
	}

	log.Info("payment session confirmed", slog.Int64("payment_id", payment.ID), slog.String("status", string(payment.Status)))
	render.JSON(w, r, response.StatusOKWithData(payment))
}

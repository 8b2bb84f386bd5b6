// Package paymentwebhook принимает события платёжного провайдера.
package paymentwebhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/services/subscription"
)

// SignatureHeader — заголовок с подписью события.
const SignatureHeader = "Stripe-Signature"

// maxBodyBytes ограничивает размер тела вебхука.
const maxBodyBytes = 64 << 10

// Service определяет интерфейс обработки событий.
type Service interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// Handler обрабатывает вебхуки.
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
// @Summary Вебхук платёжного провайдера
// @Description Проверяет подпись и применяет событие к платежу. Повторная доставка события не меняет результат.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param Stripe-Signature header string true "Подпись события"
// @Success 200 {object} response.Response "Событие принято"
// @Failure 400 {object} response.ErrorResponse "Неверная подпись"
// @Failure 500 {object} response.ErrorResponse "Событие не обработано, провайдер повторит доставку"
// @Router /api/v1/payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	err = h.service.HandleWebhook(r.Context(), body, r.Header.Get(SignatureHeader))
	if errors.Is(err, subscription.ErrInvalidSignature) {
		log.Warn("invalid webhook signature")
		response.Fail(w, r, http.StatusBadRequest, "invalid signature")
		return
	}
	if err != nil {
		log.Error("failed to process webhook", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not process event")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]bool{"received": true}))
}

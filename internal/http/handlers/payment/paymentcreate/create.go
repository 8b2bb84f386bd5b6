// Package paymentcreate обрабатывает оформление подписки: создаёт платёж и сессию оплаты.
//
// Веб-маршрут перенаправляет на страницу оплаты провайдера (303), API-маршрут
// возвращает платёж со ссылкой checkout_url в JSON.
package paymentcreate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/magabrotheeeer/premium-blog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/models"
	"github.com/magabrotheeeer/premium-blog/internal/services/subscription"
)

// IdempotencyHeader — заголовок с ключом идемпотентности платежа.
const IdempotencyHeader = "Idempotency-Key"

// Request — необязательное тело запроса.
type Request struct {
	IdempotencyKey string `json:"idempotency_key" validate:"omitempty,max=64"`
}

// Service определяет интерфейс оформления подписки.
type Service interface {
	Checkout(ctx context.Context, userUID, idempotencyKey string) (*models.Payment, error)
}

// Handler обрабатывает запросы на оплату подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
	redirect bool
}

// New создает Handler, отвечающий JSON.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// NewRedirect создает Handler, перенаправляющий клиента на страницу оплаты.
func NewRedirect(log *slog.Logger, service Service) *Handler {
	h := New(log, service)
	h.redirect = true
	return h
}

// ServeHTTP godoc
// @Summary Оплатить подписку
// @Description Создаёт платёж и сессию оплаты. Повтор с тем же ключом идемпотентности возвращает тот же платёж.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param Idempotency-Key header string false "Ключ идемпотентности"
// @Param request body Request false "Ключ идемпотентности в теле"
// @Success 201 {object} models.Payment "Платёж со ссылкой на оплату"
// @Failure 400 {object} response.ErrorResponse "Некорректный ключ идемпотентности"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Платёж с этим ключом ещё создаётся"
// @Failure 502 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /api/v1/payments [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if key := r.Header.Get(IdempotencyHeader); key != "" {
		req.IdempotencyKey = key
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	userUID := middlewarectx.UserFromContext(r.Context())
	if userUID == "" {
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	payment, err := h.service.Checkout(r.Context(), userUID, req.IdempotencyKey)
	switch {
	case errors.Is(err, subscription.ErrCheckoutInProgress):
		response.Fail(w, r, http.StatusConflict, err.Error())
		return
	case errors.Is(err, subscription.ErrProvider):
		log.Error("payment provider failed", sl.Err(err))
		response.Fail(w, r, http.StatusBadGateway, subscription.ErrProvider.Error())
		return
	case err != nil:
		log.Error("checkout failed", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not create payment")
		return
	}

	log.Info("checkout created", slog.Int64("payment_id", payment.ID))
	if h.redirect && payment.CheckoutURL != nil {
		http.Redirect(w, r, *payment.CheckoutURL, http.StatusSeeOther)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(payment))
}

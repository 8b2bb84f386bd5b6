// Package register реализует HTTP-обработчик первого шага регистрации.
//
// Клиент присылает телефон, email и пароль, сервер отправляет код в SMS и
// возвращает токен незавершённой регистрации. Пользователь создаётся только
// после подтверждения кода, см. пакет verify.
package register

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

// Request — данные для начала регистрации.
type Request struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
}

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	StartRegistration(ctx context.Context, phone, email, password string) (*auth.Registration, error)
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
// @Summary Регистрация по номеру телефона
// @Description Отправляет код подтверждения в SMS. Повторная отправка на тот же номер возможна после паузы.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные регистрации"
// @Success 202 {object} auth.Registration "Код отправлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или номер"
// @Failure 409 {object} response.ErrorResponse "Номер уже зарегистрирован"
// @Failure 429 {object} response.ErrorResponse "Код уже отправлен, повторите позже"
// @Failure 502 {object} response.ErrorResponse "Не удалось отправить SMS"
// @Router /api/v1/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Invalid(w, r, err)
		return
	}

	reg, err := h.service.StartRegistration(r.Context(), req.PhoneNumber, req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidPhone), errors.Is(err, auth.ErrInvalidPassword):
		response.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrPhoneTaken):
		response.Fail(w, r, http.StatusConflict, err.Error())
		return
	case errors.Is(err, auth.ErrTooManyRequests):
		response.Fail(w, r, http.StatusTooManyRequests, err.Error())
		return
	case errors.Is(err, auth.ErrSMSDelivery):
		log.Warn("sms delivery failed", sl.Phone(req.PhoneNumber), sl.Err(err))
		response.Fail(w, r, http.StatusBadGateway, auth.ErrSMSDelivery.Error())
		return
	case err != nil:
		log.Error("registration failed", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not start registration")
		return
	}

	log.Info("verification code sent", sl.Phone(req.PhoneNumber))
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, response.StatusOKWithData(reg))
}

// Package verify реализует HTTP-обработчик подтверждения телефона кодом из SMS.
package verify

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

// Request — токен регистрации и код из SMS.
type Request struct {
	RegistrationToken string `json:"registration_token" validate:"required"`
	Code              string `json:"code" validate:"required,numeric,len=6"`
}

// Handler обрабатывает подтверждение регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс подтверждения регистрации.
type Service interface {
	ConfirmRegistration(ctx context.Context, token, code string) (string, error)
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
// @Summary Подтверждение телефона
// @Description Сверяет код из SMS и создаёт пользователя. После нескольких неверных попыток регистрацию нужно начать заново.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Токен регистрации и код"
// @Success 201 {object} response.Response "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Неверный код"
// @Failure 409 {object} response.ErrorResponse "Номер уже зарегистрирован"
// @Failure 410 {object} response.ErrorResponse "Регистрация истекла"
// @Router /api/v1/verify-phone [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verify"

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

	uid, err := h.service.ConfirmRegistration(r.Context(), req.RegistrationToken, req.Code)
	switch {
	case errors.Is(err, auth.ErrInvalidCode):
		response.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrRegistrationExpired):
		response.Fail(w, r, http.StatusGone, err.Error())
		return
	case errors.Is(err, auth.ErrPhoneTaken):
		response.Fail(w, r, http.StatusConflict, err.Error())
		return
	case err != nil:
		log.Error("confirmation failed", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not confirm registration")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_uid": uid,
		"message":  "phone confirmed, user created",
	}))
}

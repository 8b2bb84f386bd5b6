// Package signup реализует API-создание пользователя без подтверждения по SMS.
package signup

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

// Request — данные нового пользователя.
type Request struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
}

// Handler обрабатывает создание пользователя.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс создания пользователя.
type Service interface {
	CreateUser(ctx context.Context, phone, email, password string) (string, error)
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
// @Summary Создание пользователя
// @Description Создаёт активного пользователя сразу, без SMS.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные пользователя"
// @Success 201 {object} response.Response "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Номер уже зарегистрирован"
// @Router /api/v1/users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

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

	uid, err := h.service.CreateUser(r.Context(), req.PhoneNumber, req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidPhone), errors.Is(err, auth.ErrInvalidPassword):
		response.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrPhoneTaken):
		response.Fail(w, r, http.StatusConflict, err.Error())
		return
	case err != nil:
		log.Error("failed to create user", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not create user")
		return
	}

	log.Info("user created", slog.String("user_uid", uid))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_uid":     uid,
		"phone_number": req.PhoneNumber,
	}))
}

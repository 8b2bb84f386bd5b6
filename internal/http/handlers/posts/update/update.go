// Package update реализует HTTP-обработчик редактирования поста автором.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/magabrotheeeer/premium-blog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/models"
	"github.com/magabrotheeeer/premium-blog/internal/services/posts"
)

// Handler обрабатывает запросы на изменение поста.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики изменения поста.
type Service interface {
	Update(ctx context.Context, actorUID string, id int64, in models.PostInput) (*models.Post, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP изменяет пост.
//
// @Summary Изменить пост
// @Description Изменяет пост. Доступно только автору.
// @Tags Posts
// @Accept  json
// @Produce  json
// @Param id path int true "ID поста"
// @Param request body models.PostInput true "Новые данные поста"
// @Success 200 {object} models.Post "Изменённый пост"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет прав"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/posts/{id} [put]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posts.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Fail(w, r, http.StatusBadRequest, "failed to decode id from url")
		return
	}
	var req models.PostInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	post, err := h.service.Update(r.Context(), middlewarectx.UserFromContext(r.Context()), id, req)
	switch {
	case errors.Is(err, posts.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "post not found")
		return
	case errors.Is(err, posts.ErrForbidden):
		response.Fail(w, r, http.StatusForbidden, "only the author can edit the post")
		return
	case errors.Is(err, posts.ErrForbiddenWord), errors.Is(err, posts.ErrInvalidPrice), errors.Is(err, posts.ErrSeriesNotFound):
		response.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error("failed to update post", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not update post")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(post))
}

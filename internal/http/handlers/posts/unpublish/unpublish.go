// Package unpublish реализует HTTP-обработчик снятия поста с публикации.
package unpublish

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/magabrotheeeer/premium-blog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/services/posts"
)

// Handler обрабатывает запросы на снятие поста с публикации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики снятия с публикации.
type Service interface {
	Unpublish(ctx context.Context, actorUID string, id int64) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP снимает пост с публикации.
//
// @Summary Снять пост с публикации
// @Description Доступно автору и пользователю с правом can_unpublish_post.
// @Tags Posts
// @Produce  json
// @Param id path int true "ID поста"
// @Success 200 {object} response.Response "Пост снят с публикации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет прав"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /api/v1/posts/{id}/unpublish [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posts.unpublish"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Fail(w, r, http.StatusBadRequest, "failed to decode id from url")
		return
	}

	err = h.service.Unpublish(r.Context(), middlewarectx.UserFromContext(r.Context()), id)
	switch {
	case errors.Is(err, posts.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "post not found")
		return
	case errors.Is(err, posts.ErrForbidden):
		response.Fail(w, r, http.StatusForbidden, "not allowed to unpublish this post")
		return
	case err != nil:
		log.Error("failed to unpublish post", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not unpublish post")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":     id,
		"public": false,
	}))
}

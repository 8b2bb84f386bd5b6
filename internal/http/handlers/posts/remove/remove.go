// Package remove реализует HTTP-обработчик удаления поста.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/magabrotheeeer/premium-blog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/services/posts"
)

// Handler обрабатывает запросы на удаление поста.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления поста.
type Service interface {
	Delete(ctx context.Context, actorUID string, id int64) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP удаляет пост.
//
// @Summary Удалить пост
// @Description Удаляет пост. Доступно автору и пользователю с правом can_delete_any_post.
// @Tags Posts
// @Param id path int true "ID поста"
// @Success 204 "Пост удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет прав"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/posts/{id} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posts.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Fail(w, r, http.StatusBadRequest, "failed to decode id from url")
		return
	}

	err = h.service.Delete(r.Context(), middlewarectx.UserFromContext(r.Context()), id)
	switch {
	case errors.Is(err, posts.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "post not found")
		return
	case errors.Is(err, posts.ErrForbidden):
		log.Info("delete forbidden", slog.Int64("post_id", id))
		response.Fail(w, r, http.StatusForbidden, "not allowed to delete this post")
		return
	case err != nil:
		log.Error("failed to delete post", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not delete post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

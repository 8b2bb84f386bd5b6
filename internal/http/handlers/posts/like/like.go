// Package like реализует HTTP-обработчики лайков: POST ставит лайк, DELETE снимает.
package like

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

// Handler обрабатывает лайки поста.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики лайков.
type Service interface {
	Like(ctx context.Context, userUID string, id int64) (int64, error)
	Unlike(ctx context.Context, userUID string, id int64) (int64, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP ставит или снимает лайк в зависимости от метода запроса.
//
// @Summary Лайк поста
// @Description POST ставит лайк, DELETE снимает. Возвращает текущее число лайков.
// @Tags Posts
// @Produce  json
// @Param id path int true "ID поста"
// @Success 200 {object} response.Response "Число лайков"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /api/v1/posts/{id}/like [post]
// @Router /api/v1/posts/{id}/like [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posts.like"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Fail(w, r, http.StatusBadRequest, "failed to decode id from url")
		return
	}
	uid := middlewarectx.UserFromContext(r.Context())

	var count int64
	switch r.Method {
	case http.MethodPost:
		count, err = h.service.Like(r.Context(), uid, id)
	case http.MethodDelete:
		count, err = h.service.Unlike(r.Context(), uid, id)
	default:
		response.Fail(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if errors.Is(err, posts.ErrNotFound) {
		response.Fail(w, r, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		log.Error("failed to update like", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not update like")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":         id,
		"like_count": count,
	}))
}

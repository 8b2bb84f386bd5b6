// Package detail реализует HTTP-обработчик просмотра поста.
//
// Премиальный пост без действующей подписки не отдаётся: клиент перенаправляется
// на страницу оформления подписки (302).
package detail

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
	"github.com/magabrotheeeer/premium-blog/internal/models"
	"github.com/magabrotheeeer/premium-blog/internal/services/posts"
)

// Handler обрабатывает запросы на просмотр поста.
type Handler struct {
	log           *slog.Logger
	service       Service
	subscribePath string
}

// Service описывает интерфейс бизнес-логики просмотра поста.
type Service interface {
	Detail(ctx context.Context, id int64, viewerUID string) (*models.Post, error)
}

// New создает новый Handler. subscribePath — адрес страницы оформления подписки.
func New(log *slog.Logger, service Service, subscribePath string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		subscribePath: subscribePath,
	}
}

// ServeHTTP возвращает пост по ID.
//
// @Summary Пост
// @Description Возвращает пост и увеличивает счётчик просмотров. Для премиального поста нужна действующая подписка.
// @Tags Posts
// @Produce  json
// @Param id path int true "ID поста"
// @Success 200 {object} models.Post "Пост"
// @Success 302 "Нужна подписка, Location указывает на страницу оформления"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/posts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posts.detail"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "failed to decode id from url")
		return
	}

	post, err := h.service.Detail(r.Context(), id, middlewarectx.UserFromContext(r.Context()))
	switch {
	case errors.Is(err, posts.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "post not found")
		return
	case errors.Is(err, posts.ErrSubscriptionRequired):
		log.Info("premium post requested without subscription", slog.Int64("post_id", id))
		http.Redirect(w, r, h.subscribePath, http.StatusFound)
		return
	case err != nil:
		log.Error("failed to read post", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not read post")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(post))
}

// Package list реализует HTTP-обработчик ленты опубликованных постов.
//
// Номер страницы берётся из параметра page, по умолчанию первая страница.
// Несуществующая страница даёт 404.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/services/posts"
)

// Handler обрабатывает запросы на получение ленты постов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики ленты.
type Service interface {
	List(ctx context.Context, rawPage string) (*posts.ListResult, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP возвращает страницу ленты.
//
// @Summary Лента постов
// @Description Опубликованные посты, новые первыми, по 5 на страницу. Для каждого поста указано расширение файла.
// @Tags Posts
// @Produce  json
// @Param page query int false "Номер страницы"
// @Success 200 {object} posts.ListResult "Страница ленты"
// @Failure 404 {object} response.ErrorResponse "Страница не существует"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/posts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posts.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.List(r.Context(), r.URL.Query().Get("page"))
	if errors.Is(err, posts.ErrInvalidPage) {
		log.Info("invalid page requested", sl.Err(err))
		response.Fail(w, r, http.StatusNotFound, "page not found")
		return
	}
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list posts")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(res))
}

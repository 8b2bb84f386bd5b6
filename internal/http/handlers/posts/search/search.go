// Package search реализует HTTP-обработчик поиска постов по подстроке.
package search

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/models"
)

// Handler обрабатывает поисковые запросы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс поиска.
type Service interface {
	Search(ctx context.Context, query string) ([]*models.Post, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP ищет посты.
//
// @Summary Поиск постов
// @Description Подстрока ищется в заголовке и тексте без учёта регистра. Пустой запрос даёт пустой список.
// @Tags Posts
// @Produce  json
// @Param q query string false "Строка поиска"
// @Success 200 {array} models.Post "Найденные посты"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posts.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query().Get("q")
	res, err := h.service.Search(r.Context(), query)
	if err != nil {
		log.Error("search failed", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "search failed")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"query":   query,
		"results": res,
	}))
}

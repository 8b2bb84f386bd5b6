// Package series реализует HTTP-обработчики серий постов.
package series

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

// Handler обрабатывает запросы к сериям.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики серий.
type Service interface {
	CreateSeries(ctx context.Context, authorUID string, in models.SeriesInput) (*models.Series, error)
	SeriesPosts(ctx context.Context, seriesID int64) ([]*models.Post, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// Create создаёт серию.
//
// @Summary Создать серию
// @Tags Series
// @Accept  json
// @Produce  json
// @Param request body models.SeriesInput true "Данные серии"
// @Success 201 {object} models.Series "Серия"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /api/v1/series [post]
// @Security BearerAuth
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.series.Create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SeriesInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	s, err := h.service.CreateSeries(r.Context(), middlewarectx.UserFromContext(r.Context()), req)
	if errors.Is(err, posts.ErrForbiddenWord) {
		response.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Error("failed to create series", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not create series")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(s))
}

// Posts возвращает опубликованные посты серии по порядку глав.
//
// @Summary Посты серии
// @Tags Series
// @Produce  json
// @Param id path int true "ID серии"
// @Success 200 {array} models.Post "Посты серии"
// @Failure 404 {object} response.ErrorResponse "Серия не найдена"
// @Router /api/v1/series/{id}/posts [get]
func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.series.Posts"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Fail(w, r, http.StatusBadRequest, "failed to decode id from url")
		return
	}

	list, err := h.service.SeriesPosts(r.Context(), id)
	if errors.Is(err, posts.ErrSeriesNotFound) {
		response.Fail(w, r, http.StatusNotFound, "series not found")
		return
	}
	if err != nil {
		log.Error("failed to list series posts", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list series posts")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(list))
}

// Package comments реализует HTTP-обработчики комментариев к посту.
package comments

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

// Request — текст нового комментария.
type Request struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// Handler обрабатывает комментарии к посту.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики комментариев.
type Service interface {
	Comment(ctx context.Context, userUID string, id int64, text string) (*models.Comment, error)
	Comments(ctx context.Context, id int64) ([]*models.Comment, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// List возвращает комментарии поста.
//
// @Summary Комментарии поста
// @Tags Posts
// @Produce  json
// @Param id path int true "ID поста"
// @Success 200 {array} models.Comment "Комментарии"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /api/v1/posts/{id}/comments [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.posts.comments.List")

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Fail(w, r, http.StatusBadRequest, "failed to decode id from url")
		return
	}
	list, err := h.service.Comments(r.Context(), id)
	if errors.Is(err, posts.ErrNotFound) {
		response.Fail(w, r, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		log.Error("failed to list comments", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list comments")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(list))
}

// Create добавляет комментарий от имени текущего пользователя.
//
// @Summary Добавить комментарий
// @Tags Posts
// @Accept  json
// @Produce  json
// @Param id path int true "ID поста"
// @Param request body Request true "Текст комментария"
// @Success 201 {object} models.Comment "Комментарий"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /api/v1/posts/{id}/comments [post]
// @Security BearerAuth
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.posts.comments.Create")

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Fail(w, r, http.StatusBadRequest, "failed to decode id from url")
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	c, err := h.service.Comment(r.Context(), middlewarectx.UserFromContext(r.Context()), id, req.Text)
	switch {
	case errors.Is(err, posts.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "post not found")
		return
	case errors.Is(err, posts.ErrEmptyComment):
		response.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error("failed to add comment", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not add comment")
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(c))
}

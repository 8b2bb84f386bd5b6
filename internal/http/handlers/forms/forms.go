// Package forms отдаёт описания полей форм, чтобы клиент мог их отрисовать.
//
// Таблицы строятся один раз при создании Handler. Булевым полям назначается
// класс form-check-input, остальным form-control.
package forms

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
)

// Виджеты полей.
const (
	WidgetText     = "text"
	WidgetTextarea = "textarea"
	WidgetPassword = "password"
	WidgetEmail    = "email"
	WidgetTel      = "tel"
	WidgetNumber   = "number"
	WidgetCheckbox = "checkbox"
	WidgetURL      = "url"
)

// CSS-классы полей.
const (
	ClassControl = "form-control"
	ClassCheck   = "form-check-input"
)

// FieldHint описывает одно поле формы.
type FieldHint struct {
	Name     string `json:"name"`
	Widget   string `json:"widget"`
	Class    string `json:"class"`
	Required bool   `json:"required"`
}

type field struct {
	name     string
	widget   string
	required bool
}

func build(fields ...field) []FieldHint {
	hints := make([]FieldHint, 0, len(fields))
	for _, f := range fields {
		class := ClassControl
		if f.widget == WidgetCheckbox {
			class = ClassCheck
		}
		hints = append(hints, FieldHint{
			Name:     f.name,
			Widget:   f.widget,
			Class:    class,
			Required: f.required,
		})
	}
	return hints
}

// Handler отдаёт описание формы по имени.
type Handler struct {
	forms map[string][]FieldHint
}

// New создает Handler с формами post, register, verify и profile.
func New() *Handler {
	return &Handler{forms: map[string][]FieldHint{
		"post": build(
			field{"title", WidgetText, true},
			field{"description", WidgetTextarea, false},
			field{"file", WidgetText, false},
			field{"premium", WidgetCheckbox, false},
			field{"price", WidgetNumber, false},
			field{"series_id", WidgetNumber, false},
			field{"sequence_order", WidgetNumber, false},
		),
		"register": build(
			field{"phone_number", WidgetTel, true},
			field{"email", WidgetEmail, false},
			field{"password", WidgetPassword, true},
		),
		"verify": build(
			field{"registration_token", WidgetText, true},
			field{"code", WidgetText, true},
		),
		"profile": build(
			field{"avatar", WidgetURL, false},
			field{"email", WidgetEmail, false},
			field{"country", WidgetText, false},
		),
	}}
}

// Form возвращает описание формы name.
func (h *Handler) Form(name string) ([]FieldHint, bool) {
	hints, ok := h.forms[name]
	return hints, ok
}

// ServeHTTP godoc
// @Summary Описание формы
// @Description Поля формы с виджетами и CSS-классами. Доступны формы post, register, verify, profile.
// @Tags Forms
// @Produce  json
// @Param name path string true "Имя формы"
// @Success 200 {array} FieldHint "Поля формы"
// @Failure 404 {object} response.ErrorResponse "Форма не найдена"
// @Router /api/v1/forms/{name} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	hints, ok := h.Form(chi.URLParam(r, "name"))
	if !ok {
		response.Fail(w, r, http.StatusNotFound, "form not found")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(hints))
}

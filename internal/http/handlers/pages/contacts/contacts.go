// Package contacts отдаёт контактные данные проекта из конфигурации.
package contacts

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/magabrotheeeer/premium-blog/internal/config"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
)

// Info — содержимое страницы контактов.
type Info struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Handler отдаёт страницу контактов.
type Handler struct {
	info Info
}

// New создает новый Handler.
func New(cfg config.Contacts) *Handler {
	return &Handler{info: Info{
		Email:   cfg.Email,
		Phone:   cfg.Phone,
		Address: cfg.Address,
	}}
}

// ServeHTTP godoc
// @Summary Контакты
// @Tags Pages
// @Produce  json
// @Success 200 {object} Info "Контакты"
// @Router /contacts/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(h.info))
}

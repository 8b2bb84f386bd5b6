// Package subscribe отдаёт условия платной подписки.
package subscribe

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/magabrotheeeer/premium-blog/internal/http/response"
	"github.com/magabrotheeeer/premium-blog/internal/services/subscription"
)

// Service описывает источник условий подписки.
type Service interface {
	Offer() subscription.Offer
}

// Handler отдаёт условия подписки.
type Handler struct {
	service Service
}

// New создает новый Handler.
func New(service Service) *Handler {
	return &Handler{service: service}
}

// ServeHTTP godoc
// @Summary Условия подписки
// @Tags Payments
// @Produce  json
// @Success 200 {object} subscription.Offer "Цена и срок подписки"
// @Router /subscribe/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(h.service.Offer()))
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/prefab-leads/internal/entity"
)

type ProductHandler struct {
	Catalog *entity.Catalog
}

func NewProductHandler(c *entity.Catalog) *ProductHandler {
	return &ProductHandler{Catalog: c}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": h.Catalog.All()})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "PRODUCT_NOT_FOUND", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

package handlers

import (
	"net/http"

	"sixpillars/internal/catalog"
)

type CategoriesHandler struct {
	catalog *catalog.Catalog
}

func NewCategoriesHandler(cat *catalog.Catalog) *CategoriesHandler {
	return &CategoriesHandler{catalog: cat}
}

// List returns the six categories in position order. Shared reference data:
// any authenticated caller may read it.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.All())
}

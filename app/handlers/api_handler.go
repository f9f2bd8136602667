package handlers

import (
	"errors"
	"net/http"

	"github.com/expertwinding/storefront/app/models"
	"github.com/expertwinding/storefront/app/services"
	"github.com/expertwinding/storefront/app/utils/logger"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

// APIHandler serves the read-only JSON view of the catalog.
type APIHandler struct {
	render  *render.Render
	catalog *services.CatalogQueryService
}

func NewAPIHandler(r *render.Render, catalog *services.CatalogQueryService) *APIHandler {
	return &APIHandler{render: r, catalog: catalog}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *APIHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context(), ParseProductFilter(r))
	if err != nil {
		logger.WithRequestID(r.Context(), nil).Error("Failed to list products", "error", err)
		h.render.JSON(w, http.StatusInternalServerError, errorResponse{Error: "could not load products"})
		return
	}
	h.render.JSON(w, http.StatusOK, h.catalog.SerializeAll(products))
}

func (h *APIHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		h.render.JSON(w, http.StatusNotFound, errorResponse{Error: "product not found"})
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		h.render.JSON(w, http.StatusNotFound, errorResponse{Error: "product not found"})
		return
	}
	if err != nil {
		logger.WithRequestID(r.Context(), nil).Error("Failed to load product", "product_id", id, "error", err)
		h.render.JSON(w, http.StatusInternalServerError, errorResponse{Error: "could not load product"})
		return
	}
	h.render.JSON(w, http.StatusOK, h.catalog.Serialize(*product))
}

func (h *APIHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		logger.WithRequestID(r.Context(), nil).Error("Failed to list categories", "error", err)
		h.render.JSON(w, http.StatusInternalServerError, errorResponse{Error: "could not load categories"})
		return
	}
	h.render.JSON(w, http.StatusOK, h.catalog.SerializeCategories(categories))
}

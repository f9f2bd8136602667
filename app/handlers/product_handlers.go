package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/expertwinding/storefront/app/helpers"
	"github.com/expertwinding/storefront/app/models"
	"github.com/expertwinding/storefront/app/models/other"
	"github.com/expertwinding/storefront/app/services"
	"github.com/expertwinding/storefront/app/utils/breadcrumb"
	"github.com/expertwinding/storefront/app/utils/logger"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type ProductHandler struct {
	render  *render.Render
	catalog *services.CatalogQueryService
	site    helpers.SiteInfo
}

func NewProductHandler(r *render.Render, catalog *services.CatalogQueryService, site helpers.SiteInfo) *ProductHandler {
	return &ProductHandler{render: r, catalog: catalog, site: site}
}

type ProductDetailPageData struct {
	other.BasePageData
	Product services.ProductRecord
}

func (h *ProductHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		h.NotFound(w, r)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		logger.WithRequestID(r.Context(), nil).Error("Failed to load product", "product_id", id, "error", err)
		http.Error(w, "Could not load product", http.StatusInternalServerError)
		return
	}

	record := h.catalog.Serialize(*product)
	data := ProductDetailPageData{
		BasePageData: helpers.GetBaseData(r, h.site, record.Name),
		Product:      record,
	}
	data.Breadcrumbs = []breadcrumb.Breadcrumb{{Name: "Home", URL: "/"}}
	if record.Category != nil {
		data.Breadcrumbs = append(data.Breadcrumbs, breadcrumb.Breadcrumb{
			Name: record.Category.Name,
			URL:  fmt.Sprintf("/?cat=%d", record.Category.ID),
		})
	}
	data.Breadcrumbs = append(data.Breadcrumbs, breadcrumb.Breadcrumb{
		Name: record.Name,
		URL:  fmt.Sprintf("/product/%d", record.ID),
	})

	h.render.HTML(w, http.StatusOK, "product", data)
}

func (h *ProductHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	data := helpers.GetBaseData(r, h.site, "Not found")
	h.render.HTML(w, http.StatusNotFound, "404", data)
}

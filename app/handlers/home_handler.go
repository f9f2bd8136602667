package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/expertwinding/storefront/app/helpers"
	"github.com/expertwinding/storefront/app/models"
	"github.com/expertwinding/storefront/app/models/other"
	"github.com/expertwinding/storefront/app/services"
	"github.com/expertwinding/storefront/app/utils/breadcrumb"
	"github.com/expertwinding/storefront/app/utils/logger"
	"github.com/unrolled/render"
)

type HomeHandler struct {
	render  *render.Render
	catalog *services.CatalogQueryService
	site    helpers.SiteInfo
}

func NewHomeHandler(r *render.Render, catalog *services.CatalogQueryService, site helpers.SiteInfo) *HomeHandler {
	return &HomeHandler{
		render:  r,
		catalog: catalog,
		site:    site,
	}
}

type HomePageData struct {
	other.BasePageData
	Products         []services.ProductRecord
	Categories       []services.CategoryRecord
	SearchQuery      string
	SelectedCategory uint
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	filter := ParseProductFilter(r)

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		logger.WithRequestID(r.Context(), nil).Error("Failed to list products", "error", err)
		http.Error(w, "Could not load products", http.StatusInternalServerError)
		return
	}

	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		logger.WithRequestID(r.Context(), nil).Error("Failed to list categories", "error", err)
		http.Error(w, "Could not load categories", http.StatusInternalServerError)
		return
	}

	data := HomePageData{
		BasePageData: helpers.GetBaseData(r, h.site, h.site.ShopName),
		Products:     h.catalog.SerializeAll(products),
		Categories:   h.catalog.SerializeCategories(categories),
		SearchQuery:  filter.Query,
	}
	if filter.CategoryID != nil {
		data.SelectedCategory = *filter.CategoryID
	}

	h.render.HTML(w, http.StatusOK, "index", data)
}

func (h *HomeHandler) About(w http.ResponseWriter, r *http.Request) {
	data := helpers.GetBaseData(r, h.site, "About")
	data.Breadcrumbs = []breadcrumb.Breadcrumb{
		{Name: "Home", URL: "/"},
		{Name: "About", URL: "/about"},
	}
	h.render.HTML(w, http.StatusOK, "about", data)
}

// ParseProductFilter reads q and cat from the query string. A cat value that
// is not a positive integer is ignored.
func ParseProductFilter(r *http.Request) models.ProductFilter {
	query := r.URL.Query()
	filter := models.ProductFilter{Query: strings.TrimSpace(query.Get("q"))}
	if raw := strings.TrimSpace(query.Get("cat")); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 0); err == nil && id > 0 {
			categoryID := uint(id)
			filter.CategoryID = &categoryID
		}
	}
	return filter
}

// parseID returns false for anything that is not a positive integer.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

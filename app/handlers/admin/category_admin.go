package admin

import (
	"errors"
	"net/http"

	"github.com/expertwinding/storefront/app/middlewares"
	"github.com/expertwinding/storefront/app/models"
	"github.com/expertwinding/storefront/app/models/other"
	"github.com/expertwinding/storefront/app/services"
	"github.com/expertwinding/storefront/app/utils/breadcrumb"
	"github.com/gorilla/mux"
)

type AdminCategoryPageData struct {
	other.BasePageData
	Categories []services.CategoryRecord
	FormAction string
	Errors     map[string]string
	Name       string
}

func (h *AdminHandler) categoriesData(r *http.Request) *AdminCategoryPageData {
	data := &AdminCategoryPageData{
		BasePageData: h.baseData(r, "Categories"),
		FormAction:   h.path("/categories/add"),
		Errors:       make(map[string]string),
	}
	data.Breadcrumbs = append(data.Breadcrumbs, breadcrumb.Breadcrumb{Name: "Categories", URL: h.path("/categories")})

	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.log(r).Error("Failed to list categories", "error", err)
		data.Message = "Could not load categories."
		data.MessageStatus = "error"
	}
	data.Categories = h.catalog.SerializeCategories(categories)
	return data
}

func (h *AdminHandler) GetCategoriesPage(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, http.StatusOK, "admin/categories", h.categoriesData(r))
}

func (h *AdminHandler) AddCategoryPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.log(r).Warn("Failed to parse category form", "error", err)
		h.redirect(w, r, h.path("/categories"), "error", "Could not read the form.")
		return
	}

	in := services.CategoryInput{Name: r.PostFormValue("name")}
	auth := middlewares.AuthorizationFromContext(r.Context())

	category, err := h.mutations.CreateCategory(r.Context(), auth, in)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			data := h.categoriesData(r)
			data.Name = in.Name
			data.Errors = validationErr.Fields
			data.Message = failureMessage(err)
			data.MessageStatus = "error"
			h.render.HTML(w, http.StatusUnprocessableEntity, "admin/categories", data)
			return
		}
		if errors.Is(err, models.ErrConstraintViolation) {
			h.redirect(w, r, h.path("/categories"), "error", "A category with that name already exists.")
			return
		}
		h.log(r).Error("Failed to create category", "error", err)
		h.redirect(w, r, h.path("/categories"), "error", failureMessage(err))
		return
	}

	h.redirect(w, r, h.path("/categories"), "success", "Category "+category.Name+" added.")
}

// DeleteCategoryPost removes the category and, with it, every product filed
// under it.
func (h *AdminHandler) DeleteCategoryPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		h.notFound(w, r)
		return
	}

	auth := middlewares.AuthorizationFromContext(r.Context())
	err := h.mutations.DeleteCategory(r.Context(), auth, id)
	if errors.Is(err, models.ErrNotFound) {
		h.redirect(w, r, h.path("/categories"), "error", "Category not found.")
		return
	}
	if err != nil {
		h.log(r).Error("Failed to delete category", "category_id", id, "error", err)
		h.redirect(w, r, h.path("/categories"), "error", failureMessage(err))
		return
	}

	h.redirect(w, r, h.path("/categories"), "success", "Category deleted.")
}

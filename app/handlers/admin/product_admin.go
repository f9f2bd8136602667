package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/expertwinding/storefront/app/middlewares"
	"github.com/expertwinding/storefront/app/models"
	"github.com/expertwinding/storefront/app/models/other"
	"github.com/expertwinding/storefront/app/services"
	"github.com/expertwinding/storefront/app/utils/breadcrumb"
	"github.com/expertwinding/storefront/app/utils/format"
	"github.com/gorilla/mux"
)

type AdminProductPageData struct {
	other.BasePageData
	ProductData *ProductForm
	ProductID   uint
	ImageURL    string
	IsEdit      bool
	FormAction  string
	Errors      map[string]string
	Categories  []services.CategoryRecord
}

// ProductForm holds the values echoed back into the product form.
type ProductForm struct {
	Name        string
	Description string
	Price       string
	CategoryID  string
	Sku         string
	Stock       string
	Unit        string
	Specs       string
}

func productFormFromModel(p *models.Product) *ProductForm {
	form := &ProductForm{
		Name:        p.Name,
		Description: deref(p.Description),
		Price:       format.PlainPrice(p.Price),
		Sku:         deref(p.Sku),
		Unit:        deref(p.Unit),
		Specs:       deref(p.Specs),
	}
	if p.CategoryID != nil {
		form.CategoryID = strconv.FormatUint(uint64(*p.CategoryID), 10)
	}
	if p.Stock != nil {
		form.Stock = strconv.Itoa(*p.Stock)
	}
	return form
}

func productFormFromInput(in services.ProductInput) *ProductForm {
	return &ProductForm{
		Name:        deref(in.Name),
		Description: deref(in.Description),
		Price:       deref(in.Price),
		CategoryID:  deref(in.CategoryID),
		Sku:         deref(in.Sku),
		Stock:       deref(in.Stock),
		Unit:        deref(in.Unit),
		Specs:       deref(in.Specs),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// parseProductForm reads the multipart product form. Fields missing from the
// submission stay nil in the returned input. The caller closes the returned
// file, if any.
func (h *AdminHandler) parseProductForm(w http.ResponseWriter, r *http.Request) (services.ProductInput, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return services.ProductInput{}, noop, err
	}
	if r.PostForm == nil {
		if err := r.ParseForm(); err != nil {
			return services.ProductInput{}, noop, err
		}
	}

	field := func(name string) *string {
		values, ok := r.PostForm[name]
		if !ok || len(values) == 0 {
			return nil
		}
		v := values[0]
		return &v
	}

	in := services.ProductInput{
		Name:        field("name"),
		Description: field("description"),
		Price:       field("price"),
		CategoryID:  field("category"),
		Sku:         field("sku"),
		Stock:       field("stock"),
		Unit:        field("unit"),
		Specs:       field("specs"),
	}

	if r.MultipartForm == nil {
		return in, noop, nil
	}
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, noop, nil
	}
	if err != nil {
		return in, noop, err
	}
	in.Image = &services.ImageUpload{Filename: header.Filename, Content: file}
	return in, func() { file.Close() }, nil
}

func (h *AdminHandler) productFormData(r *http.Request, title string) *AdminProductPageData {
	data := &AdminProductPageData{
		BasePageData: h.baseData(r, title),
		ProductData:  &ProductForm{},
		Errors:       make(map[string]string),
	}
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.log(r).Error("Failed to load categories", "error", err)
		data.Message = "Could not load categories."
		data.MessageStatus = "error"
	}
	data.Categories = h.catalog.SerializeCategories(categories)
	return data
}

// renderFormErrors re-renders the form for field-level validation failures
// and reports whether it did.
func (h *AdminHandler) renderFormErrors(w http.ResponseWriter, data *AdminProductPageData, in services.ProductInput, err error) bool {
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		return false
	}
	data.ProductData = productFormFromInput(in)
	data.Errors = validationErr.Fields
	data.Message = failureMessage(err)
	data.MessageStatus = "error"
	h.render.HTML(w, http.StatusUnprocessableEntity, "admin/form", data)
	return true
}

func (h *AdminHandler) AddProductPage(w http.ResponseWriter, r *http.Request) {
	data := h.productFormData(r, "Add product")
	data.FormAction = h.path("/add")
	data.Breadcrumbs = append(data.Breadcrumbs, breadcrumb.Breadcrumb{Name: "Add product", URL: h.path("/add")})

	h.render.HTML(w, http.StatusOK, "admin/form", data)
}

func (h *AdminHandler) AddProductPost(w http.ResponseWriter, r *http.Request) {
	in, closeFile, err := h.parseProductForm(w, r)
	defer closeFile()
	if err != nil {
		h.log(r).Warn("Failed to parse product form", "error", err)
		h.redirect(w, r, h.path("/add"), "error", "Could not read the form. Is the image too large?")
		return
	}

	auth := middlewares.AuthorizationFromContext(r.Context())
	product, err := h.mutations.CreateProduct(r.Context(), auth, in)
	if err != nil {
		if errors.Is(err, models.ErrInvalidImageFormat) {
			h.redirect(w, r, h.path("/add"), "error", failureMessage(err))
			return
		}
		data := h.productFormData(r, "Add product")
		data.FormAction = h.path("/add")
		if h.renderFormErrors(w, data, in, err) {
			return
		}
		h.log(r).Error("Failed to create product", "error", err)
		h.redirect(w, r, h.path("/add"), "error", failureMessage(err))
		return
	}

	h.log(r).Info("Product added from admin", "product_id", product.ID)
	h.redirect(w, r, h.path("/admin"), "success", "Product added.")
}

func (h *AdminHandler) EditProductPage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		h.notFound(w, r)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.log(r).Error("Failed to load product", "product_id", id, "error", err)
		h.redirect(w, r, h.path("/admin"), "error", failureMessage(err))
		return
	}

	editPath := fmt.Sprintf("%s/edit/%d", h.site.AdminPath, id)
	data := h.productFormData(r, "Edit product")
	data.IsEdit = true
	data.ProductID = id
	data.FormAction = editPath
	data.ProductData = productFormFromModel(product)
	data.ImageURL = h.catalog.Serialize(*product).ImageURL
	data.Breadcrumbs = append(data.Breadcrumbs, breadcrumb.Breadcrumb{Name: product.Name, URL: editPath})

	h.render.HTML(w, http.StatusOK, "admin/form", data)
}

func (h *AdminHandler) EditProductPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		h.notFound(w, r)
		return
	}
	editPath := fmt.Sprintf("%s/edit/%d", h.site.AdminPath, id)

	in, closeFile, err := h.parseProductForm(w, r)
	defer closeFile()
	if err != nil {
		h.log(r).Warn("Failed to parse product form", "product_id", id, "error", err)
		h.redirect(w, r, editPath, "error", "Could not read the form. Is the image too large?")
		return
	}

	auth := middlewares.AuthorizationFromContext(r.Context())
	_, err = h.mutations.UpdateProduct(r.Context(), auth, id, in)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrNotFound):
		h.notFound(w, r)
		return
	case errors.Is(err, models.ErrInvalidImageFormat):
		h.redirect(w, r, editPath, "error", failureMessage(err))
		return
	default:
		data := h.productFormData(r, "Edit product")
		data.IsEdit = true
		data.ProductID = id
		data.FormAction = editPath
		if h.renderFormErrors(w, data, in, err) {
			return
		}
		h.log(r).Error("Failed to update product", "product_id", id, "error", err)
		h.redirect(w, r, editPath, "error", failureMessage(err))
		return
	}

	h.redirect(w, r, h.path("/admin"), "success", "Product updated.")
}

func (h *AdminHandler) DeleteProductPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		h.notFound(w, r)
		return
	}

	auth := middlewares.AuthorizationFromContext(r.Context())
	err := h.mutations.DeleteProduct(r.Context(), auth, id)
	if errors.Is(err, models.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.log(r).Error("Failed to delete product", "product_id", id, "error", err)
		h.redirect(w, r, h.path("/admin"), "error", failureMessage(err))
		return
	}

	h.redirect(w, r, h.path("/admin"), "success", "Product deleted.")
}

func (h *AdminHandler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, http.StatusNotFound, "404", h.baseData(r, "Not found"))
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

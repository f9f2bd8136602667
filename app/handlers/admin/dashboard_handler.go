package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/expertwinding/storefront/app/helpers"
	"github.com/expertwinding/storefront/app/middlewares"
	"github.com/expertwinding/storefront/app/models"
	"github.com/expertwinding/storefront/app/models/other"
	"github.com/expertwinding/storefront/app/services"
	"github.com/expertwinding/storefront/app/utils/breadcrumb"
	"github.com/expertwinding/storefront/app/utils/logger"
	"github.com/expertwinding/storefront/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

type Credentials struct {
	Password     string
	PasswordHash string
}

type AdminHandler struct {
	render         *render.Render
	validator      *validator.Validate
	catalog        *services.CatalogQueryService
	mutations      *services.CatalogMutationService
	sessions       sessions.SessionStore
	site           helpers.SiteInfo
	credentials    Credentials
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewAdminHandler(
	render *render.Render,
	validator *validator.Validate,
	catalog *services.CatalogQueryService,
	mutations *services.CatalogMutationService,
	sessions sessions.SessionStore,
	site helpers.SiteInfo,
	credentials Credentials,
	maxUploadBytes int64,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		render:         render,
		validator:      validator,
		catalog:        catalog,
		mutations:      mutations,
		sessions:       sessions,
		site:           site,
		credentials:    credentials,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type AdminLoginPageData struct {
	other.BasePageData
	Next string
}

type LoginForm struct {
	Password string `form:"password" validate:"required"`
}

type AdminListPageData struct {
	other.BasePageData
	Products      []services.ProductRecord
	TotalProducts int
}

// path joins a suffix onto the configured admin prefix.
func (h *AdminHandler) path(suffix string) string {
	return h.site.AdminPath + suffix
}

func (h *AdminHandler) baseData(r *http.Request, title string) other.BasePageData {
	base := helpers.GetBaseData(r, h.site, title)
	base.IsAdminPage = true
	base.IsAdmin = h.sessions.IsAdmin(r)
	base.Breadcrumbs = []breadcrumb.Breadcrumb{
		{Name: "Home", URL: "/"},
		{Name: "Admin", URL: h.path("/admin")},
	}
	return base
}

func (h *AdminHandler) log(r *http.Request) *slog.Logger {
	return logger.WithRequestID(r.Context(), h.logger)
}

func (h *AdminHandler) redirect(w http.ResponseWriter, r *http.Request, path, status, message string) {
	http.Redirect(w, r, helpers.RedirectWithMessage(path, status, message), http.StatusSeeOther)
}

// failureMessage turns a service error into the text shown to the admin.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidImageFormat):
		return "Invalid image format."
	case errors.Is(err, models.ErrNotFound):
		return "Product not found."
	case errors.Is(err, models.ErrConstraintViolation):
		return "Could not save: conflicting or invalid data."
	case errors.Is(err, models.ErrValidation):
		return "Please correct the highlighted fields."
	case errors.Is(err, models.ErrUnauthorized):
		return "Admin login required."
	default:
		return "Something went wrong. Please try again."
	}
}

func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := AdminLoginPageData{
		BasePageData: h.baseData(r, "Admin login"),
		Next:         helpers.SafeNext(r.URL.Query().Get("next"), h.path("/admin")),
	}
	h.render.HTML(w, http.StatusOK, "admin/login", data)
}

func (h *AdminHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	next := helpers.SafeNext(r.URL.Query().Get("next"), h.path("/admin"))
	if err := r.ParseForm(); err != nil {
		h.log(r).Warn("Failed to parse login form", "error", err)
		h.redirect(w, r, h.path("/login"), "error", "Could not read the form.")
		return
	}
	if formNext := r.PostFormValue("next"); formNext != "" {
		next = helpers.SafeNext(formNext, next)
	}

	form := LoginForm{Password: r.PostFormValue("password")}
	loginRetry := h.path("/login") + "?next=" + url.QueryEscape(next)

	if err := h.validator.Struct(&form); err != nil {
		h.redirect(w, r, loginRetry, "error", "Incorrect password.")
		return
	}
	if !helpers.CheckAdminPassword(form.Password, h.credentials.Password, h.credentials.PasswordHash) {
		h.log(r).Warn("Admin login failed", "remote_addr", r.RemoteAddr)
		h.redirect(w, r, loginRetry, "error", "Incorrect password.")
		return
	}

	if err := h.sessions.SetAdmin(w, r); err != nil {
		h.log(r).Error("Failed to save admin session", "error", err)
		h.redirect(w, r, loginRetry, "error", "Could not start the admin session.")
		return
	}

	h.log(r).Info("Admin logged in", "remote_addr", r.RemoteAddr)
	h.redirect(w, r, next, "success", "Logged in as admin.")
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearSession(w, r); err != nil {
		h.log(r).Error("Failed to clear admin session", "error", err)
	}
	h.redirect(w, r, "/", "success", "Logged out.")
}

func (h *AdminHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	data := AdminListPageData{BasePageData: h.baseData(r, "Products")}

	products, err := h.catalog.ListProducts(r.Context(), models.ProductFilter{})
	if err != nil {
		h.log(r).Error("Failed to list products", "error", err)
		data.Message = "Could not load products."
		data.MessageStatus = "error"
	} else {
		data.Products = h.catalog.SerializeAll(products)
		data.TotalProducts = len(products)
	}

	h.render.HTML(w, http.StatusOK, "admin/list", data)
}

func (h *AdminHandler) Seed(w http.ResponseWriter, r *http.Request) {
	auth := middlewares.AuthorizationFromContext(r.Context())

	result, err := h.mutations.SeedDemoData(r.Context(), auth)
	if err != nil {
		h.log(r).Error("Failed to seed demo data", "error", err)
		h.redirect(w, r, h.path("/admin"), "error", failureMessage(err))
		return
	}

	message := "Seed data added."
	if result.CategoriesCreated == 0 && result.ProductsCreated == 0 {
		message = "Catalog already has data, nothing seeded."
	}
	h.redirect(w, r, h.path("/admin"), "success", message)
}

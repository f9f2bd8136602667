package routes

import (
	"log/slog"
	"net/http"

	"github.com/expertwinding/storefront/app/handlers"
	"github.com/expertwinding/storefront/app/handlers/admin"
	"github.com/expertwinding/storefront/app/middlewares"
	"github.com/expertwinding/storefront/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
)

type Dependencies struct {
	Home     *handlers.HomeHandler
	Product  *handlers.ProductHandler
	API      *handlers.APIHandler
	Admin    *admin.AdminHandler
	Sessions sessions.SessionStore
	Logger   *slog.Logger

	AdminPath       string
	StaticDir       string
	UploadDir       string
	UploadURLPrefix string

	// CSRFKey enables CSRF protection on the admin routes when set.
	CSRFKey      []byte
	SecureCookie bool
}

func NewRouter(deps Dependencies) *mux.Router {
	router := mux.NewRouter()
	router.Use(middlewares.Recoverer(deps.Logger), middlewares.RequestLogger(deps.Logger))
	router.NotFoundHandler = http.HandlerFunc(deps.Product.NotFound)

	router.HandleFunc("/", deps.Home.Index).Methods(http.MethodGet)
	router.HandleFunc("/about", deps.Home.About).Methods(http.MethodGet)
	router.HandleFunc("/product/{id:[0-9]+}", deps.Product.ProductDetail).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", deps.API.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", deps.API.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/categories", deps.API.ListCategories).Methods(http.MethodGet)

	uploads := http.FileServer(http.Dir(deps.UploadDir))
	router.PathPrefix(deps.UploadURLPrefix + "/").Handler(http.StripPrefix(deps.UploadURLPrefix+"/", uploads)).Methods(http.MethodGet)
	if deps.UploadURLPrefix != "/uploads" {
		router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", uploads)).Methods(http.MethodGet)
	}
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir)))).Methods(http.MethodGet)

	adminRouter := router.PathPrefix(deps.AdminPath).Subrouter()
	if len(deps.CSRFKey) > 0 {
		adminRouter.Use(csrf.Protect(deps.CSRFKey,
			csrf.Secure(deps.SecureCookie),
			csrf.Path(deps.AdminPath),
			csrf.FieldName("csrf_token"),
		))
	}

	adminRouter.HandleFunc("/login", deps.Admin.LoginPage).Methods(http.MethodGet)
	adminRouter.HandleFunc("/login", deps.Admin.LoginPost).Methods(http.MethodPost)
	adminRouter.HandleFunc("/logout", deps.Admin.Logout).Methods(http.MethodGet)

	protected := adminRouter.NewRoute().Subrouter()
	protected.Use(middlewares.AdminAuthMiddleware(deps.Sessions, deps.AdminPath+"/login"))

	protected.HandleFunc("/admin", deps.Admin.ListPage).Methods(http.MethodGet)
	protected.HandleFunc("/add", deps.Admin.AddProductPage).Methods(http.MethodGet)
	protected.HandleFunc("/add", deps.Admin.AddProductPost).Methods(http.MethodPost)
	protected.HandleFunc("/edit/{id:[0-9]+}", deps.Admin.EditProductPage).Methods(http.MethodGet)
	protected.HandleFunc("/edit/{id:[0-9]+}", deps.Admin.EditProductPost).Methods(http.MethodPost)
	protected.HandleFunc("/delete/{id:[0-9]+}", deps.Admin.DeleteProductPost).Methods(http.MethodPost)
	protected.HandleFunc("/seed", deps.Admin.Seed).Methods(http.MethodGet)
	protected.HandleFunc("/categories", deps.Admin.GetCategoriesPage).Methods(http.MethodGet)
	protected.HandleFunc("/categories/add", deps.Admin.AddCategoryPost).Methods(http.MethodPost)
	protected.HandleFunc("/categories/delete/{id:[0-9]+}", deps.Admin.DeleteCategoryPost).Methods(http.MethodPost)

	return router
}

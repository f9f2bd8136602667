package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/expertwinding/storefront/app/configs"
	"github.com/expertwinding/storefront/app/db/seeders"
	"github.com/expertwinding/storefront/app/handlers"
	"github.com/expertwinding/storefront/app/handlers/admin"
	"github.com/expertwinding/storefront/app/helpers"
	"github.com/expertwinding/storefront/app/models/migrations"
	"github.com/expertwinding/storefront/app/repositories"
	"github.com/expertwinding/storefront/app/routes"
	"github.com/expertwinding/storefront/app/services"
	"github.com/expertwinding/storefront/app/utils/renderer"
	"github.com/expertwinding/storefront/app/utils/sessions"
	"github.com/expertwinding/storefront/app/utils/uploads"
	"gorm.io/gorm"
)

type App struct {
	DB        *gorm.DB
	Catalog   *services.CatalogQueryService
	Mutations *services.CatalogMutationService
	Router    http.Handler
}

// NewApp wires repositories, services and handlers around an open database.
func NewApp(env configs.ENV, db *gorm.DB, keys *configs.SessionKeys, logger *slog.Logger) *App {
	productRepo := repositories.NewProductRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)

	images := uploads.NewImageStore(uploads.Config{
		UploadDir:       env.UploadDir,
		PublicPrefix:    env.UploadURLPrefix,
		PlaceholderPath: env.PlaceholderPath,
	})
	validate := helpers.NewValidator()

	catalog := services.NewCatalogQueryService(productRepo, categoryRepo, images)
	mutations := services.NewCatalogMutationService(productRepo, categoryRepo, images, seeders.NewDemoSeeder(db), validate, logger)

	site := helpers.SiteInfo{ShopName: env.ShopName, ShopPhone: env.ShopPhone, AdminPath: env.AdminPath}
	render := renderer.New(env.TemplatesDir, !env.IsProduction())
	sessionStore := sessions.NewCookieSessionStore(keys.AuthKey, keys.EncKey, env.IsProduction(), logger)

	router := routes.NewRouter(routes.Dependencies{
		Home:    handlers.NewHomeHandler(render, catalog, site),
		Product: handlers.NewProductHandler(render, catalog, site),
		API:     handlers.NewAPIHandler(render, catalog),
		Admin: admin.NewAdminHandler(render, validate, catalog, mutations, sessionStore, site,
			admin.Credentials{Password: env.AdminPassword, PasswordHash: env.AdminPasswordHash},
			env.MaxUploadMB<<20, logger),
		Sessions:        sessionStore,
		Logger:          logger,
		AdminPath:       env.AdminPath,
		StaticDir:       env.StaticDir,
		UploadDir:       env.UploadDir,
		UploadURLPrefix: env.UploadURLPrefix,
		CSRFKey:         keys.CSRFKey,
		SecureCookie:    env.IsProduction(),
	})

	return &App{DB: db, Catalog: catalog, Mutations: mutations, Router: router}
}

// Serve opens the database, makes sure the schema exists and runs the HTTP
// server until ctx is cancelled or the process is interrupted.
func Serve(ctx context.Context, env configs.ENV, logger *slog.Logger) error {
	db, err := configs.OpenConnection(env, logger)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if err := migrations.EnsureSchema(db); err != nil {
		return fmt.Errorf("schema setup failed: %w", err)
	}

	keys, err := configs.LoadSessionKeys(env, logger)
	if err != nil {
		return err
	}

	app := NewApp(env, db, keys, logger)

	server := &http.Server{
		Addr:              env.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", server.Addr, "db_driver", env.DBDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

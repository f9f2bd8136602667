package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/expertwinding/storefront/app/configs"
	"github.com/expertwinding/storefront/app/db/seeders"
	"github.com/expertwinding/storefront/app/helpers"
	"github.com/expertwinding/storefront/app/models/migrations"
	"github.com/expertwinding/storefront/app/repositories"
	"github.com/expertwinding/storefront/app/services"
	"github.com/expertwinding/storefront/app/utils/uploads"
	"github.com/urfave/cli/v3"
)

func NewCommand(env configs.ENV, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "storefront",
		Usage: "Product catalog with a hidden admin area",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the web server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return Serve(ctx, env, logger)
				},
			},
			{
				Name:  "migrate",
				Usage: "Create missing catalog tables",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, logger)
					if err != nil {
						return err
					}
					if err := migrations.EnsureSchema(db); err != nil {
						return err
					}
					logger.Info("Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Insert demo categories and products into an empty catalog",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, logger)
					if err != nil {
						return err
					}
					if err := migrations.EnsureSchema(db); err != nil {
						return err
					}
					mutations := services.NewCatalogMutationService(
						repositories.NewProductRepository(db),
						repositories.NewCategoryRepository(db),
						uploads.NewImageStore(uploads.Config{UploadDir: env.UploadDir, PublicPrefix: env.UploadURLPrefix, PlaceholderPath: env.PlaceholderPath}),
						seeders.NewDemoSeeder(db),
						helpers.NewValidator(),
						logger,
					)
					_, err = mutations.SeedDemoData(ctx, services.AdminAuthorization())
					return err
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate session and CSRF keys for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateSessionKeys(os.Stdout); err != nil {
						return err
					}
					logger.Info("Key generation complete. Copy the keys to your .env file.")
					return nil
				},
			},
			{
				Name:      "hash-password",
				Usage:     "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
				ArgsUsage: "<password>",
				Action: func(ctx context.Context, c *cli.Command) error {
					password := c.Args().First()
					if password == "" {
						return errors.New("password argument is required")
					}
					hash, err := helpers.HashPassword(password)
					if err != nil {
						return err
					}
					fmt.Fprintf(os.Stdout, "ADMIN_PASSWORD_HASH=%s\n", hash)
					return nil
				},
			},
		},
	}
}

func RunCli(env configs.ENV, logger *slog.Logger) {
	if err := NewCommand(env, logger).Run(context.Background(), os.Args); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

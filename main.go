package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/expertwinding/storefront/app/cmd"
	"github.com/expertwinding/storefront/app/configs"
	"github.com/expertwinding/storefront/app/utils/logger"
)

func main() {
	env := configs.LoadEnv()

	cfg := logger.DefaultConfig()
	cfg.Level = env.LogLevel
	cfg.Format = env.LogFormat
	cfg.Output = env.LogOutput
	cfg.FilePath = env.LogFile
	log, err := logger.Init(cfg)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		cmd.RunCli(env, log)
		return
	}

	if err := cmd.Serve(context.Background(), env, log); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

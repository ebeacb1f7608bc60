package main

import (
	"coinlings/internal/app"
	"coinlings/internal/config"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

const (
	envDev   = "dev"
	envProd  = "prod"
	envLocal = "local"
)

func main() {
	cfg := config.MustLoad()

	fmt.Println(`
  ___  ___  _ _ __  _    _             ___ 
 / __|/ _ \| | '_ \| |  (_)_ _  __ _  / __|
| (__| (_) | | | | | |__| | ' \/ _' | \__ \
 \___|\___/|_|_| |_|____|_|_||_\__, | |___/
                               |___/       `)

	log := setupLogger(cfg.Server.Env)

	log.Info("Starting http",
		slog.String("env", cfg.Server.Env),
		slog.String("storage", cfg.Database.Driver),
		slog.String("sprites", cfg.Sprites.Driver),
	)

	application := app.New(log, cfg)

	go application.HTTPServer.MustRun()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	sign := <-stop

	log.Info("Application stopping", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := application.Stop(ctx); err != nil {
		log.Error("failed to stop application", slog.String("error", err.Error()))
		return
	}

	log.Info("Application stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal, envDev:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return log
}

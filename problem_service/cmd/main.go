package main

import (
	"log"
	"os"

	"github.com/DeadlyParkour777/problemset/pkg/logger"
	"github.com/DeadlyParkour777/problemset/problem_service/cmd/app"
	"github.com/DeadlyParkour777/problemset/problem_service/internal/config"
)

func main() {
	cfg := config.ConfigInit()

	appLog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := run(cfg, appLog); err != nil {
		appLog.Error("problem service stopped", "error", err)
		appLog.Sync()
		os.Exit(1)
	}
	appLog.Sync()
}

func run(cfg config.Config, appLog *logger.Logger) error {
	appLog.Info("starting problem service")

	application, err := app.New(cfg, appLog)
	if err != nil {
		return err
	}

	return application.Run()
}

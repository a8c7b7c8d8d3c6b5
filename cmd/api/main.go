package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"desadarit/internal/api"
	"desadarit/internal/auth"
	"desadarit/internal/config"
	"desadarit/internal/database"
	"desadarit/internal/storage"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("api bootstrapped",
		slog.String("db_host", cfg.Database.Host),
		slog.Int("db_port", cfg.Database.Port),
		slog.String("db_name", cfg.Database.Name),
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	logger.Info("database connection ready")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	logger.Info("database migrated")

	store, err := storage.NewStore(cfg.Upload.Dir)
	if err != nil {
		log.Fatalf("init upload store: %v", err)
	}

	authService, err := auth.NewService(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	router := api.NewRouter(store, logger)
	api.RegisterRoutes(router, db, authService, store, logger, cfg)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("api listening", slog.String("address", address))

	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}

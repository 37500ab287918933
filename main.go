package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Marquee/config"
	"Marquee/database"
	"Marquee/handlers"
	"Marquee/logger"
	"Marquee/recommend"
	"Marquee/server"
	"Marquee/services"
	"Marquee/tmdb"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	appLogger := logger.Init(cfg.Environment, cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize session store
	services.InitSessionStore(cfg)

	// Connect to database
	if err := database.Connect(ctx, cfg); err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(ctx, database.DB); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	movies := database.NewMovieRepository(database.DB)
	users := database.NewUserRepository(database.DB)

	upstream := tmdb.NewClient(cfg)
	recommender := recommend.NewClient(cfg.RecommendationURL, &http.Client{Timeout: 15 * time.Second})

	synchronizer := services.NewSynchronizer(movies, upstream, services.SyncOptionsFromConfig(cfg))
	defer synchronizer.Close()

	catalog := services.NewCatalogService(movies, upstream, synchronizer)
	accounts := services.NewAuthService(users)
	watchlist := services.NewWatchlistService(users, movies, recommender)

	refresher, err := services.NewDailyRefresher(cfg, synchronizer)
	if err != nil {
		slog.Error("Failed to configure daily refresher", "error", err)
		os.Exit(1)
	}

	h := handlers.New(catalog, accounts, watchlist, synchronizer).WithAdmins(cfg.AdminUserIDs)
	router := handlers.NewRouter(cfg, h, accounts)

	srvCfg := server.DefaultConfig(":" + cfg.ServerPort)
	httpServer := server.CreateServer(srvCfg, router)

	sup := server.NewSupervisor(appLogger, srvCfg.ShutdownTimeout)
	sup.Add(server.NewHTTPService(httpServer, srvCfg.ShutdownTimeout))
	sup.Add(refresher)

	slog.Info("Marquee starting",
		"port", cfg.ServerPort,
		"environment", cfg.Environment,
		"daily_sync_at", cfg.SyncDailyAt)

	if err := sup.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Supervisor stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("Marquee stopped")
}

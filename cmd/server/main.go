package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"planets-procgen/internal/auth"
	"planets-procgen/internal/game"
	gameHandlers "planets-procgen/internal/game/handlers"
	"planets-procgen/internal/initializers"
	"planets-procgen/internal/middleware"
	"planets-procgen/internal/planet"
	planetHandlers "planets-procgen/internal/planet/handlers"
	"planets-procgen/internal/region"
	regionHandlers "planets-procgen/internal/region/handlers"
	"planets-procgen/internal/server"
	serverHandlers "planets-procgen/internal/server/handlers"
	"planets-procgen/internal/shared/config"
	"planets-procgen/internal/shared/database"
	"planets-procgen/internal/shared/logger"
	"planets-procgen/internal/shared/redis"
)

func main() {
	adminToken := flag.String("admin-token", "", "print an admin token for `subject` and exit")
	flag.Parse()

	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Init()

	if err := run(*adminToken); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(adminToken string) error {
	cfg := config.GlobalConfig
	log := slog.With("component", "main")

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration)
	if err != nil {
		return err
	}

	if adminToken != "" {
		token, err := issuer.Generate(adminToken, auth.RoleAdmin)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaults, err := initializers.Resolve(ctx, cfg.Procgen.InitializersPath, initializers.RemoteConfig{
		URL:          cfg.Procgen.RemoteURL,
		ClientID:     cfg.Procgen.ClientID,
		ClientSecret: cfg.Procgen.ClientSecret,
		TokenURL:     cfg.Procgen.TokenURL,
	})
	if err != nil {
		return fmt.Errorf("failed to resolve default initializers: %w", err)
	}

	defaultDeriver, err := planet.NewDeriver(defaults, slog.Default())
	if err != nil {
		return err
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	if err := db.RunMigrations(ctx, cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	cache, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}

	var pingCache func(ctx context.Context) error
	if cache != nil {
		defer func() {
			if err := cache.Close(); err != nil {
				log.Error("Failed to close redis", "error", err)
			}
		}()
		pingCache = func(ctx context.Context) error { return cache.Ping(ctx).Err() }
	}

	gameService := game.NewService(game.NewRepository(db, slog.Default()), defaults, slog.Default())
	planetService := planet.NewService(
		planet.NewRepository(db, slog.Default()),
		gameService,
		defaultDeriver,
		cache,
		cfg.Procgen.CacheTTL,
		slog.Default(),
	)
	gameService.OnDelete(planetService.ForgetGame)
	regionService := region.NewService(planetService, cfg.Procgen.Workers, cfg.Procgen.MaxScanSize, slog.Default())

	routes := server.NewRoutes(
		serverHandlers.NewHealthHandler(db, pingCache),
		gameHandlers.NewGameHandler(gameService),
		planetHandlers.NewPlanetHandler(planetService),
		regionHandlers.NewScanHandler(regionService),
		middleware.NewAuth(issuer),
		slog.Default(),
	)

	rateLimiter := middleware.NewRateLimiter(ctx, middleware.RateLimitConfig{
		Enabled:           cfg.RateLimit.Enabled,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
	})
	cors := middleware.NewCORS(cfg.Frontend)
	handler := cors.Middleware(rateLimiter.Middleware(routes.Setup()))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

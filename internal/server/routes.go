package server

import (
	"log/slog"
	"net/http"

	gameHandlers "planets-procgen/internal/game/handlers"
	"planets-procgen/internal/middleware"
	planetHandlers "planets-procgen/internal/planet/handlers"
	regionHandlers "planets-procgen/internal/region/handlers"
	serverHandlers "planets-procgen/internal/server/handlers"
)

type Routes struct {
	health  *serverHandlers.HealthHandler
	games   *gameHandlers.GameHandler
	planets *planetHandlers.PlanetHandler
	scans   *regionHandlers.ScanHandler
	auth    *middleware.Auth
	logger  *slog.Logger
}

func NewRoutes(
	health *serverHandlers.HealthHandler,
	games *gameHandlers.GameHandler,
	planets *planetHandlers.PlanetHandler,
	scans *regionHandlers.ScanHandler,
	auth *middleware.Auth,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		health:  health,
		games:   games,
		planets: planets,
		scans:   scans,
		auth:    auth,
		logger:  logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	// Public endpoints
	mux.Handle("GET /api/server/health", r.health)
	mux.HandleFunc("GET /api/planets/derive", r.planets.Derive)
	mux.HandleFunc("GET /api/games", r.games.GetGames)
	mux.HandleFunc("GET /api/games/{id}", r.games.GetGame)
	mux.HandleFunc("GET /api/games/{id}/planets", r.planets.GetByGameID)
	mux.HandleFunc("GET /api/games/{id}/planets/{x}/{y}", r.planets.GetStored)

	// Admin-only endpoints (authenticated + admin role)
	mux.Handle("POST /api/games", r.auth.RequireAdmin(http.HandlerFunc(r.games.CreateGame)))
	mux.Handle("DELETE /api/games/{id}", r.auth.RequireAdmin(http.HandlerFunc(r.games.DeleteGame)))
	mux.Handle("POST /api/games/{id}/scan", r.auth.RequireAdmin(http.HandlerFunc(r.scans.Scan)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/planets/derive", "/api/games", "/api/games/{id}", "/api/games/{id}/planets"},
		"admin_endpoints", []string{"POST /api/games", "DELETE /api/games/{id}", "POST /api/games/{id}/scan"},
	)

	return mux
}

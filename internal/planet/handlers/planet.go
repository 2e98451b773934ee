package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"planets-procgen/internal/location"
	"planets-procgen/internal/planet"
	"planets-procgen/internal/shared/errors"
	"planets-procgen/internal/shared/response"
)

type PlanetHandler struct {
	service *planet.Service
}

func NewPlanetHandler(service *planet.Service) *PlanetHandler {
	return &PlanetHandler{service: service}
}

// DeriveResponse describes a coordinate; Planet is null for empty space.
type DeriveResponse struct {
	Coords location.Coords `json:"coords"`
	GameID int             `json:"game_id,omitempty"`
	Planet *planet.Planet  `json:"planet"`
}

// Derive resolves ?x=&y= under the default bundle without touching storage.
func (h *PlanetHandler) Derive(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "derive_planet")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	c, ok, err := coordsFromQuery(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if !ok {
		response.Error(w, r, logger, errors.Validation("x and y query parameters are required"))
		return
	}

	p, err := h.service.Derive(c)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, DeriveResponse{Coords: c, Planet: p})
}

// GetByGameID derives the planet at ?x=&y= for a game, or lists the planets
// stored for the game when no coordinate is given.
func (h *PlanetHandler) GetByGameID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_planets_by_game")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameID, err := gameIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	c, ok, err := coordsFromQuery(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if ok {
		p, err := h.service.DeriveForGame(ctx, gameID, c)
		if err != nil {
			response.Error(w, r, logger, err)
			return
		}
		response.Success(w, http.StatusOK, DeriveResponse{Coords: c, GameID: gameID, Planet: p})
		return
	}

	records, err := h.service.GetPlanetsByGameID(ctx, gameID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if records == nil {
		records = []planet.Record{}
	}

	response.Success(w, http.StatusOK, records)
}

// GetStored returns the stored planet at /{x}/{y} of a game.
func (h *PlanetHandler) GetStored(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_stored_planet")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameID, err := gameIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	x, err := parseCoordinate("x", r.PathValue("x"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	y, err := parseCoordinate("y", r.PathValue("y"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	record, err := h.service.GetPlanet(ctx, gameID, location.Coords{X: x, Y: y})
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, record)
}

func gameIDFromPath(r *http.Request) (int, error) {
	gameIDStr := r.PathValue("id")
	if gameIDStr == "" {
		return 0, errors.Validation("game ID is required")
	}

	gameID, err := strconv.Atoi(gameIDStr)
	if err != nil {
		return 0, errors.WrapValidation("invalid game ID format", err)
	}
	return gameID, nil
}

// coordsFromQuery reports ok=false when neither x nor y is present.
func coordsFromQuery(r *http.Request) (location.Coords, bool, error) {
	query := r.URL.Query()
	xStr, yStr := query.Get("x"), query.Get("y")
	if xStr == "" && yStr == "" {
		return location.Coords{}, false, nil
	}

	x, err := parseCoordinate("x", xStr)
	if err != nil {
		return location.Coords{}, false, err
	}
	y, err := parseCoordinate("y", yStr)
	if err != nil {
		return location.Coords{}, false, err
	}

	c := location.Coords{X: x, Y: y}
	if err := c.Validate(); err != nil {
		return location.Coords{}, false, err
	}
	return c, true, nil
}

func parseCoordinate(name, value string) (int64, error) {
	if value == "" {
		return 0, errors.Validationf("%s is required", name)
	}
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.WrapValidation("invalid "+name+" coordinate", err)
	}
	return v, nil
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"planets-procgen/internal/game"
	"planets-procgen/internal/shared/errors"
	"planets-procgen/internal/shared/response"
)

type GameHandler struct {
	service *game.Service
}

func NewGameHandler(service *game.Service) *GameHandler {
	return &GameHandler{service: service}
}

// CreateGame accepts a name, a description and an optional initializers
// object. Fields missing from initializers keep their default values.
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_game")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameConfig := game.GameConfig{
		Initializers: h.service.DefaultInitializers(),
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&gameConfig); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	createdGame, err := h.service.CreateGame(ctx, gameConfig)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, createdGame)
}

func (h *GameHandler) GetGames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_games")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	games, err := h.service.GetAllGames(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if games == nil {
		games = []game.Game{}
	}

	response.Success(w, http.StatusOK, games)
}

func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_game")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameID, err := gameIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	g, err := h.service.GetGame(ctx, gameID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, g)
}

func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "delete_game")

	if r.Method != http.MethodDelete {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameID, err := gameIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.DeleteGame(ctx, gameID); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusNoContent, nil)
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

package game

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"planets-procgen/internal/initializers"
	"planets-procgen/internal/shared/errors"
)

const maxNameLength = 100

type Service struct {
	gameRepo *Repository
	defaults *initializers.Initializers
	logger   *slog.Logger

	mu       sync.RWMutex
	onDelete []func(gameID int)
}

// NewService builds the game service. defaults is the bundle given to games
// created without one.
func NewService(gameRepo *Repository, defaults *initializers.Initializers, logger *slog.Logger) *Service {
	return &Service{
		gameRepo: gameRepo,
		defaults: defaults,
		logger:   logger,
	}
}

// DefaultInitializers returns a copy of the bundle used for new games.
func (s *Service) DefaultInitializers() *initializers.Initializers {
	inits := *s.defaults
	return &inits
}

// OnDelete registers fn to run after a game is deleted.
func (s *Service) OnDelete(fn func(gameID int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDelete = append(s.onDelete, fn)
}

// CreateGame validates the bundle before anything is stored.
func (s *Service) CreateGame(ctx context.Context, config GameConfig) (*Game, error) {
	logger := s.logger.With("component", "game_service", "operation", "create_game", "name", config.Name)
	logger.Info("Creating new game")

	config.Name = strings.TrimSpace(config.Name)
	if config.Name == "" {
		return nil, errors.Validation("game name is required")
	}
	if len(config.Name) > maxNameLength {
		return nil, errors.Validationf("game name must be at most %d characters", maxNameLength)
	}

	if config.Initializers == nil {
		config.Initializers = s.DefaultInitializers()
	}
	if err := config.Initializers.Validate(); err != nil {
		logger.Debug("Rejecting game with invalid initializers", "error", err)
		return nil, err
	}

	game, err := s.gameRepo.CreateGame(ctx, config)
	if err != nil {
		return nil, err
	}

	logger.Info("Game created successfully", "game_id", game.ID)
	return game, nil
}

func (s *Service) GetGame(ctx context.Context, gameID int) (*Game, error) {
	return s.gameRepo.GetGameByID(ctx, gameID)
}

func (s *Service) GetAllGames(ctx context.Context) ([]Game, error) {
	return s.gameRepo.GetAllGames(ctx)
}

// GetInitializers returns the parameter bundle of a game.
func (s *Service) GetInitializers(ctx context.Context, gameID int) (*initializers.Initializers, error) {
	game, err := s.gameRepo.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.Initializers, nil
}

// DeleteGame deletes a game; its stored planets go with it.
func (s *Service) DeleteGame(ctx context.Context, gameID int) error {
	logger := s.logger.With("component", "game_service", "operation", "delete_game", "game_id", gameID)
	logger.Info("Deleting game")

	if err := s.gameRepo.DeleteGame(ctx, gameID); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fn := range s.onDelete {
		fn(gameID)
	}
	return nil
}

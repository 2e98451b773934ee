package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"planets-procgen/internal/initializers"
	"planets-procgen/internal/shared/database"
	apperrors "planets-procgen/internal/shared/errors"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing game repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

const gameColumns = `id, name, description, initializers, created_at, updated_at`

func (r *Repository) CreateGame(ctx context.Context, config GameConfig) (*Game, error) {
	logger := r.logger.With(
		"component", "game_repository",
		"operation", "create_game",
		"name", config.Name,
	)
	logger.Info("Creating new game")

	initsJSON, err := json.Marshal(config.Initializers)
	if err != nil {
		logger.Error("Failed to marshal initializers", "error", err)
		return nil, fmt.Errorf("failed to marshal initializers: %w", err)
	}

	query := `
		INSERT INTO games (name, description, initializers)
		VALUES ($1, $2, $3)
		RETURNING ` + gameColumns

	game, err := scanGame(r.db.QueryRowContext(ctx, query, config.Name, config.Description, string(initsJSON)))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperrors.Conflictf("game %q already exists", config.Name)
		}
		logger.Error("Failed to create game", "error", err)
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	logger.Info("Game created successfully", "game_id", game.ID)
	return game, nil
}

func (r *Repository) GetGameByID(ctx context.Context, gameID int) (*Game, error) {
	logger := r.logger.With("component", "game_repository", "operation", "get_game", "game_id", gameID)
	logger.Debug("Getting game by ID")

	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE id = $1
	`

	game, err := scanGame(r.db.QueryRowContext(ctx, query, gameID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("game %d not found", gameID)
		}
		logger.Error("Database error getting game", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	logger.Debug("Game retrieved", "name", game.Name)
	return game, nil
}

func (r *Repository) GetAllGames(ctx context.Context) ([]Game, error) {
	logger := r.logger.With("component", "game_repository", "operation", "get_all_games")
	logger.Debug("Getting all games")

	query := `
		SELECT ` + gameColumns + `
		FROM games
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query games", "error", err)
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var games []Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			logger.Error("Failed to scan game row", "error", err)
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, *game)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	logger.Debug("Games retrieved", "count", len(games))
	return games, nil
}

func (r *Repository) DeleteGame(ctx context.Context, gameID int) error {
	logger := r.logger.With("component", "game_repository", "operation", "delete_game", "game_id", gameID)
	logger.Info("Deleting game and its stored planets")

	query := `DELETE FROM games WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, gameID)
	if err != nil {
		logger.Error("Failed to delete game", "error", err)
		return fmt.Errorf("failed to delete game: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logger.Error("Failed to get rows affected", "error", err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		logger.Warn("Game not found for deletion")
		return apperrors.NotFoundf("game %d not found", gameID)
	}

	logger.Info("Game deleted successfully")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*Game, error) {
	var (
		game      Game
		initsJSON []byte
	)
	err := row.Scan(
		&game.ID,
		&game.Name,
		&game.Description,
		&initsJSON,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	game.Initializers = new(initializers.Initializers)
	if err := json.Unmarshal(initsJSON, game.Initializers); err != nil {
		return nil, fmt.Errorf("failed to decode initializers of game %d: %w", game.ID, err)
	}
	return &game, nil
}

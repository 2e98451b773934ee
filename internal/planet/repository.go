package planet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"planets-procgen/internal/location"
	"planets-procgen/internal/shared/database"
	apperrors "planets-procgen/internal/shared/errors"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing planet repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

const recordColumns = `game_id, x, y, location_id, level, type, space_type, noise, discovered_at`

// batchRow is the JSON shape consumed by json_array_elements in UpsertPlanetsBatch.
type batchRow struct {
	X          int64  `json:"x"`
	Y          int64  `json:"y"`
	LocationID string `json:"location_id"`
	Level      int    `json:"level"`
	Type       string `json:"type"`
	SpaceType  string `json:"space_type"`
	Noise      int    `json:"noise"`
}

// storeBatchSize bounds the JSON payload of a single insert.
const storeBatchSize = 500

// StorePlanets stores planets in batches of storeBatchSize inside one
// transaction, so a failed scan leaves nothing behind.
func (r *Repository) StorePlanets(ctx context.Context, gameID int, planets []Planet) (int, error) {
	if len(planets) == 0 {
		return 0, nil
	}

	stored := 0
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		for start := 0; start < len(planets); start += storeBatchSize {
			end := min(start+storeBatchSize, len(planets))
			n, err := r.UpsertPlanetsBatch(ctx, gameID, planets[start:end], tx)
			if err != nil {
				return err
			}
			stored += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stored, nil
}

// UpsertPlanetsBatch stores planets for a game in a single statement. Planets
// already stored are left untouched; the number of new rows is returned.
func (r *Repository) UpsertPlanetsBatch(ctx context.Context, gameID int, planets []Planet, tx *database.Tx) (int, error) {
	if len(planets) == 0 {
		return 0, nil
	}

	exec := r.getExecutor(tx)

	logger := r.logger.With(
		"component", "planet_repository",
		"operation", "upsert_planets_batch",
		"game_id", gameID,
		"count", len(planets),
	)
	logger.Debug("Storing planets in batch")

	rows := make([]batchRow, len(planets))
	for i, p := range planets {
		rows[i] = batchRow{
			X:          p.Coords.X,
			Y:          p.Coords.Y,
			LocationID: p.Location.Hex(),
			Level:      p.Level,
			Type:       planetTypeKeys[p.Type],
			SpaceType:  spaceTypeKeys[p.SpaceType],
			Noise:      p.Noise,
		}
	}

	planetsJSON, err := json.Marshal(rows)
	if err != nil {
		logger.Error("Failed to marshal planets to JSON", "error", err)
		return 0, fmt.Errorf("failed to marshal planets: %w", err)
	}

	query := `
		INSERT INTO planets (game_id, x, y, location_id, level, type, space_type, noise)
		SELECT
			$1,
			(data->>'x')::integer,
			(data->>'y')::integer,
			data->>'location_id',
			(data->>'level')::smallint,
			data->>'type',
			data->>'space_type',
			(data->>'noise')::integer
		FROM json_array_elements($2::json) AS data
		ON CONFLICT (game_id, x, y) DO NOTHING`

	result, err := exec.ExecContext(ctx, query, gameID, string(planetsJSON))
	if err != nil {
		logger.Error("Failed to batch store planets", "error", err)
		return 0, fmt.Errorf("failed to batch store planets: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		logger.Error("Failed to read affected rows", "error", err)
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	logger.Info("Planets batch stored", "inserted", inserted)
	return int(inserted), nil
}

func (r *Repository) GetPlanetsByGameID(ctx context.Context, gameID int) ([]Record, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "get_planets_by_game", "game_id", gameID)
	logger.Debug("Getting planets by game ID")

	query := `
		SELECT ` + recordColumns + `
		FROM planets
		WHERE game_id = $1
		ORDER BY level DESC, x, y
	`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		logger.Error("Failed to query planets", "error", err)
		return nil, fmt.Errorf("failed to query planets: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			logger.Error("Failed to scan planet row", "error", err)
			return nil, fmt.Errorf("failed to scan planet: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating planets: %w", err)
	}

	logger.Debug("Planets retrieved", "count", len(records))
	return records, nil
}

func (r *Repository) GetPlanet(ctx context.Context, gameID int, c location.Coords) (*Record, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "get_planet", "game_id", gameID, "x", c.X, "y", c.Y)
	logger.Debug("Getting planet")

	query := `
		SELECT ` + recordColumns + `
		FROM planets
		WHERE game_id = $1 AND x = $2 AND y = $3
	`

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, gameID, c.X, c.Y))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("no stored planet at %s in game %d", c, gameID)
	}
	if err != nil {
		logger.Error("Failed to get planet", "error", err)
		return nil, fmt.Errorf("failed to get planet: %w", err)
	}

	return record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		record     Record
		locationID string
		planetType string
		spaceType  string
	)
	err := row.Scan(
		&record.GameID,
		&record.Coords.X,
		&record.Coords.Y,
		&locationID,
		&record.Level,
		&planetType,
		&spaceType,
		&record.Noise,
		&record.DiscoveredAt,
	)
	if err != nil {
		return nil, err
	}

	if record.Location, err = location.ParseID(locationID); err != nil {
		return nil, err
	}
	if err := record.Type.UnmarshalText([]byte(planetType)); err != nil {
		return nil, err
	}
	if err := record.SpaceType.UnmarshalText([]byte(spaceType)); err != nil {
		return nil, err
	}
	return &record, nil
}

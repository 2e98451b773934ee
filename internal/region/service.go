package region

import (
	"context"
	"log/slog"

	"planets-procgen/internal/planet"
	"planets-procgen/internal/shared/errors"
)

// PlanetSource supplies game derivers and stores what a scan finds.
type PlanetSource interface {
	DeriverForGame(ctx context.Context, gameID int) (*planet.Deriver, error)
	StorePlanets(ctx context.Context, gameID int, planets []planet.Planet) (int, error)
}

type Service struct {
	planets     PlanetSource
	workers     int
	maxScanSize int64
	logger      *slog.Logger
}

func NewService(planets PlanetSource, workers int, maxScanSize int64, logger *slog.Logger) *Service {
	logger.Debug("Initializing region service", "workers", workers, "max_scan_size", maxScanSize)

	return &Service{
		planets:     planets,
		workers:     workers,
		maxScanSize: maxScanSize,
		logger:      logger,
	}
}

// ScanReport summarizes one scan of a game region.
type ScanReport struct {
	GameID  int             `json:"game_id"`
	Region  Square          `json:"region"`
	Stored  int             `json:"stored"`
	Stats   *Stats          `json:"stats"`
	Summary string          `json:"summary"`
	Planets []planet.Planet `json:"planets"`
}

// Scan derives every coordinate of square under the game's bundle and stores
// the planets found. Planets already stored are kept as they are.
func (s *Service) Scan(ctx context.Context, gameID int, square Square) (*ScanReport, error) {
	logger := s.logger.With("component", "region_service", "operation", "scan", "game_id", gameID, "size", square.Size, "offset", square.Offset)
	logger.Info("Scanning region")

	if square.Size > s.maxScanSize {
		return nil, errors.Validationf("region size %d exceeds the maximum of %d", square.Size, s.maxScanSize)
	}

	deriver, err := s.planets.DeriverForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	gen, err := New(square, deriver, stats)
	if err != nil {
		return nil, err
	}

	results, err := Collect(ctx, gen, s.workers)
	if err != nil {
		return nil, err
	}

	planets := make([]planet.Planet, 0, stats.Planets)
	for _, r := range results {
		if r.Planet != nil {
			planets = append(planets, *r.Planet)
		}
	}

	stored, err := s.planets.StorePlanets(ctx, gameID, planets)
	if err != nil {
		return nil, err
	}

	report := &ScanReport{
		GameID:  gameID,
		Region:  square,
		Stored:  stored,
		Stats:   stats,
		Summary: stats.Summary(),
		Planets: planets,
	}

	logger.Info("Region scanned", "summary", report.Summary, "stored", stored)
	return report, nil
}

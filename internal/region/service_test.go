package region_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"planets-procgen/internal/planet"
	"planets-procgen/internal/region"
	"planets-procgen/internal/shared/errors"
)

type fakePlanets struct {
	deriver *planet.Deriver
	stored  map[int][]planet.Planet
}

func (f *fakePlanets) DeriverForGame(_ context.Context, gameID int) (*planet.Deriver, error) {
	if gameID != 1 {
		return nil, errors.NotFoundf("game %d not found", gameID)
	}
	return f.deriver, nil
}

func (f *fakePlanets) StorePlanets(_ context.Context, gameID int, planets []planet.Planet) (int, error) {
	if f.stored == nil {
		f.stored = map[int][]planet.Planet{}
	}
	f.stored[gameID] = append(f.stored[gameID], planets...)
	return len(planets), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestScanStoresFoundPlanets derives the region and hands every planet to storage.
func TestScanStoresFoundPlanets(t *testing.T) {
	planets := &fakePlanets{deriver: newDeriver(t, testInitializers())}
	svc := region.NewService(planets, 2, 8, discardLogger())

	report, err := svc.Scan(context.Background(), 1, region.Square{Size: 3})
	require.NoError(t, err)
	require.Equal(t, 25, report.Stored)
	require.Len(t, report.Planets, 25)
	require.Len(t, planets.stored[1], 25)
	require.Equal(t, 25, report.Stats.Visited)
	require.Equal(t, "25 coordinates scanned, 25 planets found (100%)", report.Summary)
}

// TestScanRejects oversized regions, bad regions and unknown games.
func TestScanRejects(t *testing.T) {
	planets := &fakePlanets{deriver: newDeriver(t, testInitializers())}
	svc := region.NewService(planets, 2, 8, discardLogger())
	ctx := context.Background()

	_, err := svc.Scan(ctx, 1, region.Square{Size: 9})
	require.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	_, err = svc.Scan(ctx, 1, region.Square{Size: 2, Offset: -1})
	require.Equal(t, errors.ErrorTypeInvalidConfig, errors.GetType(err))

	_, err = svc.Scan(ctx, 2, region.Square{Size: 2})
	require.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))

	require.Empty(t, planets.stored)
}

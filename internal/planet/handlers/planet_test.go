package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"planets-procgen/internal/initializers"
	"planets-procgen/internal/planet"
	"planets-procgen/internal/planet/handlers"
	"planets-procgen/internal/shared/database"
	"planets-procgen/internal/shared/errors"
	"planets-procgen/internal/shared/response"
)

type games struct{}

func (games) GetInitializers(_ context.Context, gameID int) (*initializers.Initializers, error) {
	if gameID != 1 {
		return nil, errors.NotFoundf("game %d not found", gameID)
	}
	inits := initializers.Default()
	inits.PlanetRarity = 1
	inits.PerlinLengthScale = 64
	inits.SpacetypeKey = 42
	return inits, nil
}

func newMux(t *testing.T) (*http.ServeMux, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	defaults, err := planet.NewDeriver(initializers.Default(), logger)
	require.NoError(t, err)

	svc := planet.NewService(planet.NewRepository(&database.DB{DB: sqlDB}, logger), games{}, defaults, nil, time.Minute, logger)
	h := handlers.NewPlanetHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/planets/derive", h.Derive)
	mux.HandleFunc("GET /api/games/{id}/planets", h.GetByGameID)
	mux.HandleFunc("GET /api/games/{id}/planets/{x}/{y}", h.GetStored)
	return mux, mock
}

func get(mux http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// TestDerive answers with the planet or null for empty space.
func TestDerive(t *testing.T) {
	mux, _ := newMux(t)

	rec := get(mux, "/api/planets/derive?x=18&y=225")
	require.Equal(t, http.StatusOK, rec.Code)
	var found handlers.DeriveResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&found))
	require.NotNil(t, found.Planet)
	require.Equal(t, 1, found.Planet.Level)
	require.Equal(t, planet.PlanetTypePlanet, found.Planet.Type)

	rec = get(mux, "/api/planets/derive?x=12&y=71")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"coords":{"x":12,"y":71},"planet":null}`, rec.Body.String())
}

// TestDeriveBadInput maps parse and range failures to 400.
func TestDeriveBadInput(t *testing.T) {
	mux, _ := newMux(t)

	cases := map[string]errors.ErrorType{
		"/api/planets/derive":                  errors.ErrorTypeValidation,
		"/api/planets/derive?x=1":              errors.ErrorTypeValidation,
		"/api/planets/derive?x=abc&y=1":        errors.ErrorTypeValidation,
		"/api/planets/derive?x=2147483648&y=0": errors.ErrorTypeOutOfRange,
	}
	for target, errType := range cases {
		rec := get(mux, target)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)

		var body response.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Equal(t, string(errType), body.Error, target)
	}
}

// TestGetByGameID derives under the game's bundle or lists stored planets.
func TestGetByGameID(t *testing.T) {
	mux, mock := newMux(t)

	rec := get(mux, "/api/games/1/planets?x=-46&y=6")
	require.Equal(t, http.StatusOK, rec.Code)
	var found handlers.DeriveResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&found))
	require.Equal(t, 1, found.GameID)
	require.Equal(t, planet.PlanetTypeQuasar, found.Planet.Type)
	require.Equal(t, planet.SpaceTypeSpace, found.Planet.SpaceType)

	mock.ExpectQuery("SELECT (.+) FROM planets").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"game_id", "x", "y", "location_id", "level", "type", "space_type", "noise", "discovered_at"}))
	rec = get(mux, "/api/games/1/planets")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())

	require.Equal(t, http.StatusNotFound, get(mux, "/api/games/2/planets?x=1&y=1").Code)
	require.Equal(t, http.StatusBadRequest, get(mux, "/api/games/abc/planets").Code)
}

// TestGetStoredNotFound reports coordinates that were never scanned.
func TestGetStoredNotFound(t *testing.T) {
	mux, mock := newMux(t)

	mock.ExpectQuery("SELECT (.+) FROM planets").
		WithArgs(1, int64(3), int64(-4)).
		WillReturnRows(sqlmock.NewRows([]string{"game_id", "x", "y", "location_id", "level", "type", "space_type", "noise", "discovered_at"}))

	require.Equal(t, http.StatusNotFound, get(mux, "/api/games/1/planets/3/-4").Code)
	require.Equal(t, http.StatusBadRequest, get(mux, "/api/games/1/planets/3/north").Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

package server_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

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
	"planets-procgen/internal/shared/database"
)

const secret = "0123456789abcdef0123456789abcdef"

var gameColumns = []string{"id", "name", "description", "initializers", "created_at", "updated_at"}

type RoutesSuite struct {
	suite.Suite
	mock   sqlmock.Sqlmock
	mux    *http.ServeMux
	admin  string
	viewer string
}

func (s *RoutesSuite) SetupTest() {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(s.T(), err)
	s.T().Cleanup(func() { _ = sqlDB.Close() })
	s.mock = mock

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := &database.DB{DB: sqlDB}

	defaults, err := planet.NewDeriver(initializers.Default(), logger)
	require.NoError(s.T(), err)

	gameService := game.NewService(game.NewRepository(db, logger), initializers.Default(), logger)
	planetService := planet.NewService(planet.NewRepository(db, logger), gameService, defaults, nil, time.Minute, logger)
	gameService.OnDelete(planetService.ForgetGame)
	regionService := region.NewService(planetService, 2, 8, logger)

	issuer, err := auth.NewIssuer(secret, time.Hour)
	require.NoError(s.T(), err)
	s.admin, err = issuer.Generate("ops", auth.RoleAdmin)
	require.NoError(s.T(), err)
	s.viewer, err = issuer.Generate("guest", auth.RoleViewer)
	require.NoError(s.T(), err)

	s.mux = server.NewRoutes(
		serverHandlers.NewHealthHandler(db, nil),
		gameHandlers.NewGameHandler(gameService),
		planetHandlers.NewPlanetHandler(planetService),
		regionHandlers.NewScanHandler(regionService),
		middleware.NewAuth(issuer),
		logger,
	).Setup()
}

func (s *RoutesSuite) TearDownTest() {
	require.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *RoutesSuite) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

// testBundle admits every coordinate.
func testBundle(t *testing.T) []byte {
	inits := initializers.Default()
	inits.PlanetRarity = 1
	inits.PerlinLengthScale = 64
	inits.SpacetypeKey = 42
	data, err := json.Marshal(inits)
	require.NoError(t, err)
	return data
}

// TestHealth reports the database and a disabled cache.
func (s *RoutesSuite) TestHealth() {
	s.mock.ExpectPing()

	rec := s.do(http.MethodGet, "/api/server/health", "", "")
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var health serverHandlers.HealthResponse
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&health))
	require.Equal(s.T(), "connected", health.Database)
	require.Equal(s.T(), "disabled", health.Cache)
}

// TestCreateGameRequiresAdmin gates creation on the admin role.
func (s *RoutesSuite) TestCreateGameRequiresAdmin() {
	body := `{"name": "Round 1"}`
	require.Equal(s.T(), http.StatusUnauthorized, s.do(http.MethodPost, "/api/games", "", body).Code)
	require.Equal(s.T(), http.StatusForbidden, s.do(http.MethodPost, "/api/games", s.viewer, body).Code)

	now := time.Now()
	s.mock.ExpectQuery("INSERT INTO games").
		WithArgs("Round 1", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(gameColumns).AddRow(1, "Round 1", "", testBundle(s.T()), now, now))

	rec := s.do(http.MethodPost, "/api/games", s.admin, body)
	require.Equal(s.T(), http.StatusCreated, rec.Code)
}

// TestCreateGameInvalidBundle answers 422 without touching the database.
func (s *RoutesSuite) TestCreateGameInvalidBundle() {
	rec := s.do(http.MethodPost, "/api/games", s.admin, `{"name": "Round 1", "initializers": {"PLANET_RARITY": 0}}`)
	require.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodPost, "/api/games", s.admin, `{"name": "Round 1", "rounds": 3}`)
	require.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

// TestScan derives a region for a game and stores what it finds.
func (s *RoutesSuite) TestScan() {
	require.Equal(s.T(), http.StatusForbidden, s.do(http.MethodPost, "/api/games/1/scan", s.viewer, `{"size": 3}`).Code)

	now := time.Now()
	s.mock.ExpectQuery("SELECT (.+) FROM games").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(gameColumns).AddRow(1, "Round 1", "", testBundle(s.T()), now, now))
	s.mock.ExpectBegin()
	s.mock.ExpectExec("INSERT INTO planets").
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 25))
	s.mock.ExpectCommit()

	rec := s.do(http.MethodPost, "/api/games/1/scan", s.admin, `{"size": 3, "offset": 0}`)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var report struct {
		Stored  int             `json:"stored"`
		Planets []planet.Planet `json:"planets"`
	}
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&report))
	require.Equal(s.T(), 25, report.Stored)
	require.Len(s.T(), report.Planets, 25)

	rec = s.do(http.MethodPost, "/api/games/1/scan", s.admin, `{"size": 2, "offset": -1}`)
	require.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodPost, "/api/games/1/scan", s.admin, `{"size": 10, "offset": 9223372036854775802}`)
	require.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code)
}

// TestDeleteGame forgets the deleted game's bundle.
func (s *RoutesSuite) TestDeleteGame() {
	now := time.Now()
	s.mock.ExpectQuery("SELECT (.+) FROM games").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(gameColumns).AddRow(1, "Round 1", "", testBundle(s.T()), now, now))
	require.Equal(s.T(), http.StatusOK, s.do(http.MethodGet, "/api/games/1/planets?x=12&y=71", "", "").Code)

	s.mock.ExpectExec("DELETE FROM games").WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	require.Equal(s.T(), http.StatusNoContent, s.do(http.MethodDelete, "/api/games/1", s.admin, "").Code)

	s.mock.ExpectQuery("SELECT (.+) FROM games").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(gameColumns))
	require.Equal(s.T(), http.StatusNotFound, s.do(http.MethodGet, "/api/games/1/planets?x=12&y=71", "", "").Code)
}

// TestMethodNotAllowed is answered by the mux.
func (s *RoutesSuite) TestMethodNotAllowed() {
	rec := s.do(http.MethodPut, "/api/games", s.admin, "")
	require.Equal(s.T(), http.StatusMethodNotAllowed, rec.Code)
}

func TestRoutesSuite(t *testing.T) {
	suite.Run(t, new(RoutesSuite))
}


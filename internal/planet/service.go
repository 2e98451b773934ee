package planet

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"planets-procgen/internal/initializers"
	"planets-procgen/internal/location"
	cachekeys "planets-procgen/internal/shared/redis"
)

// InitializersProvider resolves the parameter bundle of a game.
type InitializersProvider interface {
	GetInitializers(ctx context.Context, gameID int) (*initializers.Initializers, error)
}

type Service struct {
	repo     *Repository
	games    InitializersProvider
	cache    *redis.Client
	cacheTTL time.Duration
	defaults *Deriver
	derivers sync.Map // game id -> *Deriver
	logger   *slog.Logger
}

// NewService builds the planet service. defaults serves derivations that are
// not tied to a game. cache may be nil, which disables caching.
func NewService(repo *Repository, games InitializersProvider, defaults *Deriver, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *Service {
	logger.Debug("Initializing planet service", "cache_enabled", cache != nil, "cache_ttl", cacheTTL)

	return &Service{
		repo:     repo,
		games:    games,
		cache:    cache,
		cacheTTL: cacheTTL,
		defaults: defaults,
		logger:   logger,
	}
}

// Derive resolves c under the default bundle.
func (s *Service) Derive(c location.Coords) (*Planet, error) {
	return s.defaults.Derive(c)
}

func (s *Service) DefaultInitializers() *initializers.Initializers {
	return s.defaults.Initializers()
}

// DeriverForGame returns the deriver bound to a game's bundle. Game bundles
// never change after creation, so derivers are kept per game id.
func (s *Service) DeriverForGame(ctx context.Context, gameID int) (*Deriver, error) {
	if d, ok := s.derivers.Load(gameID); ok {
		return d.(*Deriver), nil
	}

	inits, err := s.games.GetInitializers(ctx, gameID)
	if err != nil {
		return nil, err
	}

	d, err := NewDeriver(inits, s.logger.With("game_id", gameID))
	if err != nil {
		return nil, err
	}

	actual, _ := s.derivers.LoadOrStore(gameID, d)
	return actual.(*Deriver), nil
}

// ForgetGame drops the cached deriver of a deleted game.
func (s *Service) ForgetGame(gameID int) {
	s.derivers.Delete(gameID)
}

type cacheEntry struct {
	Planet *Planet `json:"planet"`
}

// DeriveForGame resolves c under the game's bundle. Results, including empty
// space, are cached in Redis when a cache is configured. Cache failures are
// logged and never fail the derivation.
func (s *Service) DeriveForGame(ctx context.Context, gameID int, c location.Coords) (*Planet, error) {
	logger := s.logger.With("component", "planet_service", "operation", "derive_for_game", "game_id", gameID, "x", c.X, "y", c.Y)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	key := cachekeys.PlanetKey(gameID, c.X, c.Y)
	if entry, ok := s.readCache(ctx, logger, key); ok {
		logger.Debug("Planet cache hit")
		return entry.Planet, nil
	}

	d, err := s.DeriverForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	p, err := d.Derive(c)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, logger, key, cacheEntry{Planet: p})
	return p, nil
}

func (s *Service) readCache(ctx context.Context, logger *slog.Logger, key string) (cacheEntry, bool) {
	var entry cacheEntry
	if s.cache == nil {
		return entry, false
	}

	data, err := s.cache.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return entry, false
	}
	if err != nil {
		logger.Warn("Failed to read planet cache", "error", err)
		return entry, false
	}

	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Warn("Discarding malformed planet cache entry", "error", err)
		return entry, false
	}
	return entry, true
}

func (s *Service) writeCache(ctx context.Context, logger *slog.Logger, key string, entry cacheEntry) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Warn("Failed to encode planet cache entry", "error", err)
		return
	}

	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		logger.Warn("Failed to write planet cache", "error", err)
	}
}

// StorePlanets persists planets found for a game and returns how many were new.
func (s *Service) StorePlanets(ctx context.Context, gameID int, planets []Planet) (int, error) {
	return s.repo.StorePlanets(ctx, gameID, planets)
}

func (s *Service) GetPlanetsByGameID(ctx context.Context, gameID int) ([]Record, error) {
	return s.repo.GetPlanetsByGameID(ctx, gameID)
}

func (s *Service) GetPlanet(ctx context.Context, gameID int, c location.Coords) (*Record, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.repo.GetPlanet(ctx, gameID, c)
}

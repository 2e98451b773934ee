package planet

import (
	"log/slog"
	"sync/atomic"

	"planets-procgen/internal/initializers"
	"planets-procgen/internal/location"
	"planets-procgen/internal/perlin"
)

// Derive resolves c under inits: nil when no planet exists there. The bundle is
// validated on every call; use a Deriver to validate once for many coordinates.
func Derive(c location.Coords, inits *initializers.Initializers) (*Planet, error) {
	if err := inits.Validate(); err != nil {
		return nil, err
	}
	return derive(c, inits, warnDefaultFallback)
}

// Deriver derives planets under one validated bundle. It is safe for concurrent
// use; the only state it keeps is the fallback counter.
type Deriver struct {
	inits     initializers.Initializers
	logger    *slog.Logger
	fallbacks atomic.Uint64
}

// NewDeriver validates inits and keeps a private copy of it.
func NewDeriver(inits *initializers.Initializers, logger *slog.Logger) (*Deriver, error) {
	if err := inits.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Deriver{
		inits:  *inits,
		logger: logger.With("component", "planet_deriver"),
	}, nil
}

// Initializers returns a copy of the bundle the deriver was built with.
func (d *Deriver) Initializers() *initializers.Initializers {
	inits := d.inits
	return &inits
}

func (d *Deriver) Derive(c location.Coords) (*Planet, error) {
	return derive(c, &d.inits, func(p *Planet) {
		d.fallbacks.Add(1)
		warnFallback(d.logger, p)
	})
}

func warnDefaultFallback(p *Planet) {
	warnFallback(slog.Default().With("component", "planet_deriver"), p)
}

func warnFallback(logger *slog.Logger, p *Planet) {
	logger.Warn("No planet type threshold matched, using baseline type",
		"x", p.Coords.X,
		"y", p.Coords.Y,
		"location_id", p.Location.Hex(),
		"level", p.Level,
		"space_type", p.SpaceType.String(),
	)
}

// Fallbacks counts derivations that substituted the baseline planet type.
func (d *Deriver) Fallbacks() uint64 {
	return d.fallbacks.Load()
}

func derive(c location.Coords, inits *initializers.Initializers, onFallback func(*Planet)) (*Planet, error) {
	id, err := location.Hash(c)
	if err != nil {
		return nil, err
	}

	exists, err := Exists(id, inits.PlanetRarity)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	noise, err := perlin.Noise(c, inits.PerlinConfig())
	if err != nil {
		return nil, err
	}

	p := &Planet{
		Coords:    c,
		Location:  id,
		Level:     LevelFromID(id, noise, inits),
		SpaceType: SpaceTypeFromNoise(noise, inits),
		Noise:     noise,
	}

	planetType, ok := TypeFromID(id, noise, inits)
	p.Type = planetType
	if !ok && onFallback != nil {
		onFallback(p)
	}
	return p, nil
}

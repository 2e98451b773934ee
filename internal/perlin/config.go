package perlin

import "planets-procgen/internal/shared/errors"

// MaxScale bounds the length scale so every intermediate of the three-octave sum
// stays inside int64.
const MaxScale = 1 << 14

// Config selects a noise field. Seed remaps the whole field; Scale is the cell
// size of the finest octave in coordinate units.
type Config struct {
	Seed    uint32 `json:"seed" yaml:"seed"`
	Scale   uint32 `json:"scale" yaml:"scale"`
	MirrorX bool   `json:"mirror_x" yaml:"mirror_x"`
	MirrorY bool   `json:"mirror_y" yaml:"mirror_y"`
	Floor   bool   `json:"floor" yaml:"floor"`
}

func (c Config) Validate() error {
	if c.Scale == 0 {
		return errors.InvalidConfigf("perlin scale must be positive")
	}
	if c.Scale > MaxScale {
		return errors.InvalidConfigf("perlin scale %d exceeds maximum %d", c.Scale, MaxScale)
	}
	return nil
}

// Package initializers holds the per-game parameter bundle that drives planet
// derivation. A bundle is read-only once validated and is passed explicitly to
// every derivation call.
package initializers

import (
	"fmt"

	"planets-procgen/internal/perlin"
	"planets-procgen/internal/shared/errors"
)

const (
	MinPlanetLevel  = 0
	MaxPlanetLevel  = 9
	LevelCount      = MaxPlanetLevel - MinPlanetLevel + 1
	SpaceTypeCount  = 4
	PlanetTypeCount = 5
)

// TypeWeights is the relative weight of each planet type.
type TypeWeights [PlanetTypeCount]uint64

type Initializers struct {
	PlanetRarity          uint64                                  `json:"PLANET_RARITY" yaml:"PLANET_RARITY"`
	PerlinThreshold1      int                                     `json:"PERLIN_THRESHOLD_1" yaml:"PERLIN_THRESHOLD_1"`
	PerlinThreshold2      int                                     `json:"PERLIN_THRESHOLD_2" yaml:"PERLIN_THRESHOLD_2"`
	PerlinThreshold3      int                                     `json:"PERLIN_THRESHOLD_3" yaml:"PERLIN_THRESHOLD_3"`
	PlanetLevelThresholds [LevelCount]uint64                      `json:"PLANET_LEVEL_THRESHOLDS" yaml:"PLANET_LEVEL_THRESHOLDS"`
	MaxNaturalPlanetLevel int                                     `json:"MAX_NATURAL_PLANET_LEVEL" yaml:"MAX_NATURAL_PLANET_LEVEL"`
	PlanetTypeWeights     [SpaceTypeCount][LevelCount]TypeWeights `json:"PLANET_TYPE_WEIGHTS" yaml:"PLANET_TYPE_WEIGHTS"`
	SpacetypeKey          uint32                                  `json:"SPACETYPE_KEY" yaml:"SPACETYPE_KEY"`
	PerlinLengthScale     uint32                                  `json:"PERLIN_LENGTH_SCALE" yaml:"PERLIN_LENGTH_SCALE"`
	PerlinMirrorX         bool                                    `json:"PERLIN_MIRROR_X" yaml:"PERLIN_MIRROR_X"`
	PerlinMirrorY         bool                                    `json:"PERLIN_MIRROR_Y" yaml:"PERLIN_MIRROR_Y"`
}

// PerlinConfig is the noise configuration derivation uses. Floor is always on.
func (i *Initializers) PerlinConfig() perlin.Config {
	return perlin.Config{
		Seed:    i.SpacetypeKey,
		Scale:   i.PerlinLengthScale,
		MirrorX: i.PerlinMirrorX,
		MirrorY: i.PerlinMirrorY,
		Floor:   true,
	}
}

// Validate rejects bundles that could only fail, or silently misbehave, deep
// inside derivation.
func (i *Initializers) Validate() error {
	if i == nil {
		return errors.InvalidConfigf("initializers are required")
	}

	if i.PlanetRarity == 0 {
		return errors.InvalidConfigf("PLANET_RARITY must be positive")
	}

	if i.PerlinThreshold1 > i.PerlinThreshold2 || i.PerlinThreshold2 > i.PerlinThreshold3 {
		return errors.InvalidConfigf("perlin thresholds must be ascending, got %d, %d, %d",
			i.PerlinThreshold1, i.PerlinThreshold2, i.PerlinThreshold3)
	}

	for level := 1; level < LevelCount; level++ {
		if i.PlanetLevelThresholds[level] > i.PlanetLevelThresholds[level-1] {
			return errors.InvalidConfigf("PLANET_LEVEL_THRESHOLDS must be non-increasing, level %d (%d) exceeds level %d (%d)",
				level, i.PlanetLevelThresholds[level], level-1, i.PlanetLevelThresholds[level-1])
		}
	}

	if i.MaxNaturalPlanetLevel < MinPlanetLevel || i.MaxNaturalPlanetLevel > MaxPlanetLevel {
		return errors.InvalidConfigf("MAX_NATURAL_PLANET_LEVEL %d outside [%d, %d]",
			i.MaxNaturalPlanetLevel, MinPlanetLevel, MaxPlanetLevel)
	}

	for spaceType, levels := range i.PlanetTypeWeights {
		for level, weights := range levels {
			if err := weights.Validate(); err != nil {
				return errors.WrapInvalidConfig(
					fmt.Sprintf("invalid PLANET_TYPE_WEIGHTS for space type %d level %d", spaceType, level), err)
			}
		}
	}

	if err := i.PerlinConfig().Validate(); err != nil {
		return errors.WrapInvalidConfig("invalid perlin parameters", err)
	}

	return nil
}

func (w TypeWeights) Sum() uint64 {
	var sum uint64
	for _, v := range w {
		sum += v
	}
	return sum
}

// maxWeightSum keeps remaining*256 inside uint64.
const maxWeightSum = 1 << 48

// Validate requires a positive sum small enough for the threshold arithmetic.
func (w TypeWeights) Validate() error {
	var sum uint64
	for _, v := range w {
		if v > maxWeightSum {
			return errors.InvalidConfigf("weight %d exceeds %d", v, uint64(maxWeightSum))
		}
		sum += v
	}
	if sum == 0 {
		return errors.InvalidConfigf("weights sum to zero")
	}
	if sum > maxWeightSum {
		return errors.InvalidConfigf("weight sum %d exceeds %d", sum, uint64(maxWeightSum))
	}
	return nil
}

package planet

import (
	"planets-procgen/internal/initializers"
	"planets-procgen/internal/location"
)

const (
	// Identifier windows, big-endian and half-open.
	levelByteStart = 4
	levelByteEnd   = 7
	typeByte       = 8

	nebulaMaxLevel = 4
	spaceMaxLevel  = 5
)

// SpaceTypeFromNoise classifies noise against the ascending perlin thresholds.
// The first threshold the value is strictly below wins.
func SpaceTypeFromNoise(noise int, inits *initializers.Initializers) SpaceType {
	switch {
	case noise < inits.PerlinThreshold1:
		return SpaceTypeNebula
	case noise < inits.PerlinThreshold2:
		return SpaceTypeSpace
	case noise < inits.PerlinThreshold3:
		return SpaceTypeDeepSpace
	default:
		return SpaceTypeDeadSpace
	}
}

// LevelFromID picks the highest level whose threshold the identifier's level
// window is below, then clamps by space type and by the natural maximum.
func LevelFromID(id location.ID, noise int, inits *initializers.Initializers) int {
	window := id.ByteRange(levelByteStart, levelByteEnd)

	level := initializers.MinPlanetLevel
	for l := initializers.MaxPlanetLevel; l >= initializers.MinPlanetLevel; l-- {
		if window < inits.PlanetLevelThresholds[l] {
			level = l
			break
		}
	}

	switch SpaceTypeFromNoise(noise, inits) {
	case SpaceTypeNebula:
		level = min(level, nebulaMaxLevel)
	case SpaceTypeSpace:
		level = min(level, spaceMaxLevel)
	}
	return min(level, inits.MaxNaturalPlanetLevel)
}

// TypeThresholds maps a weight vector onto the byte range. Entry i is
// floor(remaining_i * 256 / sum) where remaining_0 = sum - w[0] and
// remaining_i = remaining_{i-1} - w[i]. Floor is the only rounding step. The
// last entry is always 0, so every byte value matches some entry. A zero-sum
// vector yields no thresholds.
func TypeThresholds(weights initializers.TypeWeights) []int {
	sum := weights.Sum()
	if sum == 0 {
		return nil
	}
	thresholds := make([]int, len(weights))
	remaining := sum
	for i, w := range weights {
		remaining -= w
		thresholds[i] = int(remaining * 256 / sum)
	}
	return thresholds
}

// TypeFromID selects the planet type from byte 8 of the identifier: the first
// threshold the byte is greater than or equal to. ok is false only when no
// threshold matched and the baseline type was substituted.
func TypeFromID(id location.ID, noise int, inits *initializers.Initializers) (t PlanetType, ok bool) {
	level := LevelFromID(id, noise, inits)
	spaceType := SpaceTypeFromNoise(noise, inits)
	weights := inits.PlanetTypeWeights[spaceType][level]

	b := int(id.ByteRange(typeByte, typeByte+1))
	for i, threshold := range TypeThresholds(weights) {
		if b >= threshold {
			return PlanetType(i), true
		}
	}
	return PlanetTypePlanet, false
}

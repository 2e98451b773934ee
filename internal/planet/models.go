package planet

import (
	"fmt"
	"time"

	"planets-procgen/internal/location"
)

type PlanetType int

const (
	PlanetTypePlanet PlanetType = iota
	PlanetTypeAsteroidField
	PlanetTypeFoundry
	PlanetTypeSpacetimeRip
	PlanetTypeQuasar
)

var planetTypeKeys = [...]string{"planet", "asteroid_field", "foundry", "spacetime_rip", "quasar"}

// PlanetTypeNames are the display names used in reports.
var PlanetTypeNames = [...]string{"Planet", "Asteroid Field", "Foundry", "Spacetime Rip", "Quasar"}

func (t PlanetType) String() string {
	if t < 0 || int(t) >= len(PlanetTypeNames) {
		return fmt.Sprintf("PlanetType(%d)", int(t))
	}
	return PlanetTypeNames[t]
}

func (t PlanetType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(planetTypeKeys) {
		return nil, fmt.Errorf("unknown planet type %d", int(t))
	}
	return []byte(planetTypeKeys[t]), nil
}

func (t *PlanetType) UnmarshalText(text []byte) error {
	for i, key := range planetTypeKeys {
		if key == string(text) {
			*t = PlanetType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown planet type %q", text)
}

// SpaceType is ordered: higher values are further from the nebula core.
type SpaceType int

const (
	SpaceTypeNebula SpaceType = iota
	SpaceTypeSpace
	SpaceTypeDeepSpace
	SpaceTypeDeadSpace
)

var spaceTypeKeys = [...]string{"nebula", "space", "deep_space", "dead_space"}

var SpaceTypeNames = [...]string{"Nebula", "Space", "Deep Space", "Dead Space"}

func (s SpaceType) String() string {
	if s < 0 || int(s) >= len(SpaceTypeNames) {
		return fmt.Sprintf("SpaceType(%d)", int(s))
	}
	return SpaceTypeNames[s]
}

func (s SpaceType) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(spaceTypeKeys) {
		return nil, fmt.Errorf("unknown space type %d", int(s))
	}
	return []byte(spaceTypeKeys[s]), nil
}

func (s *SpaceType) UnmarshalText(text []byte) error {
	for i, key := range spaceTypeKeys {
		if key == string(text) {
			*s = SpaceType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown space type %q", text)
}

// Planet is the derived description of a coordinate that hosts a planet. It is
// always recomputable from the coordinate and the game's initializers.
type Planet struct {
	Coords    location.Coords `json:"coords"`
	Location  location.ID     `json:"location_id"`
	Level     int             `json:"level"`
	Type      PlanetType      `json:"type"`
	SpaceType SpaceType       `json:"space_type"`
	Noise     int             `json:"noise"`
}

// Record is a planet persisted for a game.
type Record struct {
	GameID int `json:"game_id"`
	Planet
	DiscoveredAt time.Time `json:"discovered_at"`
}

package planet_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"planets-procgen/internal/initializers"
	"planets-procgen/internal/location"
	"planets-procgen/internal/planet"
	"planets-procgen/internal/shared/errors"
)

// testInitializers admits every coordinate and uses a small noise scale so that
// a narrow window of coordinates covers every space type.
func testInitializers() *initializers.Initializers {
	inits := initializers.Default()
	inits.PlanetRarity = 1
	inits.PerlinLengthScale = 64
	inits.SpacetypeKey = 42
	return inits
}

type DeriveSuite struct {
	suite.Suite
	inits   *initializers.Initializers
	deriver *planet.Deriver
}

func (s *DeriveSuite) SetupTest() {
	s.inits = testInitializers()
	d, err := planet.NewDeriver(s.inits, nil)
	require.NoError(s.T(), err)
	s.deriver = d
}

// TestGolden pins (level, type, space type, noise) for recorded coordinates.
func (s *DeriveSuite) TestGolden() {
	cases := []struct {
		coords    location.Coords
		level     int
		planet    planet.PlanetType
		spaceType planet.SpaceType
		noise     int
	}{
		{location.Coords{X: 12, Y: 71}, 1, planet.PlanetTypePlanet, planet.SpaceTypeDeepSpace, 16},
		{location.Coords{X: -53, Y: -5}, 0, planet.PlanetTypePlanet, planet.SpaceTypeNebula, 13},
		{location.Coords{X: 17, Y: -27}, 0, planet.PlanetTypePlanet, planet.SpaceTypeDeadSpace, 19},
		{location.Coords{X: -53, Y: 28}, 1, planet.PlanetTypeAsteroidField, planet.SpaceTypeDeepSpace, 15},
		{location.Coords{X: -4, Y: 50}, 1, planet.PlanetTypeFoundry, planet.SpaceTypeDeepSpace, 17},
		{location.Coords{X: -46, Y: 6}, 1, planet.PlanetTypeQuasar, planet.SpaceTypeSpace, 14},
		{location.Coords{X: 38, Y: -27}, 2, planet.PlanetTypeAsteroidField, planet.SpaceTypeDeadSpace, 19},
		{location.Coords{X: -39, Y: 6}, 3, planet.PlanetTypePlanet, planet.SpaceTypeSpace, 14},
	}

	for _, tc := range cases {
		p, err := s.deriver.Derive(tc.coords)
		require.NoError(s.T(), err)
		require.NotNil(s.T(), p, "coords %s", tc.coords)
		require.Equal(s.T(), tc.level, p.Level, "level at %s", tc.coords)
		require.Equal(s.T(), tc.planet, p.Type, "type at %s", tc.coords)
		require.Equal(s.T(), tc.spaceType, p.SpaceType, "space type at %s", tc.coords)
		require.Equal(s.T(), tc.noise, p.Noise, "noise at %s", tc.coords)
	}

	p, err := s.deriver.Derive(location.Coords{X: 12, Y: 71})
	require.NoError(s.T(), err)
	require.Equal(s.T(), "377f1d7732616aa18246aad43b6aac045f44803c4d54c7653eb9dae88abdcfc1", p.Location.Hex())
	require.Zero(s.T(), s.deriver.Fallbacks())
}

// TestDefaultRarity: under the default bundle most coordinates are empty.
func (s *DeriveSuite) TestDefaultRarity() {
	inits := initializers.Default()

	p, err := planet.Derive(location.Coords{X: 12, Y: 71}, inits)
	require.NoError(s.T(), err)
	require.Nil(s.T(), p)

	p, err = planet.Derive(location.Coords{X: 18, Y: 225}, inits)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), p)
	require.Equal(s.T(), 1, p.Level)
	require.Equal(s.T(), planet.PlanetTypePlanet, p.Type)
	require.Equal(s.T(), planet.SpaceTypeDeepSpace, p.SpaceType)
	require.Equal(s.T(), 15, p.Noise)

	p, err = planet.Derive(location.Coords{X: 27, Y: 206}, inits)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), p)
	require.Equal(s.T(), 2, p.Level)
}

// TestDeterministic: two derivations of the same coordinate are identical.
func (s *DeriveSuite) TestDeterministic() {
	for x := int64(-20); x <= 20; x += 5 {
		c := location.Coords{X: x, Y: 3 * x}
		a, err := s.deriver.Derive(c)
		require.NoError(s.T(), err)
		b, err := planet.Derive(c, s.inits)
		require.NoError(s.T(), err)
		require.Equal(s.T(), a, b)
	}
}

// TestLevelCaps: for every derived planet the space-type and natural caps hold.
func (s *DeriveSuite) TestLevelCaps() {
	capped := testInitializers()
	capped.MaxNaturalPlanetLevel = 2
	d, err := planet.NewDeriver(capped, nil)
	require.NoError(s.T(), err)

	for x := int64(-60); x < 60; x += 3 {
		for y := int64(-60); y < 60; y += 7 {
			p, err := d.Derive(location.Coords{X: x, Y: y})
			require.NoError(s.T(), err)
			require.NotNil(s.T(), p)
			require.LessOrEqual(s.T(), p.Level, 2)
			switch p.SpaceType {
			case planet.SpaceTypeNebula:
				require.LessOrEqual(s.T(), p.Level, 4)
			case planet.SpaceTypeSpace:
				require.LessOrEqual(s.T(), p.Level, 5)
			}
		}
	}
}

// TestInvalidInput: bad bundles fail before any hashing; bad coordinates are
// rejected rather than wrapped.
func (s *DeriveSuite) TestInvalidInput() {
	bad := testInitializers()
	bad.PlanetRarity = 0

	_, err := planet.Derive(location.Coords{}, bad)
	require.Equal(s.T(), errors.ErrorTypeInvalidConfig, errors.GetType(err))

	_, err = planet.NewDeriver(bad, nil)
	require.Equal(s.T(), errors.ErrorTypeInvalidConfig, errors.GetType(err))

	_, err = s.deriver.Derive(location.Coords{X: 1 << 31})
	require.Equal(s.T(), errors.ErrorTypeOutOfRange, errors.GetType(err))
}

// TestDeriverKeepsCopy: mutating the caller's bundle does not affect a deriver.
func (s *DeriveSuite) TestDeriverKeepsCopy() {
	before, err := s.deriver.Derive(location.Coords{X: 12, Y: 71})
	require.NoError(s.T(), err)

	s.inits.PlanetRarity = 1 << 62
	after, err := s.deriver.Derive(location.Coords{X: 12, Y: 71})
	require.NoError(s.T(), err)
	require.Equal(s.T(), before, after)
	require.Equal(s.T(), uint64(1), s.deriver.Initializers().PlanetRarity)
}

func TestDeriveSuite(t *testing.T) {
	suite.Run(t, new(DeriveSuite))
}

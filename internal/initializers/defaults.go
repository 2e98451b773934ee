package initializers

// Default returns the built-in bundle. Each call returns a fresh copy.
func Default() *Initializers {
	return &Initializers{
		PlanetRarity:     16384,
		PerlinThreshold1: 14,
		PerlinThreshold2: 15,
		PerlinThreshold3: 19,
		PlanetLevelThresholds: [LevelCount]uint64{
			16777216, 4194292, 1048561, 262128, 65520, 16368, 4080, 1008, 240, 48,
		},
		MaxNaturalPlanetLevel: MaxPlanetLevel,
		PlanetTypeWeights: [SpaceTypeCount][LevelCount]TypeWeights{
			uniformAboveZero(TypeWeights{13, 2, 0, 1, 0}), // nebula
			uniformAboveZero(TypeWeights{12, 2, 1, 0, 1}), // space
			uniformAboveZero(TypeWeights{10, 4, 2, 0, 1}), // deep space
			uniformAboveZero(TypeWeights{11, 4, 1, 0, 0}), // dead space
		},
		SpacetypeKey:      5,
		PerlinLengthScale: 4096,
	}
}

// uniformAboveZero makes level 0 always a plain planet and uses w for every
// other level.
func uniformAboveZero(w TypeWeights) [LevelCount]TypeWeights {
	var levels [LevelCount]TypeWeights
	levels[0] = TypeWeights{1, 0, 0, 0, 0}
	for level := 1; level < LevelCount; level++ {
		levels[level] = w
	}
	return levels
}

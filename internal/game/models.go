package game

import (
	"time"

	"planets-procgen/internal/initializers"
)

// Game binds a name to an immutable parameter bundle. Every planet of a game
// is derived from its initializers.
type Game struct {
	ID           int                        `json:"id"`
	Name         string                     `json:"name"`
	Description  string                     `json:"description"`
	Initializers *initializers.Initializers `json:"initializers"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

type GameConfig struct {
	Name         string                     `json:"name"`
	Description  string                     `json:"description"`
	Initializers *initializers.Initializers `json:"initializers"`
}

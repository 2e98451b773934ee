package planet

import (
	"github.com/holiman/uint256"

	"planets-procgen/internal/location"
	"planets-procgen/internal/shared/errors"
)

// Exists reports whether id hosts a planet: id < UpperBound / rarity, in
// unsigned integer division.
func Exists(id location.ID, rarity uint64) (bool, error) {
	if rarity == 0 {
		return false, errors.InvalidConfigf("rarity must be positive")
	}
	return id.Less(existenceBound(rarity)), nil
}

func existenceBound(rarity uint64) location.ID {
	bound := new(uint256.Int).Div(location.UpperBound.Uint256(), uint256.NewInt(rarity))
	return location.FromUint256(bound)
}

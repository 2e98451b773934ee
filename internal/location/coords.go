package location

import (
	"fmt"
	"math"

	"planets-procgen/internal/shared/errors"
)

// Coords is a point on the game plane. Components are carried as int64 so that
// values outside the signed 32-bit domain can be rejected instead of wrapped.
type Coords struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

func (c Coords) Validate() error {
	if c.X < math.MinInt32 || c.X > math.MaxInt32 {
		return errors.OutOfRangef("x coordinate %d outside int32 range", c.X)
	}
	if c.Y < math.MinInt32 || c.Y > math.MaxInt32 {
		return errors.OutOfRangef("y coordinate %d outside int32 range", c.Y)
	}
	return nil
}

func (c Coords) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

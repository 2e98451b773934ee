package region

import (
	"iter"
	"math"

	"planets-procgen/internal/location"
	"planets-procgen/internal/shared/errors"
)

// Source is a finite, restartable set of coordinates.
type Source interface {
	Validate() error
	Coords() iter.Seq[location.Coords]
	Len() int
}

// Square covers [Offset, Offset+Size)^2 together with its reflections across
// both axes. Points on an axis are visited once.
type Square struct {
	Size   int64 `json:"size"`
	Offset int64 `json:"offset"`
}

func (s Square) Validate() error {
	if s.Size < 0 {
		return errors.InvalidConfigf("region size must not be negative, got %d", s.Size)
	}
	if s.Offset < 0 {
		return errors.InvalidConfigf("region offset must not be negative, got %d", s.Offset)
	}
	if s.Offset > math.MaxInt32 || s.Size > math.MaxInt32-s.Offset+1 {
		return errors.InvalidConfigf("region of size %d at offset %d leaves the int32 range", s.Size, s.Offset)
	}
	return nil
}

// Coords yields, for each (x, y) in row-major order, the point followed by its
// reflections (x, -y), (-x, y), (-x, -y), skipping those equal to one already
// yielded for the same (x, y).
func (s Square) Coords() iter.Seq[location.Coords] {
	return func(yield func(location.Coords) bool) {
		for x := s.Offset; x < s.Offset+s.Size; x++ {
			for y := s.Offset; y < s.Offset+s.Size; y++ {
				for _, c := range reflections(x, y) {
					if !yield(c) {
						return
					}
				}
			}
		}
	}
}

// Len is the number of distinct coordinates Coords yields.
func (s Square) Len() int {
	if s.Size <= 0 {
		return 0
	}
	side := 2 * s.Size
	if s.Offset == 0 {
		side--
	}
	return int(side * side)
}

func reflections(x, y int64) []location.Coords {
	out := make([]location.Coords, 0, 4)
	out = append(out, location.Coords{X: x, Y: y})
	if y != 0 {
		out = append(out, location.Coords{X: x, Y: -y})
	}
	if x != 0 {
		out = append(out, location.Coords{X: -x, Y: y})
		if y != 0 {
			out = append(out, location.Coords{X: -x, Y: -y})
		}
	}
	return out
}

// List is an explicit set of coordinates visited in order.
type List []location.Coords

func (l List) Validate() error {
	for _, c := range l {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (l List) Coords() iter.Seq[location.Coords] {
	return func(yield func(location.Coords) bool) {
		for _, c := range l {
			if !yield(c) {
				return
			}
		}
	}
}

func (l List) Len() int {
	return len(l)
}

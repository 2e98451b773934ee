// Package perlin implements the seeded gradient noise that classifies space.
// The field is evaluated in exact integer arithmetic so that every
// implementation, on or off chain, floors the same fraction to the same value.
package perlin

import (
	"fmt"

	"planets-procgen/internal/location"
)

// octaves are the cell-size multipliers summed into the field. The finest octave
// counts twice.
var octaves = [3]int64{1, 2, 4}

// Value is the exact noise fraction Num/Den. Den is always positive.
type Value struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

// Floor rounds toward negative infinity.
func (v Value) Floor() int64 {
	return floorDiv(v.Num, v.Den)
}

// Float64 is for display only; classification must use Floor.
func (v Value) Float64() float64 {
	return float64(v.Num) / float64(v.Den)
}

func (v Value) String() string {
	if v.Den == 1 {
		return fmt.Sprintf("%d", v.Num)
	}
	return fmt.Sprintf("%d/%d", v.Num, v.Den)
}

// At evaluates the field at c. With cfg.Floor set the result is quantized to an
// integer (Den == 1); otherwise the exact fraction is returned.
func At(c location.Coords, cfg Config) (Value, error) {
	if err := c.Validate(); err != nil {
		return Value{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Value{}, err
	}

	x, y := c.X, c.Y
	if cfg.MirrorX {
		x = abs(x)
	}
	if cfg.MirrorY {
		y = abs(y)
	}

	s := int64(cfg.Scale)
	n0 := octave(x, y, s*octaves[0], cfg.Seed)
	n1 := octave(x, y, s*octaves[1], cfg.Seed)
	n2 := octave(x, y, s*octaves[2], cfg.Seed)

	// 16 * (2*v0 + v1 + v2) / 4 + 16 with v_i = n_i / (1000 * s_i^3), over the
	// common denominator 16000 * s^3.
	den := 16 * gradientScale * s * s * s
	num := 128*n0 + 8*n1 + n2 + 16*den

	v := Value{Num: num, Den: den}
	if cfg.Floor {
		return Value{Num: v.Floor(), Den: 1}, nil
	}
	return v, nil
}

// Noise returns the floored field value at c regardless of cfg.Floor.
func Noise(c location.Coords, cfg Config) (int, error) {
	v, err := At(c, cfg)
	if err != nil {
		return 0, err
	}
	return int(v.Floor()), nil
}

// octave returns the numerator of one octave over the denominator 1000 * s^3:
// the sum over the four cell corners of the bilinear weight times the dot
// product of the corner gradient with the offset from that corner.
func octave(x, y, s int64, seed uint32) int64 {
	left := x - floorMod(x, s)
	bottom := y - floorMod(y, s)

	var sum int64
	for _, corner := range [4][2]int64{
		{left, bottom},
		{left + s, bottom},
		{left, bottom + s},
		{left + s, bottom + s},
	} {
		dx := x - corner[0]
		dy := y - corner[1]
		weight := (s - abs(dx)) * (s - abs(dy))
		g := gradientAt(corner[0], corner[1], s, seed)
		sum += weight * (g[0]*dx + g[1]*dy)
	}
	return sum
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

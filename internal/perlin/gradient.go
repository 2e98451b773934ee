package perlin

import "planets-procgen/internal/location"

// gradients are unit vectors at 22.5 degree steps, scaled by 1000 and truncated.
var gradients = [16][2]int64{
	{1000, 0},
	{923, 382},
	{707, 707},
	{382, 923},
	{0, 1000},
	{-383, 923},
	{-708, 707},
	{-924, 382},
	{-1000, 0},
	{-924, -383},
	{-708, -708},
	{-383, -924},
	{-1, -1000},
	{382, -924},
	{707, -708},
	{923, -383},
}

const gradientScale = 1000

// gradientAt picks the lattice gradient for a cell corner from
// keccak256(abi.encode(int256 x, int256 y, uint256 scale, uint256 seed)) mod 16.
func gradientAt(x, y, scale int64, seed uint32) [2]int64 {
	digest := location.Keccak256(location.PackWords(x, y, scale, int64(seed)))
	return gradients[digest[31]&0x0f]
}

package location

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"planets-procgen/internal/shared/errors"
)

// ID is the 256-bit location identifier of a coordinate.
type ID struct {
	v uint256.Int
}

// UpperBound is the exclusive-by-convention top of the identifier space.
var UpperBound = ID{v: *new(uint256.Int).SetAllOne()}

// Hash derives the location identifier of c: keccak256(abi.encode(int32 x, int32 y)).
func Hash(c Coords) (ID, error) {
	if err := c.Validate(); err != nil {
		return ID{}, err
	}
	digest := Keccak256(PackWords(c.X, c.Y))
	return FromBytes32(digest), nil
}

func FromBytes32(b [32]byte) ID {
	var id ID
	id.v.SetBytes32(b[:])
	return id
}

func FromUint256(v *uint256.Int) ID {
	return ID{v: *v}
}

// ParseID accepts 64 hex digits with or without a 0x prefix. Shorter inputs are
// left-padded with zeros.
func ParseID(s string) (ID, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) == 0 || len(s) > 64 {
		return ID{}, errors.Validationf("location id must have 1 to 64 hex digits, got %d", len(s))
	}
	s = strings.Repeat("0", 64-len(s)) + s

	raw, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, errors.WrapValidation("invalid location id", err)
	}
	var b [32]byte
	copy(b[:], raw)
	return FromBytes32(b), nil
}

func (id ID) Uint256() *uint256.Int {
	v := id.v
	return &v
}

func (id ID) Bytes() [32]byte {
	return id.v.Bytes32()
}

// Hex renders the identifier as 64 lowercase hex digits without prefix.
func (id ID) Hex() string {
	b := id.Bytes()
	return hex.EncodeToString(b[:])
}

func (id ID) String() string {
	return "0x" + id.Hex()
}

func (id ID) Less(other ID) bool {
	return id.v.Lt(&other.v)
}

func (id ID) Equal(other ID) bool {
	return id.v.Eq(&other.v)
}

// ByteRange returns the big-endian bytes [start, end) of the identifier as an
// unsigned integer. At most 8 bytes can be extracted.
func (id ID) ByteRange(start, end int) uint64 {
	if start < 0 || end > 32 || start >= end || end-start > 8 {
		panic(fmt.Sprintf("location: invalid byte range [%d, %d)", start, end))
	}
	b := id.Bytes()
	var out uint64
	for _, v := range b[start:end] {
		out = out<<8 | uint64(v)
	}
	return out
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

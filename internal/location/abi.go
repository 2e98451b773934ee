package location

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

const wordSize = 32

// PackWords ABI-encodes each value as a 32-byte big-endian two's-complement word,
// the layout abi.encode produces for signed integers sign-extended to 256 bits.
func PackWords(values ...int64) []byte {
	buf := make([]byte, len(values)*wordSize)
	for i, v := range values {
		word := buf[i*wordSize : (i+1)*wordSize]
		if v < 0 {
			for j := 0; j < wordSize-8; j++ {
				word[j] = 0xff
			}
		}
		binary.BigEndian.PutUint64(word[wordSize-8:], uint64(v))
	}
	return buf
}

// Keccak256 is the legacy (pre-NIST padding) Keccak used by the EVM.
func Keccak256(data []byte) [32]byte {
	var out [32]byte
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	h.Sum(out[:0])
	return out
}

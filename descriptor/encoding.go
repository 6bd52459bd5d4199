package descriptor

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeVector encodes a descriptor vector into a BLOB representation
// suitable for storage in SQLite. The encoding is a little-endian sequence of
// IEEE 754 float32 values without a length prefix; the dimension is derived
// from the BLOB size on decode.
func EncodeVector(vec Vector) []byte {
	if len(vec) == 0 {
		return nil
	}
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// DecodeVector decodes a BLOB produced by EncodeVector.
func DecodeVector(b []byte) (Vector, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("descriptor: invalid vector blob length %d (not multiple of 4): %w", len(b), ErrInvalidInput)
	}
	n := len(b) / 4
	vec := make(Vector, n)
	for i := 0; i < n; i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}

package core

import (
	"encoding/binary"
	"math"
)

// EncodeVector serializes a float32 vector to its raw little-endian byte
// representation, the format embeddings are stored in.
func EncodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// DecodeVector deserializes a raw little-endian float32 blob.
// Returns ErrTruncatedVector if the byte length is not a multiple of 4.
func DecodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, ErrTruncatedVector
	}
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return vector, nil
}

package core

import (
	"errors"
	"math"
	"testing"
)

func TestVectorRoundTrip(t *testing.T) {
	vectors := [][]float32{
		{},
		{0},
		{1.5, -2.25, 0, 3.14159},
		{float32(math.Inf(1)), float32(math.Inf(-1))},
	}
	for _, vector := range vectors {
		decoded, err := DecodeVector(EncodeVector(vector))
		if err != nil {
			t.Fatalf("DecodeVector failed for %v: %v", vector, err)
		}
		if len(decoded) != len(vector) {
			t.Fatalf("length mismatch: got %d, want %d", len(decoded), len(vector))
		}
		for i := range vector {
			if decoded[i] != vector[i] {
				t.Errorf("component %d: got %v, want %v", i, decoded[i], vector[i])
			}
		}
	}
}

func TestEncodeVectorLength(t *testing.T) {
	if got := len(EncodeVector(make([]float32, 7))); got != 28 {
		t.Errorf("expected 28 bytes, got %d", got)
	}
}

func TestDecodeVectorTruncated(t *testing.T) {
	for _, size := range []int{1, 2, 3, 5, 7} {
		_, err := DecodeVector(make([]byte, size))
		if !errors.Is(err, ErrTruncatedVector) {
			t.Errorf("size %d: expected ErrTruncatedVector, got %v", size, err)
		}
	}
}

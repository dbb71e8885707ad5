package index

import "errors"

var (
	// ErrDimensionMismatch indicates a query vector whose dimension does not
	// match the index.
	ErrDimensionMismatch = errors.New("vector dimension does not match index")

	// ErrLengthMismatch indicates an item list and vector list of different
	// lengths when building a generation.
	ErrLengthMismatch = errors.New("item count does not match vector count")

	// ErrInvalidDimension indicates a non-positive index dimension.
	ErrInvalidDimension = errors.New("index dimension must be positive")
)

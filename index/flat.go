// Copyright 2025 Tablemap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"fmt"
	"sort"
)

// Neighbor is one hit from a Flat search: the position of the stored vector
// and its squared Euclidean distance to the query.
type Neighbor struct {
	Pos      int
	Distance float32
}

// Flat is a brute-force nearest-neighbor index over squared Euclidean
// distance. Vectors are stored row-major in a single contiguous slice and
// never change after construction, so a Flat is safe for concurrent reads.
type Flat struct {
	dim  int
	rows int
	data []float32
}

// NewFlat builds an index of the given dimension over the supplied vectors.
// Every vector must have exactly dim components.
func NewFlat(dim int, vectors [][]float32) (*Flat, error) {
	if dim <= 0 {
		return nil, ErrInvalidDimension
	}
	f := &Flat{
		dim:  dim,
		rows: len(vectors),
		data: make([]float32, 0, dim*len(vectors)),
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d: %w",
				i, len(v), dim, ErrDimensionMismatch)
		}
		f.data = append(f.data, v...)
	}
	return f, nil
}

// Len returns the number of stored vectors.
func (f *Flat) Len() int { return f.rows }

// Dimension returns the vector dimension.
func (f *Flat) Dimension() int { return f.dim }

// Search returns up to k neighbors of query in ascending distance order.
// Ties break on position, so repeated searches over the same index return
// the same ordering.
func (f *Flat) Search(query []float32, k int) ([]Neighbor, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("query has dimension %d, want %d: %w",
			len(query), f.dim, ErrDimensionMismatch)
	}
	if k <= 0 || f.rows == 0 {
		return nil, nil
	}

	neighbors := make([]Neighbor, f.rows)
	for pos := 0; pos < f.rows; pos++ {
		row := f.data[pos*f.dim : (pos+1)*f.dim]
		var dist float32
		for i, q := range query {
			d := row[i] - q
			dist += d * d
		}
		neighbors[pos] = Neighbor{Pos: pos, Distance: dist}
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Distance != neighbors[j].Distance {
			return neighbors[i].Distance < neighbors[j].Distance
		}
		return neighbors[i].Pos < neighbors[j].Pos
	})
	if k < len(neighbors) {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

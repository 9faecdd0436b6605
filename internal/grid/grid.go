// Package grid provides small dense-matrix helpers shared by the section
// subsystem: coordinate meshes, cumulative trace lengths, sparse-triplet
// accumulation and min/max scans over matrices with gaps.
package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Meshgrid expands an along-axis coordinate s and a vertical coordinate z
// into a pair of (len(z), len(s)) matrices: S repeats s down the rows and
// Z repeats z across the columns. Panics if either slice is empty.
func Meshgrid(s, z []float64) (S, Z *mat.Dense) {
	nr, nc := len(z), len(s)
	S = mat.NewDense(nr, nc, nil)
	Z = mat.NewDense(nr, nc, nil)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			S.Set(i, j, s[j])
			Z.Set(i, j, z[i])
		}
	}
	return S, Z
}

// CumulativeDistance returns the running Euclidean length of the polyline
// that visits (x[i], y[i]) in order. The first element is always 0, and the
// series is non-decreasing. Panics if the slices differ in length.
func CumulativeDistance(x, y []int) []float64 {
	if len(x) != len(y) {
		panic(fmt.Sprintf("grid: coordinate length mismatch: %d x, %d y", len(x), len(y)))
	}
	d := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		d[i] = math.Hypot(float64(x[i]-x[i-1]), float64(y[i]-y[i-1]))
	}
	if len(d) > 0 {
		floats.CumSum(d, d)
	}
	return d
}

// Tile builds a (rows, len(row)) matrix whose every row is a copy of row.
// Panics if rows is not positive or row is empty.
func Tile(row []float64, rows int) *mat.Dense {
	m := mat.NewDense(rows, len(row), nil)
	for i := 0; i < rows; i++ {
		m.SetRow(i, row)
	}
	return m
}

// FromTriplets accumulates sparse (row, col, value) triplets into a dense
// (nr, nc) matrix. Cells not named by any triplet are zero; duplicate
// coordinates sum.
func FromTriplets(nr, nc int, ri, ci []int, v []float64) (*mat.Dense, error) {
	if len(ri) != len(ci) || len(ri) != len(v) {
		return nil, fmt.Errorf("triplet count mismatch: %d rows, %d cols, %d values", len(ri), len(ci), len(v))
	}
	if nr <= 0 || nc <= 0 {
		return nil, fmt.Errorf("invalid triplet matrix shape %dx%d", nr, nc)
	}
	m := mat.NewDense(nr, nc, nil)
	for k := range v {
		r, c := ri[k], ci[k]
		if r < 0 || r >= nr || c < 0 || c >= nc {
			return nil, fmt.Errorf("triplet (%d,%d) outside %dx%d matrix", r, c, nr, nc)
		}
		m.Set(r, c, m.At(r, c)+v[k])
	}
	return m, nil
}

// MinMax scans m for its smallest and largest finite values. NaN and Inf
// entries are skipped; ok reports whether any finite value was seen.
func MinMax(m mat.Matrix) (min, max float64, ok bool) {
	nr, nc := m.Dims()
	min, max = math.Inf(1), math.Inf(-1)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}

// FirstRows returns a view onto the first n rows of m. The view shares
// backing storage with m.
func FirstRows(m *mat.Dense, n int) *mat.Dense {
	_, c := m.Dims()
	return m.Slice(0, n, 0, c).(*mat.Dense)
}

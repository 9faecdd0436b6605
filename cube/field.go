// Package cube provides in-memory volumes of simulation output that
// sections can cut across: space-time data cubes with on-demand
// stratigraphy reconstruction, elevation-gridded stratigraphy cubes, and a
// synthetic delta generator for demos and tests.
package cube

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Field is a dense 3-D array in (layer, y, x) order, stored row-major.
// Create fields with NewField or FieldFromSlice; the zero value is
// unusable.
type Field struct {
	nz, ny, nx int
	v          []float64
}

// NewField builds a zero-filled field. Panics unless all dimensions are
// positive.
func NewField(nz, ny, nx int) *Field {
	if nz <= 0 || ny <= 0 || nx <= 0 {
		panic(fmt.Sprintf("cube: field dimensions %dx%dx%d not positive", nz, ny, nx))
	}
	return &Field{nz: nz, ny: ny, nx: nx, v: make([]float64, nz*ny*nx)}
}

// FieldFromSlice wraps v, which must hold nz*ny*nx values in (layer, y, x)
// row-major order. The field takes ownership of v.
func FieldFromSlice(nz, ny, nx int, v []float64) (*Field, error) {
	if nz <= 0 || ny <= 0 || nx <= 0 {
		return nil, fmt.Errorf("cube: field dimensions %dx%dx%d not positive", nz, ny, nx)
	}
	if len(v) != nz*ny*nx {
		return nil, fmt.Errorf("cube: field backing holds %d values, want %d", len(v), nz*ny*nx)
	}
	return &Field{nz: nz, ny: ny, nx: nx, v: v}, nil
}

// Dims returns the (layer, y, x) extent.
func (f *Field) Dims() (nz, ny, nx int) { return f.nz, f.ny, f.nx }

// At returns the value at (k, i, j). Panics when out of range.
func (f *Field) At(k, i, j int) float64 {
	f.check(k, i, j)
	return f.v[(k*f.ny+i)*f.nx+j]
}

// Set stores the value at (k, i, j). Panics when out of range.
func (f *Field) Set(k, i, j int, v float64) {
	f.check(k, i, j)
	f.v[(k*f.ny+i)*f.nx+j] = v
}

// Layer returns layer k as a (y, x) matrix sharing the field's backing
// storage. Panics when k is out of range.
func (f *Field) Layer(k int) *mat.Dense {
	if k < 0 || k >= f.nz {
		panic(fmt.Sprintf("cube: layer %d outside %d", k, f.nz))
	}
	return mat.NewDense(f.ny, f.nx, f.v[k*f.ny*f.nx:(k+1)*f.ny*f.nx])
}

func (f *Field) check(k, i, j int) {
	if k < 0 || k >= f.nz || i < 0 || i >= f.ny || j < 0 || j >= f.nx {
		panic(fmt.Sprintf("cube: field index (%d,%d,%d) outside %dx%dx%d", k, i, j, f.nz, f.ny, f.nx))
	}
}

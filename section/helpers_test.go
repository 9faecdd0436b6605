package section

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/crevasse-data/strata.report/varset"
)

// fakeVolume is a hand-built volume for exercising sections without the
// cube package. Fields are stored row-major in (layer, y, x) order.
type fakeVolume struct {
	kind       Kind
	nz, ny, nx int
	z          []float64
	fields     map[string][]float64
	knows      bool
	attrs      *StratAttrs
	attrsErr   error
	vs         *varset.VarSet
}

func (f *fakeVolume) Kind() Kind { return f.kind }

func (f *fakeVolume) Variables() []string {
	names := make([]string, 0, len(f.fields))
	for n := range f.fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (f *fakeVolume) Dims() (int, int, int) { return f.nz, f.ny, f.nx }

func (f *fakeVolume) Z() []float64 { return f.z }

func (f *fakeVolume) SliceVar(name string, y, x []int) (*mat.Dense, error) {
	field, ok := f.fields[name]
	if !ok {
		return nil, fmt.Errorf("no variable %q", name)
	}
	out := mat.NewDense(f.nz, len(x), nil)
	for k := 0; k < f.nz; k++ {
		for i := range x {
			out.Set(k, i, field[k*f.ny*f.nx+y[i]*f.nx+x[i]])
		}
	}
	return out, nil
}

func (f *fakeVolume) KnowsStratigraphy() bool { return f.knows }

func (f *fakeVolume) StratAttrsAt(y, x []int) (*StratAttrs, error) {
	if f.attrsErr != nil {
		return nil, f.attrsErr
	}
	return f.attrs, nil
}

func (f *fakeVolume) VarSet() *varset.VarSet { return f.vs }

// stratScenario builds a 3-layer, 2-row, 4-column data volume with
// hand-worked preservation attributes for the strike row y=1. The velocity
// field carries 1..12 along that row, layer by layer, and a sentinel
// elsewhere.
//
// Preserved cells, in row-major order, with their stacking positions:
//
//	(0,0) -> row 0 of column 0
//	(1,1) -> row 0 of column 1
//	(2,0) -> row 1 of column 0
//	(2,2) -> row 0 of column 2
//
// Column 3 preserves nothing.
func stratScenario() *fakeVolume {
	const nz, ny, nx = 3, 2, 4

	vel := make([]float64, nz*ny*nx)
	for k := 0; k < nz; k++ {
		for j := 0; j < nx; j++ {
			vel[k*ny*nx+1*nx+j] = float64(k*nx + j + 1)
			vel[k*ny*nx+0*nx+j] = -99
		}
	}

	mask := NewMask(nz, nx)
	mask.Set(0, 0, true)
	mask.Set(1, 1, true)
	mask.Set(2, 0, true)
	mask.Set(2, 2, true)

	attrs := &StratAttrs{
		Preserved: mask,
		RowSparse: []int{0, 0, 1, 0},
		ColSparse: []int{0, 1, 0, 2},
		Strata: mat.NewDense(nz, nx, []float64{
			-2, -2, -2, -2,
			-1, -1.5, -2, -2,
			1, -1, -1, -2,
		}),
		PackedElevations: mat.NewDense(nz, nx, []float64{
			-2, -1.5, -1, -2,
			1, -1.5, -1, -2,
			1, -1.5, -1, -2,
		}),
	}

	return &fakeVolume{
		kind:   KindData,
		nz:     nz,
		ny:     ny,
		nx:     nx,
		z:      []float64{0, 1, 2},
		fields: map[string][]float64{"velocity": vel},
		knows:  true,
		attrs:  attrs,
	}
}

// stratOnlyScenario builds a 3-layer stratigraphy volume over a single row
// of 4 columns, with velocity 1..12 in layer order.
func stratOnlyScenario() *fakeVolume {
	const nz, ny, nx = 3, 1, 4
	vel := make([]float64, nz*ny*nx)
	for i := range vel {
		vel[i] = float64(i + 1)
	}
	return &fakeVolume{
		kind:   KindStratigraphy,
		nz:     nz,
		ny:     ny,
		nx:     nx,
		z:      []float64{-2, -1, 1},
		fields: map[string][]float64{"velocity": vel},
	}
}

// plainScenario builds a data volume that has not computed stratigraphy.
func plainScenario() *fakeVolume {
	f := stratScenario()
	f.knows = false
	f.attrs = nil
	return f
}

package cube

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/crevasse-data/strata.report/section"
	"github.com/crevasse-data/strata.report/varset"
)

// volumeCore carries the state and behavior shared by both cube kinds:
// equally-shaped named fields over a layer coordinate, plus an optional
// display metadata registry.
type volumeCore struct {
	z          []float64
	fields     map[string]*Field
	names      []string
	nz, ny, nx int
	vs         *varset.VarSet
}

func newVolumeCore(z []float64, fields map[string]*Field) (volumeCore, error) {
	if len(fields) == 0 {
		return volumeCore{}, fmt.Errorf("cube: no fields")
	}
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Strings(names)

	first := fields[names[0]]
	nz, ny, nx := first.Dims()
	for _, n := range names {
		if fz, fy, fx := fields[n].Dims(); fz != nz || fy != ny || fx != nx {
			return volumeCore{}, fmt.Errorf("cube: field %q is %dx%dx%d, want %dx%dx%d",
				n, fz, fy, fx, nz, ny, nx)
		}
	}
	if len(z) != nz {
		return volumeCore{}, fmt.Errorf("cube: layer coordinate has %d entries for %d layers", len(z), nz)
	}
	return volumeCore{
		z:      append([]float64(nil), z...),
		fields: fields,
		names:  names,
		nz:     nz, ny: ny, nx: nx,
	}, nil
}

// Variables lists the field names, sorted.
func (c *volumeCore) Variables() []string {
	return append([]string(nil), c.names...)
}

// Dims returns the (layer, y, x) extent.
func (c *volumeCore) Dims() (nz, ny, nx int) { return c.nz, c.ny, c.nx }

// Z returns the layer coordinate. Treat it as read-only.
func (c *volumeCore) Z() []float64 { return c.z }

// Field returns the named field, if present. Treat it as read-only.
func (c *volumeCore) Field(name string) (*Field, bool) {
	f, ok := c.fields[name]
	return f, ok
}

// SliceVar extracts the named field at (y[i], x[i]) for every layer.
func (c *volumeCore) SliceVar(name string, y, x []int) (*mat.Dense, error) {
	f, ok := c.fields[name]
	if !ok {
		return nil, fmt.Errorf("cube: no variable %q", name)
	}
	if err := c.checkFootprint(y, x); err != nil {
		return nil, err
	}
	out := mat.NewDense(c.nz, len(x), nil)
	for k := 0; k < c.nz; k++ {
		for i := range x {
			out.Set(k, i, f.At(k, y[i], x[i]))
		}
	}
	return out, nil
}

func (c *volumeCore) checkFootprint(y, x []int) error {
	if len(y) != len(x) || len(x) == 0 {
		return fmt.Errorf("cube: footprint has %d y and %d x indices", len(y), len(x))
	}
	for i := range x {
		if x[i] < 0 || x[i] >= c.nx || y[i] < 0 || y[i] >= c.ny {
			return fmt.Errorf("cube: footprint point %d at (%d,%d) outside extent %dx%d", i, x[i], y[i], c.nx, c.ny)
		}
	}
	return nil
}

// VarSet returns the display metadata registry attached to the cube, or
// nil when none has been set.
func (c *volumeCore) VarSet() *varset.VarSet { return c.vs }

// SetVarSet attaches a display metadata registry.
func (c *volumeCore) SetVarSet(vs *varset.VarSet) { c.vs = vs }

// DataCube is an in-memory space-time volume of simulation output. The
// layer axis is simulation time; stratigraphy is reconstructed on demand
// from an elevation field by ComputeStratigraphyFrom.
type DataCube struct {
	volumeCore
	strat *stratData
}

// NewDataCube builds a data cube over the time coordinate z from
// equally-shaped fields keyed by name.
func NewDataCube(z []float64, fields map[string]*Field) (*DataCube, error) {
	core, err := newVolumeCore(z, fields)
	if err != nil {
		return nil, err
	}
	return &DataCube{volumeCore: core}, nil
}

// Kind identifies the cube as a space-time volume.
func (c *DataCube) Kind() section.Kind { return section.KindData }

// KnowsStratigraphy reports whether preservation has been computed.
func (c *DataCube) KnowsStratigraphy() bool { return c.strat != nil }

// StratigraphyCube is an elevation-gridded volume of already-stratal data:
// the layer axis is elevation and every cell holds the deposit occupying
// that elevation, or NaN where none does.
type StratigraphyCube struct {
	volumeCore
}

// NewStratigraphyCube builds a stratigraphy cube over the elevation
// coordinate z from equally-shaped fields keyed by name.
func NewStratigraphyCube(z []float64, fields map[string]*Field) (*StratigraphyCube, error) {
	core, err := newVolumeCore(z, fields)
	if err != nil {
		return nil, err
	}
	return &StratigraphyCube{volumeCore: core}, nil
}

// Kind identifies the cube as an elevation-gridded stratigraphy volume.
func (c *StratigraphyCube) Kind() section.Kind { return section.KindStratigraphy }

package cube

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/crevasse-data/strata.report/internal/monitoring"
	"github.com/crevasse-data/strata.report/section"
)

// stratData holds cube-level preservation state derived from an elevation
// field.
type stratData struct {
	source string
	strata *Field // preservation boundary elevation per (t, y, x)
	psvd   []bool // preserved flags, row-major like a Field
}

func (s *stratData) preserved(k, i, j int, ny, nx int) bool {
	return s.psvd[(k*ny+i)*nx+j]
}

// ComputeStratigraphyFrom reconstructs preservation from the named
// elevation field. The boundary at time t is the running minimum of the
// surface over all times >= t; a cell is preserved when its boundary sits
// above the previous one, meaning the deposit laid at t survives every
// later cut. The first layer is never preserved: it is the initial
// surface, not a deposit.
func (c *DataCube) ComputeStratigraphyFrom(name string) error {
	f, ok := c.fields[name]
	if !ok {
		return fmt.Errorf("cube: no elevation field %q", name)
	}
	nz, ny, nx := c.nz, c.ny, c.nx
	strata := NewField(nz, ny, nx)
	psvd := make([]bool, nz*ny*nx)
	preservedCount := 0

	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			min := f.At(nz-1, i, j)
			strata.Set(nz-1, i, j, min)
			for k := nz - 2; k >= 0; k-- {
				if e := f.At(k, i, j); e < min {
					min = e
				}
				strata.Set(k, i, j, min)
			}
			for k := 1; k < nz; k++ {
				if strata.At(k, i, j) > strata.At(k-1, i, j) {
					psvd[(k*ny+i)*nx+j] = true
					preservedCount++
				}
			}
		}
	}

	c.strat = &stratData{source: name, strata: strata, psvd: psvd}
	total := nz * ny * nx
	monitoring.Logf("[DataCube] computed stratigraphy from %q: %d/%d cells preserved (%.1f%%)",
		name, preservedCount, total, 100*float64(preservedCount)/float64(total))
	return nil
}

// StratAttrsAt scopes the cube's preservation state to a section
// footprint, producing the attribute bundle sections attach to their
// variables. Column m of every field corresponds to footprint point m.
func (c *DataCube) StratAttrsAt(y, x []int) (*section.StratAttrs, error) {
	if c.strat == nil {
		return nil, fmt.Errorf("cube: stratigraphy not computed")
	}
	if err := c.checkFootprint(y, x); err != nil {
		return nil, err
	}
	nz, m := c.nz, len(x)

	mask := section.NewMask(nz, m)
	strata := mat.NewDense(nz, m, nil)
	for k := 0; k < nz; k++ {
		for i := 0; i < m; i++ {
			strata.Set(k, i, c.strat.strata.At(k, y[i], x[i]))
			if c.strat.preserved(k, y[i], x[i], c.ny, c.nx) {
				mask.Set(k, i, true)
			}
		}
	}

	// Sparse coordinates in row-major order; the rank counters give each
	// preserved cell its stacking position within its column.
	var rowSparse, colSparse []int
	rank := make([]int, m)
	for k := 0; k < nz; k++ {
		for i := 0; i < m; i++ {
			if !mask.At(k, i) {
				continue
			}
			rowSparse = append(rowSparse, rank[i])
			colSparse = append(colSparse, i)
			rank[i]++
		}
	}

	// Packed elevations: per column, the boundary elevation of each stacked
	// deposit in order, forward-filled to the top; columns preserving
	// nothing sit at their basement elevation throughout.
	packed := mat.NewDense(nz, m, nil)
	for i := 0; i < m; i++ {
		r := 0
		last := strata.At(0, i)
		for k := 0; k < nz; k++ {
			if mask.At(k, i) {
				last = strata.At(k, i)
				packed.Set(r, i, last)
				r++
			}
		}
		for ; r < nz; r++ {
			packed.Set(r, i, last)
		}
	}

	return &section.StratAttrs{
		Preserved:        mask,
		RowSparse:        rowSparse,
		ColSparse:        colSparse,
		PackedElevations: packed,
		Strata:           strata,
	}, nil
}

// BoxyStratigraphy resamples the preserved deposits of a data cube onto a
// regular elevation grid of resolution dz, producing a stratigraphy cube
// holding the same variables. Cells above the preserved surface or below
// the local basement hold NaN.
func BoxyStratigraphy(dc *DataCube, dz float64) (*StratigraphyCube, error) {
	if dc.strat == nil {
		return nil, fmt.Errorf("cube: stratigraphy not computed")
	}
	if dz <= 0 {
		return nil, fmt.Errorf("cube: elevation resolution %v not positive", dz)
	}
	nz, ny, nx := dc.nz, dc.ny, dc.nx

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			if b := dc.strat.strata.At(0, i, j); b < lo {
				lo = b
			}
			if s := dc.strat.strata.At(nz-1, i, j); s > hi {
				hi = s
			}
		}
	}
	if !(hi > lo) {
		return nil, fmt.Errorf("cube: no preserved relief between %v and %v", lo, hi)
	}
	bins := int(math.Ceil((hi-lo)/dz)) + 1
	if bins < 2 {
		bins = 2
	}
	zs := make([]float64, bins)
	floats.Span(zs, lo, hi)

	out := make(map[string]*Field, len(dc.fields))
	for _, name := range dc.names {
		out[name] = NewField(bins, ny, nx)
	}

	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			// Preserved deposit times for this column, in stacking order.
			var times []int
			for k := 1; k < nz; k++ {
				if dc.strat.preserved(k, i, j, ny, nx) {
					times = append(times, k)
				}
			}
			base := dc.strat.strata.At(0, i, j)
			r := 0
			for b, e := range zs {
				if e <= base || len(times) == 0 {
					for _, name := range dc.names {
						out[name].Set(b, i, j, math.NaN())
					}
					continue
				}
				for r < len(times) && dc.strat.strata.At(times[r], i, j) < e {
					r++
				}
				if r == len(times) {
					for _, name := range dc.names {
						out[name].Set(b, i, j, math.NaN())
					}
					continue
				}
				for _, name := range dc.names {
					out[name].Set(b, i, j, dc.fields[name].At(times[r], i, j))
				}
			}
		}
	}

	sc, err := NewStratigraphyCube(zs, out)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("[BoxyStratigraphy] resampled %d fields onto %d elevation bins over [%.3f, %.3f]",
		len(out), bins, lo, hi)
	return sc, nil
}

package section

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StratAttrs bundles the stratigraphy attributes a data volume derives for
// one section footprint. Every field is scoped to the footprint: columns
// index along-section positions, rows index layers of the source volume.
type StratAttrs struct {
	// Preserved flags the cells of the space-time array whose deposits
	// survive into the final stratigraphy.
	Preserved *Mask

	// RowSparse and ColSparse give the compacted coordinate of each
	// preserved cell, listed in row-major order of the space-time array:
	// preserved cell k stacks at height RowSparse[k] in trace column
	// ColSparse[k].
	RowSparse, ColSparse []int

	// PackedElevations pairs each compacted row with the elevation of the
	// deposit surface in each column, forward-filled above the column top so
	// the mesh stays monotone.
	PackedElevations *mat.Dense

	// Strata holds the elevation of each layer's preservation boundary at
	// each along-section position, shaped like the space-time array.
	Strata *mat.Dense
}

// CompactRows returns the row count of the compacted stratigraphy
// projection: one more than the deepest stacking position, zero when
// nothing is preserved.
func (a *StratAttrs) CompactRows() int {
	max := -1
	for _, r := range a.RowSparse {
		if r > max {
			max = r
		}
	}
	return max + 1
}

// validate checks internal shape agreement against a (nz, m) space-time
// array.
func (a *StratAttrs) validate(nz, m int) error {
	if a.Preserved == nil {
		return fmt.Errorf("stratigraphy attributes missing preserved mask")
	}
	pr, pc := a.Preserved.Dims()
	if pr != nz || pc != m {
		return fmt.Errorf("preserved mask is %dx%d, want %dx%d", pr, pc, nz, m)
	}
	n := a.Preserved.CountTrue()
	if len(a.RowSparse) != n || len(a.ColSparse) != n {
		return fmt.Errorf("sparse coordinates carry %d/%d entries for %d preserved cells",
			len(a.RowSparse), len(a.ColSparse), n)
	}
	for k := range a.RowSparse {
		if a.RowSparse[k] < 0 || a.RowSparse[k] >= nz {
			return fmt.Errorf("sparse row %d outside %d layers", a.RowSparse[k], nz)
		}
		if a.ColSparse[k] < 0 || a.ColSparse[k] >= m {
			return fmt.Errorf("sparse column %d outside trace length %d", a.ColSparse[k], m)
		}
	}
	if a.Strata == nil {
		return fmt.Errorf("stratigraphy attributes missing strata")
	}
	sr, sc := a.Strata.Dims()
	if sr != nz || sc != m {
		return fmt.Errorf("strata are %dx%d, want %dx%d", sr, sc, nz, m)
	}
	if a.PackedElevations == nil {
		return fmt.Errorf("stratigraphy attributes missing packed elevations")
	}
	er, ec := a.PackedElevations.Dims()
	if ec != m {
		return fmt.Errorf("packed elevations span %d columns, want %d", ec, m)
	}
	if rows := a.CompactRows(); er < rows {
		return fmt.Errorf("packed elevations carry %d rows for %d compacted", er, rows)
	}
	return nil
}

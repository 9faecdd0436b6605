package section

import (
	"gonum.org/v1/gonum/mat"

	"github.com/crevasse-data/strata.report/varset"
)

// Kind discriminates the two classes of volume a section can bind.
type Kind string

const (
	// KindData marks volumes whose layer axis is simulation time.
	KindData Kind = "data"
	// KindStratigraphy marks volumes whose layer axis is elevation, holding
	// already-stratal data.
	KindStratigraphy Kind = "stratigraphy"
)

// Volume is the read-only contract a Section cuts across. Variables are
// dense (layers, y, x) arrays addressed by name; Z gives the coordinate of
// the layer axis, which is time for data volumes and elevation for
// stratigraphy volumes.
type Volume interface {
	Kind() Kind
	Variables() []string
	Dims() (nz, ny, nx int)
	Z() []float64

	// SliceVar extracts the named variable at (y[i], x[i]) for every layer,
	// returning a (layers, len(x)) matrix whose columns follow the footprint
	// order.
	SliceVar(name string, y, x []int) (*mat.Dense, error)
}

// StratVolume is implemented by data volumes that can answer stratigraphy
// queries. KnowsStratigraphy reports whether preservation has been
// computed; StratAttrsAt scopes the attributes to a footprint.
type StratVolume interface {
	Volume
	KnowsStratigraphy() bool
	StratAttrsAt(y, x []int) (*StratAttrs, error)
}

// VarSetProvider is implemented by volumes that carry their own display
// metadata registry. Sections fall back to the package defaults otherwise.
type VarSetProvider interface {
	VarSet() *varset.VarSet
}

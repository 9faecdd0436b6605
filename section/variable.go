package section

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/crevasse-data/strata.report/internal/grid"
)

// A SectionVariable is one variable extracted along a section: a (layers,
// trace) array of values plus the coordinates needed to display it. Treat
// it as immutable once built.
//
// Variables come in three variants. Those cut from a data volume with
// computed stratigraphy carry a StratAttrs bundle and answer for all three
// display styles. Those cut from a data volume without stratigraphy answer
// only for the spacetime style. Those cut from a stratigraphy volume hold
// already-stratal data and answer only for the stratigraphy style.
type SectionVariable struct {
	name         string
	data         *mat.Dense
	s, z         []float64
	smesh, zmesh *mat.Dense
	attrs        *StratAttrs
	stratOnly    bool
}

// A Segment is one line segment of a section drawn in lines style, in
// (s, z) display space. Value colors the segment and comes from the left
// endpoint's cell; it is NaN for cells masked out of a preserved view.
type Segment struct {
	X0, Y0 float64
	X1, Y1 float64
	Value  float64
}

// Limits bounds a section display in (s, z) space.
type Limits struct {
	SMin, SMax float64
	ZMin, ZMax float64
}

func newVariable(name string, data *mat.Dense, s, z []float64) (*SectionVariable, error) {
	nr, nc := data.Dims()
	if nr != len(z) || nc != len(s) {
		return nil, fmt.Errorf("section variable %q: data is %dx%d for %d layers and %d trace positions",
			name, nr, nc, len(z), len(s))
	}
	S, Z := grid.Meshgrid(s, z)
	return &SectionVariable{name: name, data: data, s: s, z: z, smesh: S, zmesh: Z}, nil
}

func newDataVariable(name string, data *mat.Dense, s, z []float64) (*SectionVariable, error) {
	return newVariable(name, data, s, z)
}

func newStratAwareVariable(name string, data *mat.Dense, s, z []float64, attrs *StratAttrs) (*SectionVariable, error) {
	v, err := newVariable(name, data, s, z)
	if err != nil {
		return nil, err
	}
	if attrs == nil {
		return nil, fmt.Errorf("section variable %q: nil stratigraphy attributes", name)
	}
	if err := attrs.validate(len(z), len(s)); err != nil {
		return nil, fmt.Errorf("section variable %q: %w", name, err)
	}
	v.attrs = attrs
	return v, nil
}

func newStratOnlyVariable(name string, data *mat.Dense, s, z []float64) (*SectionVariable, error) {
	v, err := newVariable(name, data, s, z)
	if err != nil {
		return nil, err
	}
	v.stratOnly = true
	return v, nil
}

// Name returns the variable name the section was sliced by.
func (v *SectionVariable) Name() string { return v.name }

// Data returns the (layers, trace) value array. Treat it as read-only.
func (v *SectionVariable) Data() *mat.Dense { return v.data }

// Dims returns the layer and trace counts.
func (v *SectionVariable) Dims() (nz, m int) { return len(v.z), len(v.s) }

// S returns the along-section coordinate. Treat it as read-only.
func (v *SectionVariable) S() []float64 { return v.s }

// Z returns the vertical coordinate. Treat it as read-only.
func (v *SectionVariable) Z() []float64 { return v.z }

// Meshes returns the along-section and vertical coordinate meshes, both
// shaped like the data. Treat them as read-only.
func (v *SectionVariable) Meshes() (S, Z *mat.Dense) { return v.smesh, v.zmesh }

// KnowsStratigraphy reports whether the variable carries preservation
// attributes.
func (v *SectionVariable) KnowsStratigraphy() bool { return v.attrs != nil }

// StratigraphyOnly reports whether the variable was cut from a
// stratigraphy volume.
func (v *SectionVariable) StratigraphyOnly() bool { return v.stratOnly }

// StratAttrs returns the stratigraphy attribute bundle.
func (v *SectionVariable) StratAttrs() (*StratAttrs, error) {
	if v.stratOnly {
		return nil, v.errNoSpacetime()
	}
	if v.attrs == nil {
		return nil, v.errNoStratigraphy()
	}
	return v.attrs, nil
}

// DefaultStyle returns the display style used when none is requested:
// stratigraphy for stratigraphy-only variables, spacetime otherwise.
func (v *SectionVariable) DefaultStyle() DisplayStyle {
	if v.stratOnly {
		return StyleStratigraphy
	}
	return StyleSpacetime
}

func (v *SectionVariable) resolveStyle(style DisplayStyle) DisplayStyle {
	if style == StyleDefault {
		return v.DefaultStyle()
	}
	return style
}

func (v *SectionVariable) errNoStratigraphy() error {
	return &NoStratigraphyError{
		Obj:     fmt.Sprintf("section variable %q", v.name),
		Missing: "stratigraphy information",
	}
}

func (v *SectionVariable) errNoSpacetime() error {
	return &NoStratigraphyError{
		Obj:     fmt.Sprintf("section variable %q", v.name),
		Missing: "spacetime or preserved information",
	}
}

// AsPreserved returns a copy of the space-time array with every cell whose
// deposit does not survive into the final stratigraphy replaced by NaN.
func (v *SectionVariable) AsPreserved() (*mat.Dense, error) {
	if v.stratOnly {
		return nil, v.errNoSpacetime()
	}
	if v.attrs == nil {
		return nil, v.errNoStratigraphy()
	}
	nr, nc := v.data.Dims()
	out := mat.NewDense(nr, nc, nil)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if v.attrs.Preserved.At(i, j) {
				out.Set(i, j, v.data.At(i, j))
			} else {
				out.Set(i, j, math.NaN())
			}
		}
	}
	return out, nil
}

// AsStratigraphy compacts the preserved cells onto their stacking
// positions, returning a (CompactRows, trace) matrix with zeros wherever no
// deposit lands. Row indices are stacking order, not elevations; display
// code pairs the result with the packed elevation mesh.
func (v *SectionVariable) AsStratigraphy() (*mat.Dense, error) {
	if v.stratOnly {
		return nil, v.errNoSpacetime()
	}
	if v.attrs == nil {
		return nil, v.errNoStratigraphy()
	}
	rows := v.attrs.CompactRows()
	if rows == 0 {
		return nil, fmt.Errorf("section variable %q: no cells preserved along the section", v.name)
	}
	nr, nc := v.data.Dims()
	vals := make([]float64, 0, len(v.attrs.RowSparse))
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if v.attrs.Preserved.At(i, j) {
				vals = append(vals, v.data.At(i, j))
			}
		}
	}
	out, err := grid.FromTriplets(rows, nc, v.attrs.RowSparse, v.attrs.ColSparse, vals)
	if err != nil {
		return nil, fmt.Errorf("section variable %q: %w", v.name, err)
	}
	return out, nil
}

// DisplayArrays returns the value array and the coordinate meshes to draw
// it against, all identically shaped. Spacetime and preserved styles use
// the (s, z) meshes; the stratigraphy style compacts the data and pairs it
// with the packed elevation mesh.
func (v *SectionVariable) DisplayArrays(style DisplayStyle) (data, x, y *mat.Dense, err error) {
	switch v.resolveStyle(style) {
	case StyleSpacetime:
		if v.stratOnly {
			return nil, nil, nil, v.errNoSpacetime()
		}
		return v.data, v.smesh, v.zmesh, nil
	case StylePreserved:
		if v.stratOnly {
			return nil, nil, nil, v.errNoSpacetime()
		}
		psvd, err := v.AsPreserved()
		if err != nil {
			return nil, nil, nil, err
		}
		return psvd, v.smesh, v.zmesh, nil
	case StyleStratigraphy:
		if v.stratOnly {
			return v.data, v.smesh, v.zmesh, nil
		}
		sp, err := v.AsStratigraphy()
		if err != nil {
			return nil, nil, nil, err
		}
		rows, _ := sp.Dims()
		return sp, grid.Tile(v.s, rows), grid.FirstRows(v.attrs.PackedElevations, rows), nil
	}
	return nil, nil, nil, fmt.Errorf("%w: %v", ErrBadStyle, style)
}

// DisplayLines returns the data as colorable line segments, one per
// adjacent pair of trace positions in each layer, ordered row-major from
// the earliest layer. The stratigraphy style bends the segments onto the
// preservation boundaries instead of the layer coordinate.
func (v *SectionVariable) DisplayLines(style DisplayStyle) ([]Segment, error) {
	resolved := v.resolveStyle(style)
	if v.stratOnly {
		if resolved == StyleStratigraphy {
			return nil, fmt.Errorf("line display of stratigraphy volumes: %w", ErrNotImplemented)
		}
		return nil, v.errNoSpacetime()
	}
	switch resolved {
	case StyleSpacetime:
		return buildSegments(v.smesh, v.zmesh, v.data), nil
	case StylePreserved:
		psvd, err := v.AsPreserved()
		if err != nil {
			return nil, err
		}
		return buildSegments(v.smesh, v.zmesh, psvd), nil
	case StyleStratigraphy:
		if v.attrs == nil {
			return nil, v.errNoStratigraphy()
		}
		return buildSegments(v.smesh, v.attrs.Strata, v.data), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrBadStyle, resolved)
}

// buildSegments pairs adjacent columns of each row: segment (i, j) runs
// from (x[i,j], y[i,j]) to (x[i,j+1], y[i,j+1]) and takes its value from
// val[i,j].
func buildSegments(x, y, val *mat.Dense) []Segment {
	nr, nc := val.Dims()
	if nc < 2 {
		return nil
	}
	segs := make([]Segment, 0, nr*(nc-1))
	for i := 0; i < nr; i++ {
		for j := 0; j < nc-1; j++ {
			segs = append(segs, Segment{
				X0: x.At(i, j), Y0: y.At(i, j),
				X1: x.At(i, j+1), Y1: y.At(i, j+1),
				Value: val.At(i, j),
			})
		}
	}
	return segs
}

// DisplayLimits returns the (s, z) bounds a display of the given style
// should clamp to. Stratigraphy styles inflate the vertical maximum by 1.5x
// to leave headroom above the preserved surface.
func (v *SectionVariable) DisplayLimits(style DisplayStyle) (Limits, error) {
	resolved := v.resolveStyle(style)
	lim := Limits{SMin: floats.Min(v.s), SMax: floats.Max(v.s)}
	if v.stratOnly {
		switch resolved {
		case StyleSpacetime, StylePreserved:
			return Limits{}, v.errNoSpacetime()
		case StyleStratigraphy:
			lim.ZMin = floats.Min(v.z)
			lim.ZMax = floats.Max(v.z) * 1.5
			return lim, nil
		}
		return Limits{}, fmt.Errorf("%w: %v", ErrBadStyle, resolved)
	}
	switch resolved {
	case StyleSpacetime:
		lim.ZMin, lim.ZMax = floats.Min(v.z), floats.Max(v.z)
		return lim, nil
	case StylePreserved:
		if v.attrs == nil {
			return Limits{}, v.errNoStratigraphy()
		}
		lim.ZMin, lim.ZMax = floats.Min(v.z), floats.Max(v.z)
		return lim, nil
	case StyleStratigraphy:
		if v.attrs == nil {
			return Limits{}, v.errNoStratigraphy()
		}
		min, max, ok := grid.MinMax(v.attrs.Strata)
		if !ok {
			return Limits{}, fmt.Errorf("section variable %q: strata carry no finite values", v.name)
		}
		lim.ZMin, lim.ZMax = min, max*1.5
		return lim, nil
	}
	return Limits{}, fmt.Errorf("%w: %v", ErrBadStyle, resolved)
}

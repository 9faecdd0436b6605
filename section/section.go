// Package section cuts two-dimensional slices out of three-dimensional
// space-time volumes of simulation output and prepares them for display.
//
// A Section pairs a Tracer, which lays an (x, y) grid footprint across the
// horizontal plane of a volume, with the volume itself. Slicing a connected
// section pulls one variable through every layer above the footprint,
// producing a SectionVariable: a (layers, trace) array annotated with the
// along-section and vertical coordinates and, when the volume has computed
// stratigraphy, the preservation attributes needed to re-project the data
// into stratal space.
package section

import (
	"fmt"

	"github.com/crevasse-data/strata.report/internal/grid"
)

// A Point is an (x, y) grid index pair on the horizontal plane of a volume.
type Point struct {
	X, Y int
}

// A Tracer lays the (x, y) grid-index footprint of a section across a
// volume with the given horizontal extent. The returned slices are equal
// length and index the volume as (y[i], x[i]).
type Tracer interface {
	Trace(ny, nx int) (x, y []int, err error)
}

// StrikeTracer cuts along a fixed y row, spanning the full x extent of the
// volume one cell at a time.
type StrikeTracer struct {
	Y int
}

func (t StrikeTracer) Trace(ny, nx int) (x, y []int, err error) {
	if t.Y < 0 || t.Y >= ny {
		return nil, nil, fmt.Errorf("strike row %d outside volume height %d", t.Y, ny)
	}
	x = make([]int, nx)
	y = make([]int, nx)
	for i := range x {
		x[i] = i
		y[i] = t.Y
	}
	return x, y, nil
}

// PathTracer visits caller-supplied points verbatim, in order.
type PathTracer struct {
	Points []Point
}

func (t PathTracer) Trace(ny, nx int) (x, y []int, err error) {
	if len(t.Points) == 0 {
		return nil, nil, fmt.Errorf("path has no points")
	}
	x = make([]int, len(t.Points))
	y = make([]int, len(t.Points))
	for i, p := range t.Points {
		if p.X < 0 || p.X >= nx || p.Y < 0 || p.Y >= ny {
			return nil, nil, fmt.Errorf("path point %d at (%d,%d) outside volume extent %dx%d", i, p.X, p.Y, nx, ny)
		}
		x[i], y[i] = p.X, p.Y
	}
	return x, y, nil
}

// A Section extracts two-dimensional slices from a volume along the
// footprint laid down by its tracer. Sections start either unconnected or
// bound to a single volume; Connect (re)binds a volume and recomputes the
// footprint and coordinates.
type Section struct {
	tracer Tracer
	vol    Volume
	x, y   []int
	s      []float64
	z      []float64
}

// NewSection builds a section around an arbitrary tracer. Zero or one
// volume may be supplied; with one, the section connects immediately.
func NewSection(tr Tracer, vols ...Volume) (*Section, error) {
	if tr == nil {
		return nil, fmt.Errorf("section: nil tracer")
	}
	if len(vols) > 1 {
		return nil, fmt.Errorf("section: %w, got %d", ErrTooManyVolumes, len(vols))
	}
	sec := &Section{tracer: tr}
	if len(vols) == 1 {
		if err := sec.Connect(vols[0]); err != nil {
			return nil, err
		}
	}
	return sec, nil
}

// NewStrikeSection builds a section along the fixed row y.
func NewStrikeSection(y int, vols ...Volume) (*Section, error) {
	return NewSection(StrikeTracer{Y: y}, vols...)
}

// NewPathSection builds a section through the given points, visited in
// order.
func NewPathSection(points []Point, vols ...Volume) (*Section, error) {
	return NewSection(PathTracer{Points: points}, vols...)
}

// NewDipSection is reserved for sections cut along a fixed x column.
func NewDipSection(x int, vols ...Volume) (*Section, error) {
	return nil, fmt.Errorf("dip section: %w", ErrNotImplemented)
}

// NewRadialSection is reserved for sections radiating from an apex at the
// given azimuth.
func NewRadialSection(apex Point, azimuth float64, vols ...Volume) (*Section, error) {
	return nil, fmt.Errorf("radial section: %w", ErrNotImplemented)
}

// Connect binds the section to vol, lays the footprint across it and
// computes the along-section and vertical coordinates. Reconnecting to a
// different volume replaces all derived state.
func (sec *Section) Connect(vol Volume) error {
	if vol == nil {
		return fmt.Errorf("section: connect to nil volume: %w", ErrBadVolume)
	}
	switch vol.Kind() {
	case KindData, KindStratigraphy:
	default:
		return fmt.Errorf("section: %w %q", ErrBadVolume, vol.Kind())
	}
	nz, ny, nx := vol.Dims()
	if nz <= 0 || ny <= 0 || nx <= 0 {
		return fmt.Errorf("section: empty volume extent %dx%dx%d", nz, ny, nx)
	}
	zc := vol.Z()
	if len(zc) != nz {
		return fmt.Errorf("section: vertical coordinate has %d entries for %d layers", len(zc), nz)
	}
	x, y, err := sec.tracer.Trace(ny, nx)
	if err != nil {
		return fmt.Errorf("section: trace: %w", err)
	}
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("section: tracer produced %d x and %d y indices", len(x), len(y))
	}
	sec.vol = vol
	sec.x, sec.y = x, y
	sec.s = grid.CumulativeDistance(x, y)
	sec.z = append([]float64(nil), zc...)
	return nil
}

// Connected reports whether a volume is bound.
func (sec *Section) Connected() bool { return sec.vol != nil }

// Volume returns the connected volume, or nil.
func (sec *Section) Volume() Volume { return sec.vol }

// Trace returns the (x, y) footprint as index pairs.
func (sec *Section) Trace() ([]Point, error) {
	if sec.vol == nil {
		return nil, ErrNotConnected
	}
	pts := make([]Point, len(sec.x))
	for i := range pts {
		pts[i] = Point{X: sec.x[i], Y: sec.y[i]}
	}
	return pts, nil
}

// S returns the along-section coordinate: the cumulative Euclidean distance
// along the footprint, in grid cells.
func (sec *Section) S() ([]float64, error) {
	if sec.vol == nil {
		return nil, ErrNotConnected
	}
	return append([]float64(nil), sec.s...), nil
}

// Z returns the vertical coordinate of the connected volume.
func (sec *Section) Z() ([]float64, error) {
	if sec.vol == nil {
		return nil, ErrNotConnected
	}
	return append([]float64(nil), sec.z...), nil
}

// Variables lists the variable names of the connected volume.
func (sec *Section) Variables() ([]string, error) {
	if sec.vol == nil {
		return nil, ErrNotConnected
	}
	return sec.vol.Variables(), nil
}

// Slice extracts the named variable along the footprint. The result carries
// the section coordinates and, when the volume kind and capability allow,
// the stratigraphy attributes for the footprint.
func (sec *Section) Slice(name string) (*SectionVariable, error) {
	if sec.vol == nil {
		return nil, ErrNotConnected
	}
	data, err := sec.vol.SliceVar(name, sec.y, sec.x)
	if err != nil {
		return nil, fmt.Errorf("section: slice %q: %w", name, err)
	}
	nr, nc := data.Dims()
	if nr != len(sec.z) || nc != len(sec.s) {
		return nil, fmt.Errorf("section: slice %q is %dx%d, want %dx%d", name, nr, nc, len(sec.z), len(sec.s))
	}
	if sec.vol.Kind() == KindStratigraphy {
		return newStratOnlyVariable(name, data, sec.s, sec.z)
	}
	if sv, ok := sec.vol.(StratVolume); ok && sv.KnowsStratigraphy() {
		attrs, err := sv.StratAttrsAt(sec.y, sec.x)
		if err != nil {
			return nil, fmt.Errorf("section: stratigraphy attributes for %q: %w", name, err)
		}
		return newStratAwareVariable(name, data, sec.s, sec.z, attrs)
	}
	return newDataVariable(name, data, sec.s, sec.z)
}

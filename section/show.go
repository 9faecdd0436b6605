package section

import (
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/crevasse-data/strata.report/varset"
)

// Surface is the drawing contract Show renders onto. Implementations adapt
// a concrete plotting backend; render/plotpng provides one over gonum/plot.
type Surface interface {
	// QuadMesh draws value as a filled mesh over the x and y coordinate
	// grids, all identically shaped, colored through info. NaN cells are
	// left blank.
	QuadMesh(x, y, value *mat.Dense, info varset.VarInfo) error

	// LineSegments draws the segments in order, colored by value through
	// info. Later segments land on top; NaN-valued segments are skipped.
	LineSegments(segs []Segment, info varset.VarInfo) error

	// SetLimits clamps the drawing to the given (s, z) bounds.
	SetLimits(l Limits) error

	// Label writes text at an axes-relative position, 0..1 from the
	// bottom-left, anchored at its right edge.
	Label(text string, x, y float64) error
}

// ShowOptions adjust how Show draws a variable. The zero value draws a
// shaded view in the variable's default display style with no label.
type ShowOptions struct {
	// Style selects the drawing style, "shaded" or "lines". Empty means
	// shaded.
	Style string

	// DisplayStyle selects which view of the data to draw. StyleDefault
	// resolves per variable.
	DisplayStyle DisplayStyle

	// Label is literal text drawn inside the axes. AutoLabel draws the
	// registry label for the variable instead.
	Label     string
	AutoLabel bool
}

// Show slices the named variable and draws it onto surf: the mesh or line
// geometry, then the display limits, then any label. Display metadata comes
// from the volume's registry when it carries one, otherwise the package
// defaults.
func (sec *Section) Show(name string, surf Surface, opts ShowOptions) error {
	if surf == nil {
		return fmt.Errorf("section: show %q: nil surface", name)
	}
	v, err := sec.Slice(name)
	if err != nil {
		return err
	}
	info := sec.varInfo(name)

	switch strings.ToLower(opts.Style) {
	case "", "shade", "shaded":
		data, x, y, err := v.DisplayArrays(opts.DisplayStyle)
		if err != nil {
			return err
		}
		if err := surf.QuadMesh(x, y, data, info); err != nil {
			return fmt.Errorf("section: show %q: %w", name, err)
		}
	case "line", "lines":
		segs, err := v.DisplayLines(opts.DisplayStyle)
		if err != nil {
			return err
		}
		// Stratal lines draw late to early so the oldest deposits land on
		// top where later erosion would otherwise hide them.
		if v.resolveStyle(opts.DisplayStyle) == StyleStratigraphy {
			slices.Reverse(segs)
		}
		if err := surf.LineSegments(segs, info); err != nil {
			return fmt.Errorf("section: show %q: %w", name, err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrBadStyle, opts.Style)
	}

	lim, err := v.DisplayLimits(opts.DisplayStyle)
	if err != nil {
		return err
	}
	if err := surf.SetLimits(lim); err != nil {
		return fmt.Errorf("section: show %q: %w", name, err)
	}

	label := opts.Label
	if opts.AutoLabel {
		label = info.Label
	}
	if label != "" {
		if err := surf.Label(label, 0.99, 0.8); err != nil {
			return fmt.Errorf("section: show %q: %w", name, err)
		}
	}
	return nil
}

func (sec *Section) varInfo(name string) varset.VarInfo {
	if p, ok := sec.vol.(VarSetProvider); ok {
		if vs := p.VarSet(); vs != nil {
			return vs.Get(name)
		}
	}
	return varset.Default().Get(name)
}

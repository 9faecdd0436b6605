// Package plotpng renders section geometry to PNG files through gonum/plot.
// Canvas implements section.Surface, so a section shows straight onto it:
//
//	cv := plotpng.New(plotpng.Options{Title: "strike 12"})
//	err := sec.Show("velocity", cv, section.ShowOptions{AutoLabel: true})
//	err = cv.Save("strike12.png")
package plotpng

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/crevasse-data/strata.report/internal/grid"
	"github.com/crevasse-data/strata.report/section"
	"github.com/crevasse-data/strata.report/varset"
)

// Canvas accumulates drawing calls on a gonum plot and writes the result as
// a PNG. It is not safe for concurrent use.
type Canvas struct {
	p      *plot.Plot
	width  vg.Length
	height vg.Length
	labels []pendingLabel
}

type pendingLabel struct {
	text   string
	fx, fy float64
}

// Options configure a Canvas. The zero value gives a 10x4 inch frame with
// no title or axis labels.
type Options struct {
	Title  string
	XLabel string
	YLabel string

	// Width and Height are in inches.
	Width  float64
	Height float64
}

// New returns an empty canvas.
func New(o Options) *Canvas {
	if o.Width <= 0 {
		o.Width = 10
	}
	if o.Height <= 0 {
		o.Height = 4
	}
	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = o.XLabel
	p.Y.Label.Text = o.YLabel
	return &Canvas{
		p:      p,
		width:  vg.Length(o.Width) * vg.Inch,
		height: vg.Length(o.Height) * vg.Inch,
	}
}

// QuadMesh draws value as a filled cell mesh over the x and y coordinate
// grids. All three matrices must share a shape.
func (c *Canvas) QuadMesh(x, y, value *mat.Dense, info varset.VarInfo) error {
	if x == nil || y == nil || value == nil {
		return fmt.Errorf("plotpng: nil mesh argument")
	}
	nr, nc := value.Dims()
	if xr, xc := x.Dims(); xr != nr || xc != nc {
		return fmt.Errorf("plotpng: x mesh is %dx%d, data is %dx%d", xr, xc, nr, nc)
	}
	if yr, yc := y.Dims(); yr != nr || yc != nc {
		return fmt.Errorf("plotpng: y mesh is %dx%d, data is %dx%d", yr, yc, nr, nc)
	}
	c.p.Add(newMeshPlotter(x, y, value, rampFor(info.Cmap), meshScale(value, info)))
	return nil
}

// LineSegments draws the segments in order, each coloured by its value.
// Segments whose value is NaN are skipped.
func (c *Canvas) LineSegments(segs []section.Segment, info varset.VarInfo) error {
	colors := rampFor(info.Cmap)
	scale := segmentScale(segs, info)
	for _, s := range segs {
		if math.IsNaN(s.Value) {
			continue
		}
		ln, err := plotter.NewLine(plotter.XYs{{X: s.X0, Y: s.Y0}, {X: s.X1, Y: s.Y1}})
		if err != nil {
			return fmt.Errorf("plotpng: segment line: %w", err)
		}
		ln.Color = colors.at(scale.norm(s.Value))
		ln.Width = vg.Points(1)
		c.p.Add(ln)
	}
	return nil
}

// SetLimits pins the axis ranges.
func (c *Canvas) SetLimits(l section.Limits) error {
	if l.SMax < l.SMin || l.ZMax < l.ZMin {
		return fmt.Errorf("plotpng: inverted limits [%v, %v] x [%v, %v]",
			l.SMin, l.SMax, l.ZMin, l.ZMax)
	}
	c.p.X.Min, c.p.X.Max = l.SMin, l.SMax
	c.p.Y.Min, c.p.Y.Max = l.ZMin, l.ZMax
	return nil
}

// Label queues text at an axes-relative position, 0..1 from the bottom
// left, anchored at its right edge. Labels resolve against the final axis
// ranges when the canvas is saved.
func (c *Canvas) Label(txt string, fx, fy float64) error {
	if txt == "" {
		return nil
	}
	c.labels = append(c.labels, pendingLabel{text: txt, fx: fx, fy: fy})
	return nil
}

// Save places any queued labels and writes the plot to path as a PNG.
func (c *Canvas) Save(path string) error {
	if err := c.placeLabels(); err != nil {
		return err
	}
	if err := c.p.Save(c.width, c.height, path); err != nil {
		return fmt.Errorf("save section plot: %w", err)
	}
	return nil
}

func (c *Canvas) placeLabels() error {
	if len(c.labels) == 0 {
		return nil
	}
	xmin, xmax := axisRange(c.p.X.Min, c.p.X.Max)
	ymin, ymax := axisRange(c.p.Y.Min, c.p.Y.Max)
	for _, l := range c.labels {
		lbl, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: xmin + l.fx*(xmax-xmin), Y: ymin + l.fy*(ymax-ymin)}},
			Labels: []string{l.text},
		})
		if err != nil {
			return fmt.Errorf("plotpng: label %q: %w", l.text, err)
		}
		for i := range lbl.TextStyle {
			lbl.TextStyle[i].XAlign = text.XRight
		}
		c.p.Add(lbl)
	}
	c.labels = c.labels[:0]
	return nil
}

// axisRange mirrors the fallback the axis itself applies to an untouched
// range at draw time.
func axisRange(lo, hi float64) (float64, float64) {
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
		return -1, 1
	}
	return lo, hi
}

// meshScale resolves the colour scale for gridded data: explicit bounds
// win, the finite data range otherwise.
func meshScale(v mat.Matrix, info varset.VarInfo) span {
	lo, hi, ok := grid.MinMax(v)
	if !ok {
		lo, hi = 0, 1
	}
	if info.VMin != nil {
		lo = *info.VMin
	}
	if info.VMax != nil {
		hi = *info.VMax
	}
	return span{lo: lo, hi: hi}
}

func segmentScale(segs []section.Segment, info varset.VarInfo) span {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range segs {
		if math.IsNaN(s.Value) {
			continue
		}
		lo = math.Min(lo, s.Value)
		hi = math.Max(hi, s.Value)
	}
	if lo > hi {
		lo, hi = 0, 1
	}
	if info.VMin != nil {
		lo = *info.VMin
	}
	if info.VMax != nil {
		hi = *info.VMax
	}
	return span{lo: lo, hi: hi}
}

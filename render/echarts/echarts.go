// Package echarts renders section views as HTML charts through go-echarts.
// WriteShaded draws one point per cell coloured through a VisualMap ramp;
// WriteLines draws one polyline per layer. Both slice the variable
// themselves and write a complete HTML document, so a handler or CLI only
// needs an open writer.
package echarts

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/crevasse-data/strata.report/internal/numfmt"
	"github.com/crevasse-data/strata.report/section"
	"github.com/crevasse-data/strata.report/varset"
)

// visualMapColors is the ramp the VisualMap interpolates, matching the PNG
// renderer's viridis stops so both backends colour a section the same way.
var visualMapColors = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// Options adjust the chart document. Zero values fall back to the variable
// label as title, a 900x500 px frame and an 8000 point budget.
type Options struct {
	Title     string
	Subtitle  string
	PageTitle string
	Width     string
	Height    string

	// XName and YName label the axes. They default to the coordinate
	// names "s" and "z".
	XName string
	YName string

	// MaxPoints caps how many cells a shaded chart carries; larger
	// sections are strided down to stay under it.
	MaxPoints int
}

func (o Options) withDefaults(info varset.VarInfo) Options {
	if o.Title == "" {
		o.Title = info.Label
	}
	if o.PageTitle == "" {
		o.PageTitle = o.Title
	}
	if o.Width == "" {
		o.Width = "900px"
	}
	if o.Height == "" {
		o.Height = "500px"
	}
	if o.XName == "" {
		o.XName = "s"
	}
	if o.YName == "" {
		o.YName = "z"
	}
	if o.MaxPoints <= 0 {
		o.MaxPoints = 8000
	}
	return o
}

// WriteShaded renders the shaded view of the named variable as a scatter
// chart, one point per finite cell, coloured by value.
func WriteShaded(w io.Writer, sec *section.Section, name string, style section.DisplayStyle, o Options) error {
	v, err := sec.Slice(name)
	if err != nil {
		return err
	}
	data, xs, ys, err := v.DisplayArrays(style)
	if err != nil {
		return err
	}
	lim, err := v.DisplayLimits(style)
	if err != nil {
		return err
	}
	info := lookupInfo(sec, name)
	o = o.withDefaults(info)

	nr, nc := data.Dims()
	stride := strideFor(nr*nc, o.MaxPoints)
	points := make([]opts.ScatterData, 0, nr*nc/stride+1)
	lo, hi := math.Inf(1), math.Inf(-1)
	idx := 0
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			val := data.At(i, j)
			keep := idx%stride == 0
			idx++
			if !keep || math.IsNaN(val) {
				continue
			}
			if val < lo {
				lo = val
			}
			if val > hi {
				hi = val
			}
			points = append(points, opts.ScatterData{Value: []interface{}{xs.At(i, j), ys.At(i, j), val}})
		}
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

	subtitle := o.Subtitle
	if subtitle == "" {
		subtitle = fmt.Sprintf("variable=%s style=%s points=%d stride=%d",
			name, resolvedStyle(v, style), len(points), stride)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.PageTitle, Width: o.Width, Height: o.Height}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: lim.SMin, Max: lim.SMax, Name: o.XName, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: lim.ZMin, Max: lim.ZMax, Name: o.YName, NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: visualMapColors},
		}),
	)
	scatter.AddSeries(name, points, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return fmt.Errorf("render %s chart: %w", name, err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// WriteLines renders the line view of the named variable, one series per
// layer over the along-section distance, coloured oldest to youngest
// through the ramp stops.
func WriteLines(w io.Writer, sec *section.Section, name string, style section.DisplayStyle, o Options) error {
	v, err := sec.Slice(name)
	if err != nil {
		return err
	}
	segs, err := v.DisplayLines(style)
	if err != nil {
		return err
	}
	s, err := sec.S()
	if err != nil {
		return err
	}
	if len(s) < 2 || len(segs) == 0 {
		return fmt.Errorf("echarts: %q has no segments to draw", name)
	}
	info := lookupInfo(sec, name)
	o = o.withDefaults(info)

	perRow := len(s) - 1
	rows := len(segs) / perRow

	categories := make([]string, len(s))
	for j, sv := range s {
		categories[j] = numfmt.Table(sv)
	}

	subtitle := o.Subtitle
	if subtitle == "" {
		subtitle = fmt.Sprintf("variable=%s style=%s layers=%d",
			name, resolvedStyle(v, style), rows)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.PageTitle, Width: o.Width, Height: o.Height}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: o.XName, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: o.YName, NameLocation: "middle", NameGap: 30}),
	)
	line.SetXAxis(categories)
	for r := 0; r < rows; r++ {
		rowSegs := segs[r*perRow : (r+1)*perRow]
		pts := make([]opts.LineData, 0, len(s))
		pts = append(pts, opts.LineData{Value: rowSegs[0].Y0})
		for _, sg := range rowSegs {
			pts = append(pts, opts.LineData{Value: sg.Y1})
		}
		line.AddSeries(fmt.Sprintf("layer %d", r), pts,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: stopColor(r, rows)}))
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return fmt.Errorf("render %s lines chart: %w", name, err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func resolvedStyle(v *section.SectionVariable, style section.DisplayStyle) section.DisplayStyle {
	if style == section.StyleDefault {
		return v.DefaultStyle()
	}
	return style
}

func lookupInfo(sec *section.Section, name string) varset.VarInfo {
	if vol := sec.Volume(); vol != nil {
		if p, ok := vol.(section.VarSetProvider); ok {
			if vs := p.VarSet(); vs != nil {
				return vs.Get(name)
			}
		}
	}
	return varset.Default().Get(name)
}

// strideFor keeps n cells under the max by sampling every k-th cell.
func strideFor(n, max int) int {
	if max <= 0 || n <= max {
		return 1
	}
	return int(math.Ceil(float64(n) / float64(max)))
}

// stopColor picks the ramp stop for layer r of n, oldest darkest.
func stopColor(r, n int) string {
	if n <= 1 {
		return visualMapColors[len(visualMapColors)-1]
	}
	i := int(math.Round(float64(r) / float64(n-1) * float64(len(visualMapColors)-1)))
	return visualMapColors[i]
}

package plotpng

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/crevasse-data/strata.report/internal/grid"
)

// meshPlotter fills one quadrilateral per cell of a curvilinear grid. The
// coordinate matrices give cell centres; edges sit halfway between
// neighbouring centres and extrapolate past the boundary, so cells keep
// their full footprint at the rim. NaN cells are left unfilled.
type meshPlotter struct {
	v      *mat.Dense
	cx, cy *mat.Dense // corner grids, one row and column larger than v
	colors ramp
	scale  span
}

func newMeshPlotter(x, y, v *mat.Dense, colors ramp, scale span) *meshPlotter {
	return &meshPlotter{
		v:      v,
		cx:     cornerGrid(x),
		cy:     cornerGrid(y),
		colors: colors,
		scale:  scale,
	}
}

func (m *meshPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	nr, nc := m.v.Dims()
	quad := make([]vg.Point, 4)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			val := m.v.At(i, j)
			if math.IsNaN(val) {
				continue
			}
			xs := [4]float64{m.cx.At(i, j), m.cx.At(i, j+1), m.cx.At(i+1, j+1), m.cx.At(i+1, j)}
			ys := [4]float64{m.cy.At(i, j), m.cy.At(i, j+1), m.cy.At(i+1, j+1), m.cy.At(i+1, j)}
			skip := false
			for k := range quad {
				if math.IsNaN(xs[k]) || math.IsNaN(ys[k]) {
					skip = true
					break
				}
				quad[k] = vg.Point{X: trX(xs[k]), Y: trY(ys[k])}
			}
			if skip {
				continue
			}
			c.FillPolygon(m.colors.at(m.scale.norm(val)), quad)
		}
	}
}

func (m *meshPlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax, ok := grid.MinMax(m.cx)
	if !ok {
		xmin, xmax = 0, 1
	}
	ymin, ymax, ok = grid.MinMax(m.cy)
	if !ok {
		ymin, ymax = 0, 1
	}
	return xmin, xmax, ymin, ymax
}

// cornerGrid expands an (nr, nc) grid of cell centres into the
// (nr+1, nc+1) grid of cell corners, first along columns, then along rows.
func cornerGrid(m *mat.Dense) *mat.Dense {
	nr, nc := m.Dims()
	vert := mat.NewDense(nr+1, nc, nil)
	col := make([]float64, nr)
	for j := 0; j < nc; j++ {
		mat.Col(col, j, m)
		vert.SetCol(j, edges(col))
	}
	out := mat.NewDense(nr+1, nc+1, nil)
	for i := 0; i <= nr; i++ {
		out.SetRow(i, edges(vert.RawRowView(i)))
	}
	return out
}

// edges turns n centre coordinates into n+1 edge coordinates: midpoints
// inside, half-spacing extrapolation at the ends. A single centre gets a
// unit-wide cell.
func edges(vals []float64) []float64 {
	n := len(vals)
	out := make([]float64, n+1)
	if n == 1 {
		out[0], out[1] = vals[0]-0.5, vals[0]+0.5
		return out
	}
	out[0] = vals[0] - (vals[1]-vals[0])/2
	for i := 1; i < n; i++ {
		out[i] = (vals[i-1] + vals[i]) / 2
	}
	out[n] = vals[n-1] + (vals[n-1]-vals[n-2])/2
	return out
}

package cube

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/crevasse-data/strata.report/varset"
)

// DeltaGenerator builds small synthetic prograding-delta runs for demos
// and tests: a lobe of deposition wanders across the basin and marches
// downstream, occasionally scouring a channel, so the resulting elevation
// history carries a non-trivial preservation record.
type DeltaGenerator struct {
	TimeSteps int
	Height    int // y extent
	Width     int // x extent, downstream

	BasinDepth  float64 // metres below datum at the distal wall
	AggradeRate float64 // lobe-axis deposit thickness per step, metres
	ScourDepth  float64 // channel cut during avulsion steps, metres
	NoiseAmp    float64

	rng *rand.Rand
}

// NewDeltaGenerator returns a generator with the stock run shape. Runs are
// deterministic for a given seed.
func NewDeltaGenerator(seed int64) *DeltaGenerator {
	return &DeltaGenerator{
		TimeSteps:   30,
		Height:      24,
		Width:       48,
		BasinDepth:  2.0,
		AggradeRate: 0.3,
		ScourDepth:  0.15,
		NoiseAmp:    0.02,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Build runs the generator and returns a data cube carrying eta, velocity
// and depth fields over a unit time coordinate, with stratigraphy already
// computed from the elevation field and the default display registry
// attached.
func (g *DeltaGenerator) Build() (*DataCube, error) {
	nt, ny, nx := g.TimeSteps, g.Height, g.Width
	if nt < 2 || ny < 2 || nx < 2 {
		return nil, fmt.Errorf("cube: generator extent %dx%dx%d too small", nt, ny, nx)
	}
	eta := NewField(nt, ny, nx)
	vel := NewField(nt, ny, nx)
	depth := NewField(nt, ny, nx)

	// Initial surface dips from the inlet at x=0 down to the basin floor.
	surface := make([]float64, ny*nx)
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			surface[i*nx+j] = -g.BasinDepth * float64(j) / float64(nx-1)
		}
	}

	sigY := float64(ny) / 6
	sigX := float64(nx) / 8
	for t := 0; t < nt; t++ {
		prog := float64(t) / float64(nt-1)
		cy := float64(ny)/2 + float64(ny)/4*math.Sin(float64(t)*0.7) + g.rng.NormFloat64()
		front := 2 + prog*float64(nx-6) + g.rng.NormFloat64()
		scouring := g.rng.Float64() < 0.25

		for i := 0; i < ny; i++ {
			for j := 0; j < nx; j++ {
				dy := (float64(i) - cy) / sigY
				dx := (float64(j) - front) / sigX
				d := g.AggradeRate * math.Exp(-dy*dy/2) * math.Exp(-dx*dx/2)
				d += g.NoiseAmp * g.rng.NormFloat64()
				if scouring && math.Abs(float64(i)-cy) < 1.5 && float64(j) < front {
					d -= g.ScourDepth
				}
				surface[i*nx+j] += d
				e := surface[i*nx+j]
				eta.Set(t, i, j, e)

				if e < 0 {
					depth.Set(t, i, j, -e)
				}

				v := 1.2 * math.Exp(-dy*dy/2)
				if float64(j) > front {
					v *= math.Exp(-(float64(j) - front) / 4)
				}
				v += g.NoiseAmp * math.Abs(g.rng.NormFloat64())
				vel.Set(t, i, j, v)
			}
		}
	}

	times := make([]float64, nt)
	floats.Span(times, 0, float64(nt-1))

	dc, err := NewDataCube(times, map[string]*Field{
		"eta":      eta,
		"velocity": vel,
		"depth":    depth,
	})
	if err != nil {
		return nil, err
	}
	if err := dc.ComputeStratigraphyFrom("eta"); err != nil {
		return nil, err
	}
	dc.SetVarSet(varset.Default())
	return dc, nil
}

package cube

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/crevasse-data/strata.report/internal/testutil"
	"github.com/crevasse-data/strata.report/section"
)

func TestDeltaGeneratorDeterminism(t *testing.T) {
	a, err := NewDeltaGenerator(7).Build()
	testutil.AssertNoError(t, err)
	b, err := NewDeltaGenerator(7).Build()
	testutil.AssertNoError(t, err)

	fa, _ := a.Field("eta")
	fb, _ := b.Field("eta")
	nz, ny, nx := a.Dims()
	for k := 0; k < nz; k++ {
		if !mat.Equal(fa.Layer(k), fb.Layer(k)) {
			t.Fatalf("same seed produced different surfaces at step %d", k)
		}
	}
	if nz2, ny2, nx2 := b.Dims(); nz != nz2 || ny != ny2 || nx != nx2 {
		t.Fatalf("same seed produced different extents")
	}

	c, err := NewDeltaGenerator(8).Build()
	testutil.AssertNoError(t, err)
	fc, _ := c.Field("eta")
	same := true
	for k := 0; k < nz && same; k++ {
		same = mat.Equal(fa.Layer(k), fc.Layer(k))
	}
	if same {
		t.Error("different seeds produced identical surfaces")
	}
}

func TestDeltaGeneratorShape(t *testing.T) {
	g := NewDeltaGenerator(1)
	dc, err := g.Build()
	testutil.AssertNoError(t, err)

	nz, ny, nx := dc.Dims()
	if nz != g.TimeSteps || ny != g.Height || nx != g.Width {
		t.Fatalf("dims = %dx%dx%d, want %dx%dx%d", nz, ny, nx, g.TimeSteps, g.Height, g.Width)
	}
	if dc.Kind() != section.KindData {
		t.Fatalf("kind = %q", dc.Kind())
	}

	want := []string{"depth", "eta", "velocity"}
	got := dc.Variables()
	if len(got) != len(want) {
		t.Fatalf("variables = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("variables = %v, want %v", got, want)
		}
	}

	z := dc.Z()
	if len(z) != nz || z[0] != 0 || z[nz-1] != float64(nz-1) {
		t.Errorf("time axis = [%v .. %v] over %d steps", z[0], z[len(z)-1], len(z))
	}

	if vs := dc.VarSet(); vs == nil {
		t.Error("generated cube carries no variable registry")
	}
}

func TestDeltaGeneratorFieldRanges(t *testing.T) {
	dc, err := NewDeltaGenerator(3).Build()
	testutil.AssertNoError(t, err)
	nz, ny, nx := dc.Dims()

	depth, _ := dc.Field("depth")
	vel, _ := dc.Field("velocity")
	for k := 0; k < nz; k++ {
		for i := 0; i < ny; i++ {
			for j := 0; j < nx; j++ {
				if d := depth.At(k, i, j); d < 0 {
					t.Fatalf("depth[%d,%d,%d] = %v below zero", k, i, j, d)
				}
				if v := vel.At(k, i, j); v < 0 {
					t.Fatalf("velocity[%d,%d,%d] = %v below zero", k, i, j, v)
				}
			}
		}
	}
}

func TestDeltaGeneratorStratigraphy(t *testing.T) {
	dc, err := NewDeltaGenerator(11).Build()
	testutil.AssertNoError(t, err)

	if !dc.KnowsStratigraphy() {
		t.Fatal("generated cube does not know stratigraphy")
	}

	nz, ny, nx := dc.Dims()
	y := make([]int, nx)
	x := make([]int, nx)
	for j := range x {
		y[j] = ny / 2
		x[j] = j
	}
	attrs, err := dc.StratAttrsAt(y, x)
	testutil.AssertNoError(t, err)

	// A prograding delta buries part of its record but never all of it.
	total := nz * nx
	kept := attrs.Preserved.CountTrue()
	if kept == 0 || kept == total {
		t.Fatalf("preserved %d of %d cells", kept, total)
	}

	for j := 0; j < nx; j++ {
		for k := 1; k < nz; k++ {
			if attrs.Strata.At(k, j) < attrs.Strata.At(k-1, j) {
				t.Fatalf("strata column %d decreases at step %d", j, k)
			}
		}
	}
}

func TestDeltaGeneratorSectionRoundTrip(t *testing.T) {
	dc, err := NewDeltaGenerator(5).Build()
	testutil.AssertNoError(t, err)
	_, ny, nx := dc.Dims()

	sec, err := section.NewStrikeSection(ny/2, dc)
	testutil.AssertNoError(t, err)

	v, err := sec.Slice("eta")
	testutil.AssertNoError(t, err)

	sp, err := v.AsStratigraphy()
	testutil.AssertNoError(t, err)
	rows, cols := sp.Dims()
	if cols != nx {
		t.Fatalf("stratigraphy width = %d, want %d", cols, nx)
	}
	if rows < 1 {
		t.Fatal("stratigraphy has no rows")
	}

	deposits := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			cell := sp.At(i, j)
			if math.IsNaN(cell) {
				t.Fatalf("compacted cell [%d,%d] is NaN", i, j)
			}
			if cell != 0 {
				deposits++
			}
		}
	}
	if deposits == 0 {
		t.Fatal("compacted section carries no deposits")
	}

	lim, err := v.DisplayLimits(section.StyleStratigraphy)
	testutil.AssertNoError(t, err)
	if lim.ZMin >= lim.ZMax {
		t.Errorf("degenerate elevation limits [%v, %v]", lim.ZMin, lim.ZMax)
	}
}

func TestDeltaGeneratorBadExtent(t *testing.T) {
	g := NewDeltaGenerator(1)
	g.Width = 0
	if _, err := g.Build(); err == nil {
		t.Error("expected error for zero width")
	}
}

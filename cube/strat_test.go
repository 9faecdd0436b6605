package cube

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/crevasse-data/strata.report/internal/testutil"
	"github.com/crevasse-data/strata.report/section"
)

func TestStratAttrsAt(t *testing.T) {
	dc := twoColumnCube(t)
	testutil.AssertNoError(t, dc.ComputeStratigraphyFrom("eta"))

	attrs, err := dc.StratAttrsAt([]int{0, 0}, []int{0, 1})
	testutil.AssertNoError(t, err)

	// Preservation boundaries are the backward running minimum of the
	// surface.
	wantStrata := mat.NewDense(5, 2, []float64{
		0, -0.5,
		0.5, -0.5,
		0.5, 0.25,
		1.8, 0.25,
		1.8, 1,
	})
	testutil.AssertMatApprox(t, attrs.Strata, wantStrata, eps)

	// Column 0 preserves t=1 and t=3; column 1 preserves t=2 and t=4; the
	// initial surface is never a deposit.
	wantMask := map[[2]int]bool{{1, 0}: true, {3, 0}: true, {2, 1}: true, {4, 1}: true}
	nr, nc := attrs.Preserved.Dims()
	if nr != 5 || nc != 2 {
		t.Fatalf("mask dims = %dx%d", nr, nc)
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if attrs.Preserved.At(i, j) != wantMask[[2]int{i, j}] {
				t.Errorf("preserved[%d,%d] = %v", i, j, attrs.Preserved.At(i, j))
			}
		}
	}

	// Sparse coordinates in row-major order with per-column stacking ranks.
	wantRow := []int{0, 0, 1, 1}
	wantCol := []int{0, 1, 0, 1}
	if len(attrs.RowSparse) != len(wantRow) {
		t.Fatalf("RowSparse = %v", attrs.RowSparse)
	}
	for k := range wantRow {
		if attrs.RowSparse[k] != wantRow[k] || attrs.ColSparse[k] != wantCol[k] {
			t.Errorf("sparse[%d] = (%d,%d), want (%d,%d)",
				k, attrs.RowSparse[k], attrs.ColSparse[k], wantRow[k], wantCol[k])
		}
	}
	if attrs.CompactRows() != 2 {
		t.Errorf("CompactRows = %d, want 2", attrs.CompactRows())
	}

	// Packed elevations stack the preserved boundaries and forward-fill.
	wantPacked := mat.NewDense(5, 2, []float64{
		0.5, 0.25,
		1.8, 1,
		1.8, 1,
		1.8, 1,
		1.8, 1,
	})
	testutil.AssertMatApprox(t, attrs.PackedElevations, wantPacked, eps)
}

func TestStratAttrsAtFootprintScoping(t *testing.T) {
	dc := twoColumnCube(t)
	testutil.AssertNoError(t, dc.ComputeStratigraphyFrom("eta"))

	// A single-column footprint sees only that column's record.
	attrs, err := dc.StratAttrsAt([]int{0}, []int{1})
	testutil.AssertNoError(t, err)

	if n := attrs.Preserved.CountTrue(); n != 2 {
		t.Fatalf("preserved count = %d, want 2", n)
	}
	for k := range attrs.ColSparse {
		if attrs.ColSparse[k] != 0 {
			t.Errorf("ColSparse[%d] = %d, want 0", k, attrs.ColSparse[k])
		}
	}
	if got := attrs.Strata.At(0, 0); got != -0.5 {
		t.Errorf("strata[0,0] = %v, want -0.5", got)
	}
}

func TestStratColumnInvariants(t *testing.T) {
	dc := twoColumnCube(t)
	testutil.AssertNoError(t, dc.ComputeStratigraphyFrom("eta"))

	attrs, err := dc.StratAttrsAt([]int{0, 0}, []int{0, 1})
	testutil.AssertNoError(t, err)

	nr, nc := attrs.Strata.Dims()
	for j := 0; j < nc; j++ {
		for i := 1; i < nr; i++ {
			if attrs.Strata.At(i, j) < attrs.Strata.At(i-1, j) {
				t.Errorf("strata column %d decreases at layer %d", j, i)
			}
			if attrs.PackedElevations.At(i, j) < attrs.PackedElevations.At(i-1, j) {
				t.Errorf("packed column %d decreases at row %d", j, i)
			}
		}
	}
}

// The full path: cut a strike section across the cube and compact eta into
// stratigraphy through the section API.
func TestSectionCompactionAcrossCube(t *testing.T) {
	dc := twoColumnCube(t)
	testutil.AssertNoError(t, dc.ComputeStratigraphyFrom("eta"))

	sec, err := section.NewStrikeSection(0, dc)
	testutil.AssertNoError(t, err)

	v, err := sec.Slice("eta")
	testutil.AssertNoError(t, err)
	if !v.KnowsStratigraphy() {
		t.Fatal("sliced variable does not know stratigraphy")
	}

	sp, err := v.AsStratigraphy()
	testutil.AssertNoError(t, err)

	want := mat.NewDense(2, 2, []float64{
		1, 0.25,
		2, 1,
	})
	testutil.AssertMatApprox(t, sp, want, eps)

	rows, _ := sp.Dims()
	if nz, _ := v.Dims(); rows > nz {
		t.Errorf("compacted rows %d exceed layers %d", rows, nz)
	}
}

func TestBoxyStratigraphy(t *testing.T) {
	dc := twoColumnCube(t)
	testutil.AssertNoError(t, dc.ComputeStratigraphyFrom("eta"))

	sc, err := BoxyStratigraphy(dc, 0.5)
	testutil.AssertNoError(t, err)

	if sc.Kind() != section.KindStratigraphy {
		t.Fatalf("kind = %q", sc.Kind())
	}
	nz, ny, nx := sc.Dims()
	if nz != 6 || ny != 1 || nx != 2 {
		t.Fatalf("dims = %dx%dx%d, want 6x1x2", nz, ny, nx)
	}
	testutil.AssertSliceApprox(t, sc.Z(), []float64{-0.5, -0.04, 0.42, 0.88, 1.34, 1.8}, eps)

	eta, ok := sc.Field("eta")
	if !ok {
		t.Fatal("no eta field in stratigraphy cube")
	}
	nan := math.NaN()
	wantCol0 := []float64{nan, nan, 1, 2, 2, 2}
	wantCol1 := []float64{nan, 0.25, 1, 1, nan, nan}
	for k := 0; k < nz; k++ {
		checkCell(t, eta.At(k, 0, 0), wantCol0[k], k, 0)
		checkCell(t, eta.At(k, 0, 1), wantCol1[k], k, 1)
	}

	// Companion fields resample through the same mapping.
	vel, ok := sc.Field("vel")
	if !ok {
		t.Fatal("no vel field in stratigraphy cube")
	}
	checkCell(t, vel.At(2, 0, 0), 11, 2, 0)
}

func checkCell(t *testing.T, got, want float64, k, j int) {
	t.Helper()
	if math.IsNaN(want) {
		if !math.IsNaN(got) {
			t.Errorf("cell[%d, col %d] = %v, want NaN", k, j, got)
		}
		return
	}
	if math.Abs(got-want) > eps {
		t.Errorf("cell[%d, col %d] = %v, want %v", k, j, got, want)
	}
}

func TestBoxyStratigraphyErrors(t *testing.T) {
	dc := twoColumnCube(t)
	if _, err := BoxyStratigraphy(dc, 0.5); err == nil {
		t.Error("expected error before stratigraphy is computed")
	}
	testutil.AssertNoError(t, dc.ComputeStratigraphyFrom("eta"))
	if _, err := BoxyStratigraphy(dc, 0); err == nil {
		t.Error("expected error for non-positive resolution")
	}
}

// A stratigraphy cube built from a data cube feeds straight back into a
// section as a stratigraphy-only volume.
func TestBoxyCubeSlicesAsStratOnly(t *testing.T) {
	dc := twoColumnCube(t)
	testutil.AssertNoError(t, dc.ComputeStratigraphyFrom("eta"))
	sc, err := BoxyStratigraphy(dc, 0.5)
	testutil.AssertNoError(t, err)

	sec, err := section.NewStrikeSection(0, sc)
	testutil.AssertNoError(t, err)

	v, err := sec.Slice("eta")
	testutil.AssertNoError(t, err)
	if !v.StratigraphyOnly() {
		t.Fatal("variable from stratigraphy cube is not strat-only")
	}
	if _, err := v.AsPreserved(); err == nil {
		t.Error("expected capability error from strat-only AsPreserved")
	}
}

package cube

import (
	"os"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/crevasse-data/strata.report/internal/monitoring"
	"github.com/crevasse-data/strata.report/internal/testutil"
	"github.com/crevasse-data/strata.report/section"
)

const eps = 1e-12

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

// twoColumnCube holds two columns with hand-worked elevation histories:
//
//	column 0: 0, 1, 0.5, 2, 1.8   -> boundaries 0, 0.5, 0.5, 1.8, 1.8
//	column 1: 0, -0.5, 0.25, 0.25, 1 -> boundaries -0.5, -0.5, 0.25, 0.25, 1
//
// so column 0 preserves t=1 and t=3, column 1 preserves t=2 and t=4.
func twoColumnCube(t *testing.T) *DataCube {
	t.Helper()
	etaVals := []float64{
		0, 0,
		1, -0.5,
		0.5, 0.25,
		2, 0.25,
		1.8, 1,
	}
	eta, err := FieldFromSlice(5, 1, 2, etaVals)
	testutil.AssertNoError(t, err)

	velVals := make([]float64, len(etaVals))
	for i := range velVals {
		velVals[i] = 10 + etaVals[i]
	}
	vel, err := FieldFromSlice(5, 1, 2, velVals)
	testutil.AssertNoError(t, err)

	dc, err := NewDataCube([]float64{0, 1, 2, 3, 4}, map[string]*Field{"eta": eta, "vel": vel})
	testutil.AssertNoError(t, err)
	return dc
}

func TestNewDataCubeValidation(t *testing.T) {
	a := NewField(2, 3, 4)
	b := NewField(2, 3, 5)

	if _, err := NewDataCube([]float64{0, 1}, map[string]*Field{"a": a, "b": b}); err == nil {
		t.Error("expected error for mismatched field shapes")
	}
	if _, err := NewDataCube([]float64{0}, map[string]*Field{"a": a}); err == nil {
		t.Error("expected error for mismatched coordinate length")
	}
	if _, err := NewDataCube(nil, map[string]*Field{}); err == nil {
		t.Error("expected error for empty cube")
	}
}

func TestVariablesSorted(t *testing.T) {
	dc, err := NewDataCube([]float64{0}, map[string]*Field{
		"velocity": NewField(1, 2, 2),
		"depth":    NewField(1, 2, 2),
		"eta":      NewField(1, 2, 2),
	})
	testutil.AssertNoError(t, err)

	want := []string{"depth", "eta", "velocity"}
	got := dc.Variables()
	if len(got) != len(want) {
		t.Fatalf("Variables = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Variables = %v, want %v", got, want)
		}
	}
}

func TestSliceVar(t *testing.T) {
	dc := twoColumnCube(t)

	got, err := dc.SliceVar("eta", []int{0, 0}, []int{1, 0})
	testutil.AssertNoError(t, err)

	// Footprint order reverses the columns.
	want := mat.NewDense(5, 2, []float64{
		0, 0,
		-0.5, 1,
		0.25, 0.5,
		0.25, 2,
		1, 1.8,
	})
	testutil.AssertMatApprox(t, got, want, eps)
}

func TestSliceVarErrors(t *testing.T) {
	dc := twoColumnCube(t)

	if _, err := dc.SliceVar("porosity", []int{0}, []int{0}); err == nil {
		t.Error("expected error for unknown variable")
	}
	if _, err := dc.SliceVar("eta", []int{0}, []int{5}); err == nil {
		t.Error("expected error for footprint outside the cube")
	}
	if _, err := dc.SliceVar("eta", []int{0, 0}, []int{0}); err == nil {
		t.Error("expected error for mismatched footprint lengths")
	}
	if _, err := dc.SliceVar("eta", nil, nil); err == nil {
		t.Error("expected error for empty footprint")
	}
}

func TestKinds(t *testing.T) {
	dc := twoColumnCube(t)
	if dc.Kind() != section.KindData {
		t.Errorf("DataCube kind = %q", dc.Kind())
	}

	sc, err := NewStratigraphyCube([]float64{0}, map[string]*Field{"eta": NewField(1, 1, 1)})
	testutil.AssertNoError(t, err)
	if sc.Kind() != section.KindStratigraphy {
		t.Errorf("StratigraphyCube kind = %q", sc.Kind())
	}
}

func TestKnowsStratigraphyFlag(t *testing.T) {
	dc := twoColumnCube(t)
	if dc.KnowsStratigraphy() {
		t.Fatal("cube knows stratigraphy before computation")
	}
	if _, err := dc.StratAttrsAt([]int{0}, []int{0}); err == nil {
		t.Fatal("StratAttrsAt succeeded before computation")
	}

	testutil.AssertNoError(t, dc.ComputeStratigraphyFrom("eta"))
	if !dc.KnowsStratigraphy() {
		t.Fatal("cube does not know stratigraphy after computation")
	}
}

func TestComputeStratigraphyUnknownField(t *testing.T) {
	dc := twoColumnCube(t)
	testutil.AssertError(t, dc.ComputeStratigraphyFrom("porosity"))
}

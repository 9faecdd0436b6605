package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestAssertMatApproxTreatsNaNAsEqual(t *testing.T) {
	a := mat.NewDense(1, 2, []float64{math.NaN(), 1})
	b := mat.NewDense(1, 2, []float64{math.NaN(), 1 + 1e-13})
	AssertMatApprox(t, a, b, 1e-9)
}

func TestAssertSliceApprox(t *testing.T) {
	AssertSliceApprox(t, []float64{0, 1.00000001}, []float64{0, 1}, 1e-6)
}

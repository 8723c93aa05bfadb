package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/solitons/internal/dynamo"
)

func TestChangeD_UnitFactor(t *testing.T) {
	for order := 1; order <= bdfMaxOrder; order++ {
		d := make([][]float64, bdfMaxOrder+3)
		for k := range d {
			d[k] = []float64{float64(k + 1), -0.5 * float64(k)}
		}
		want := make([][]float64, len(d))
		for k := range d {
			want[k] = append([]float64(nil), d[k]...)
		}

		changeD(d, order, 1)
		for k := range d {
			for i := range d[k] {
				if math.Abs(d[k][i]-want[k][i]) > 1e-12 {
					t.Errorf("order %d: D[%d][%d]=%g, want %g", order, k, i, d[k][i], want[k][i])
				}
			}
		}
	}
}

func TestChangeD_Polynomial(t *testing.T) {
	// Backward differences of y(t) = t² at t=0 with step 1, order 2:
	// D0 = 0, D1 = y(0)-y(-1) = -1, D2 = D1(0)-D1(-1) = -1-(-3) = 2.
	d := [][]float64{{0}, {-1}, {2}, {0}, {0}, {0}, {0}, {0}}
	changeD(d, 2, 0.5)
	// Step 0.5: D1 = 0-0.25 = -0.25, D2 = -0.25-(0.25-1) = 0.5.
	want := []float64{0, -0.25, 0.5}
	for k, w := range want {
		if math.Abs(d[k][0]-w) > 1e-12 {
			t.Errorf("D[%d]=%g, want %g", k, d[k][0], w)
		}
	}
}

func TestBDF_Coefficients(t *testing.T) {
	if bdfGamma[1] != 1 || math.Abs(bdfGamma[3]-(1+0.5+1.0/3)) > 1e-15 {
		t.Errorf("gamma = %v", bdfGamma)
	}
	if bdfAlpha[1] != bdfGamma[1]*(1-bdfKappa[1]) {
		t.Errorf("alpha[1] = %g", bdfAlpha[1])
	}
	if math.Abs(bdfErrorConst[bdfMaxOrder+1]-1.0/7) > 1e-15 {
		t.Errorf("errorConst[%d] = %g", bdfMaxOrder+1, bdfErrorConst[bdfMaxOrder+1])
	}
}

func TestBDF_InterpolateEndpoint(t *testing.T) {
	b := NewBDF()
	if err := b.Init(&harmonicOscillator{}, 0, dynamo.State{1, 0}, 1, DefaultOptions()); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := b.Step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
	y := b.Interpolate(b.T())
	if math.Abs(y[0]-math.Cos(b.T())) > 1e-4 {
		t.Errorf("y(%g)=%g, want %g", b.T(), y[0], math.Cos(b.T()))
	}
	if b.Order() < 1 || b.Order() > bdfMaxOrder {
		t.Errorf("order out of range: %d", b.Order())
	}
}

func TestBDF_InitRejectsEmptySpan(t *testing.T) {
	if err := NewBDF().Init(&harmonicOscillator{}, 1, dynamo.State{1, 0}, 1, DefaultOptions()); err == nil {
		t.Error("expected error for empty span")
	}
}

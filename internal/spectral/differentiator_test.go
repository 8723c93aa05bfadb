package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/grid"
)

func sample(g *grid.Grid, f func(float64) float64) dynamo.State {
	u := make(dynamo.State, g.N)
	for j, x := range g.X {
		u[j] = f(x)
	}
	return u
}

func TestDerivative_Trig(t *testing.T) {
	g, err := grid.New(2*math.Pi, 32, 0)
	require.NoError(t, err)
	d := NewDifferentiator(g)

	u := sample(g, func(x float64) float64 { return math.Sin(2 * x) })

	tests := []struct {
		order int
		want  func(float64) float64
	}{
		{0, func(x float64) float64 { return math.Sin(2 * x) }},
		{1, func(x float64) float64 { return 2 * math.Cos(2*x) }},
		{2, func(x float64) float64 { return -4 * math.Sin(2*x) }},
		{3, func(x float64) float64 { return -8 * math.Cos(2*x) }},
		{4, func(x float64) float64 { return 16 * math.Sin(2*x) }},
	}

	for _, tt := range tests {
		got, err := d.Derivative(u, tt.order)
		require.NoError(t, err)
		assert.InDeltaSlice(t, sample(g, tt.want), got, 1e-11, "order %d", tt.order)
	}
}

func TestDerivative_Soliton(t *testing.T) {
	g, err := grid.New(50, 64, 0)
	require.NoError(t, err)
	d := NewDifferentiator(g)

	c := 0.75
	a := 0.5 * math.Sqrt(c)
	x0 := 25.0
	u := sample(g, func(x float64) float64 {
		s := 1 / math.Cosh(a*(x-x0))
		return 0.5 * c * s * s
	})
	ux := sample(g, func(x float64) float64 {
		s := 1 / math.Cosh(a*(x-x0))
		return -c * a * s * s * math.Tanh(a*(x-x0))
	})

	got, err := d.Derivative(u, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, ux, got, 1e-5)
}

func TestDerivative_DoesNotMutate(t *testing.T) {
	g, err := grid.New(2*math.Pi, 16, 0)
	require.NoError(t, err)
	d := NewDifferentiator(g)

	u := sample(g, math.Cos)
	orig := u.Clone()
	_, err = d.Derivative(u, 3)
	require.NoError(t, err)
	assert.Equal(t, orig, u)
}

func TestDerivatives_SharedTransform(t *testing.T) {
	g, err := grid.New(2*math.Pi, 16, 0)
	require.NoError(t, err)
	d := NewDifferentiator(g)

	u := sample(g, func(x float64) float64 { return math.Cos(3 * x) })
	both, err := d.Derivatives(u, 1, 3)
	require.NoError(t, err)
	require.Len(t, both, 2)

	d1, err := d.Derivative(u, 1)
	require.NoError(t, err)
	d3, err := d.Derivative(u, 3)
	require.NoError(t, err)
	assert.Equal(t, d1, both[0])
	assert.Equal(t, d3, both[1])
}

func TestDerivative_Nyquist(t *testing.T) {
	g, err := grid.New(2*math.Pi, 8, 0)
	require.NoError(t, err)
	d := NewDifferentiator(g)

	// cos(4x) sampled at N=8 is (-1)^j, pure Nyquist content.
	u := sample(g, func(x float64) float64 { return math.Cos(4 * x) })

	d1, err := d.Derivative(u, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, make([]float64, 8), d1, 1e-12)

	d2, err := d.Derivative(u, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, u.Scale(-16), d2, 1e-11)
}

func TestDerivative_Errors(t *testing.T) {
	g, err := grid.New(1, 8, 0)
	require.NoError(t, err)
	d := NewDifferentiator(g)

	_, err = d.Derivative(make(dynamo.State, 7), 1)
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)

	_, err = d.Derivative(make(dynamo.State, 8), -1)
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfiguration)
}

func TestAntiderivativeRoundTrip(t *testing.T) {
	g, err := grid.New(2*math.Pi, 32, 0)
	require.NoError(t, err)
	d := NewDifferentiator(g)
	m := NewMultiplier(g.N, 0)

	u := sample(g, func(x float64) float64 { return 2 + math.Sin(3*x) + 0.5*math.Cos(5*x) })
	ux, err := d.Derivative(u, 1)
	require.NoError(t, err)

	inv := make([]complex128, g.N)
	for j, k := range g.K {
		if k != 0 && j != g.N/2 {
			inv[j] = 1 / complex(0, k)
		}
	}
	rec, err := m.Apply(ux, inv)
	require.NoError(t, err)

	mean := g.Integrate(u) / g.L
	for j := range rec {
		rec[j] += mean
	}
	assert.InDeltaSlice(t, u, rec, 1e-11)
}

func TestFactor(t *testing.T) {
	assert.Equal(t, complex(1, 0), Factor(3, 0, false))
	assert.Equal(t, complex(0, 2), Factor(2, 1, false))
	assert.Equal(t, complex(-4, 0), Factor(2, 2, false))
	assert.Equal(t, complex(0, -8), Factor(2, 3, false))
	assert.Equal(t, complex(16, 0), Factor(-2, 4, false))
	assert.Equal(t, complex(0, 0), Factor(-4, 1, true))
	assert.Equal(t, complex(-16, 0), Factor(-4, 2, true))
}

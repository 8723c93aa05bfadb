package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/solitons/internal/dynamo"
)

func TestNew(t *testing.T) {
	g, err := New(50, 64, 0)
	require.NoError(t, err)

	assert.Equal(t, 64, g.N)
	assert.InDelta(t, 50.0/64.0, g.Dx, 1e-15)
	assert.Len(t, g.X, 64)
	assert.Equal(t, 0.0, g.X[0])
	assert.InDelta(t, (1-1.0/64)*50, g.X[63], 1e-12)
	for j := 1; j < g.N; j++ {
		assert.InDelta(t, g.Dx, g.X[j]-g.X[j-1], 1e-12)
	}
}

func TestNew_Origin(t *testing.T) {
	g, err := New(20, 1000, -10)
	require.NoError(t, err)
	assert.Equal(t, -10.0, g.X[0])
	assert.InDelta(t, 10-0.02, g.X[999], 1e-12)
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		length float64
		n      int
	}{
		{"zero length", 0, 64},
		{"negative length", -1, 64},
		{"NaN length", math.NaN(), 64},
		{"zero points", 10, 0},
		{"negative points", 10, -4},
		{"two points", 10, 2},
		{"odd points", 10, 63},
		{"odd small", 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.length, tt.n, 0)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, dynamo.ErrInvalidConfiguration)
		})
	}
}

func TestWavenumbers(t *testing.T) {
	k := Wavenumbers(8, 2*math.Pi)
	assert.Equal(t, []float64{0, 1, 2, 3, -4, -3, -2, -1}, k)

	k = Wavenumbers(4, 4*math.Pi)
	assert.InDeltaSlice(t, []float64{0, 0.5, -1, -0.5}, k, 1e-15)
}

func TestGrid_SharesWavenumbers(t *testing.T) {
	g, err := New(20, 16, -10)
	require.NoError(t, err)
	assert.Equal(t, Wavenumbers(16, 20), g.K)
}

func TestWrap(t *testing.T) {
	g, err := New(10, 4, 0)
	require.NoError(t, err)

	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{4, 4},
		{5, -5},
		{6, -4},
		{-6, 4},
		{23, 3},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, g.Wrap(tt.in), 1e-12, "Wrap(%g)", tt.in)
	}
}

func TestIntegrate(t *testing.T) {
	g, err := New(2*math.Pi, 32, 0)
	require.NoError(t, err)

	u := make([]float64, g.N)
	for j, x := range g.X {
		u[j] = 1 + math.Sin(x)
	}
	assert.InDelta(t, 2*math.Pi, g.Integrate(u), 1e-12)
}

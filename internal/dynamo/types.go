package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is one snapshot of the solution profile on the spatial grid.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	return floats.Norm(s, 2)
}

// MaxAbs returns the largest absolute component, 0 for an empty state.
func (s State) MaxAbs() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, math.Inf(1))
}

func (s State) Add(other State) State {
	result := s.Clone()
	floats.Add(result, other)
	return result
}

func (s State) Sub(other State) State {
	result := s.Clone()
	floats.Sub(result, other)
	return result
}

func (s State) Scale(factor float64) State {
	result := s.Clone()
	floats.Scale(factor, result)
	return result
}

// System is the right-hand side of a semi-discretized PDE: du/dt = f(u, t).
// Implementations must not mutate u.
type System interface {
	Derive(u State, t float64) (State, error)
	Dim() int
}

// Hamiltonian is implemented by systems with a conserved energy functional.
type Hamiltonian interface {
	Energy(u State) float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Observer receives every reported row of a run, in time order.
type Observer interface {
	OnSample(i int, t float64, u State)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(i int, t float64, u State)

func (f ObserverFunc) OnSample(i int, t float64, u State) { f(i, t, u) }

// Package metrics tracks scalar diagnostics of a run as rows are reported.
// Every Metric is a dynamo.Observer and can be handed straight to the
// integrator.
package metrics

import "github.com/san-kum/solitons/internal/dynamo"

type Metric interface {
	dynamo.Observer
	Name() string
	Value() float64
	Reset()
}

// Values collects the current value of each metric by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Observers converts metrics for integrators.Solve.
func Observers(ms []Metric) []dynamo.Observer {
	out := make([]dynamo.Observer, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}

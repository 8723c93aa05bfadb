package integrators

import (
	"sort"

	"github.com/san-kum/solitons/internal/dynamo"
)

var registry = map[string]func() Stepper{
	"bdf":  func() Stepper { return NewBDF() },
	"rk45": func() Stepper { return NewRK45() },
	"rk4":  func() Stepper { return NewRK4() },
}

// New returns a fresh stepper by name.
func New(name string) (Stepper, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, dynamo.Invalidf("unknown integrator: %q", name)
	}
	return fn(), nil
}

// Names lists the registered integrators in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

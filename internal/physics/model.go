package physics

import (
	"fmt"
	"strings"

	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/grid"
)

// Model selects the governing equation.
type Model int

const (
	ModelKdV Model = iota
	ModelBurgers
)

func (m Model) String() string {
	switch m {
	case ModelKdV:
		return "kdv"
	case ModelBurgers:
		return "burgers"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// ParseModel accepts "kdv", "burgers" and "kp" (case-insensitive).
func ParseModel(name string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kdv":
		return ModelKdV, nil
	case "burgers", "kp":
		return ModelBurgers, nil
	default:
		return 0, dynamo.Invalidf("unknown model: %q", name)
	}
}

// Params carries the physical constants of a model. Solitons is read by
// the KdV initial condition only; Nu and ImagTol by Burgers only.
type Params struct {
	Nu       float64
	ImagTol  float64
	Solitons []Soliton
}

// NewSystem builds the right-hand side for m on g.
func NewSystem(m Model, g *grid.Grid, p Params) (dynamo.System, error) {
	switch m {
	case ModelKdV:
		return NewKdV(g), nil
	case ModelBurgers:
		return NewBurgers(g, p.Nu, p.ImagTol), nil
	default:
		return nil, dynamo.Invalidf("unknown model: %s", m)
	}
}

// InitialCondition evaluates the model's closed-form profile on g.
func InitialCondition(m Model, g *grid.Grid, p Params) (dynamo.State, error) {
	switch m {
	case ModelKdV:
		if len(p.Solitons) == 0 {
			return nil, dynamo.Invalidf("kdv needs at least one soliton")
		}
		for i, s := range p.Solitons {
			if !(s.C > 0) {
				return nil, dynamo.Invalidf("soliton %d speed must be positive, got %g", i, s.C)
			}
		}
		return SolitonTrain(g, p.Solitons), nil
	case ModelBurgers:
		return SechPulse(g), nil
	default:
		return nil, dynamo.Invalidf("unknown model: %s", m)
	}
}

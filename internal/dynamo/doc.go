// Package dynamo provides the core primitives shared by the solver packages.
//
// The package defines the types used to describe a semi-discretized PDE as
// an ordinary differential equation system:
//
//   - [State]: solution profile on the spatial grid
//   - [System]: right-hand side du/dt = f(u, t)
//   - [Hamiltonian]: systems with a conserved energy
//   - [Observer]: per-sample callbacks during a run
//
// Errors follow a small taxonomy. [ErrInvalidConfiguration] is raised before
// any work starts; [ErrIntegrationDivergence] is raised through a
// [DivergenceError] naming the reporting interval that failed. Both work with
// errors.Is:
//
//	_, err := integrators.Solve(ctx, integrators.NewBDF(), sys, u0, times, opts)
//	if errors.Is(err, dynamo.ErrIntegrationDivergence) {
//	    var de *dynamo.DivergenceError
//	    errors.As(err, &de)
//	}
package dynamo

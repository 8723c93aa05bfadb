// Package physics provides the wave models solved by the pipeline.
//
// Each model implements [dynamo.System], the right-hand side of the
// semi-discretized PDE:
//
//   - [KdV]: u_t = -6·u·u_x - u_xxx, derivatives from a [spectral.Differentiator]
//   - [Burgers]: u_t = -u·u_x + ν·u_xx, derivatives from explicit Fourier
//     multipliers i·κ and -κ²
//
// [Model] selects between them; [NewSystem] and [InitialCondition] build the
// matching right-hand side and closed-form starting profile:
//
//	m, _ := physics.ParseModel("kdv")
//	sys, _ := physics.NewSystem(m, g, physics.Params{})
//	u0, _ := physics.InitialCondition(m, g, physics.Params{Solitons: s})
//
// [KdV] also implements [dynamo.Hamiltonian]; [Mass] and [Momentum] are
// conserved quantities useful for drift checks.
package physics

// Package dcsolve implements the DC operating-point solve and the damped
// Newton-Raphson driver nonlinear devices iterate through, per the §4.6
// DC/Newton-Raphson driver contract. Continuation policy (Gmin stepping,
// source stepping) is deliberately left to the caller: ContinuationHook is
// an extension point, not a built-in retry schedule.
package dcsolve

import "github.com/rjwalters/spicier-go/mna"

// StampFunc builds the MNA system linearised around the current guess x:
// for a linear circuit x is ignored; for a nonlinear device, its tangent
// conductance and an equivalent current are stamped such that solving the
// returned system yields the NEXT Newton iterate directly, the standard
// MNA companion formulation (as opposed to solving for an increment to
// accumulate). len(x) == 0 signals the first call, before any guess
// exists; StampFunc should treat this as all-zero.
type StampFunc func(x []float64) *mna.System

// ConvergenceCriteria parameterises Newton-Raphson's convergence check and
// optional damping.
type ConvergenceCriteria struct {
	AbsTol      float64 // per §4.6 step 3: |Δx_i| < AbsTol + RelTol*|x_i|
	RelTol      float64
	ResidualTol float64 // residual norm bound, checked alongside the Δx bound
	MaxIter     int
	MaxDelta    float64 // optional damping cap on |Δx_i|; 0 disables damping
}

// DefaultConvergenceCriteria returns SPICE-typical tolerances: 1e-6
// absolute, 0.1% relative, 1e-6 residual, 100 iterations, no damping.
func DefaultConvergenceCriteria() ConvergenceCriteria {
	return ConvergenceCriteria{
		AbsTol:      1e-6,
		RelTol:      1e-3,
		ResidualTol: 1e-6,
		MaxIter:     100,
		MaxDelta:    0,
	}
}

// DcSolution is the result of a DC solve: the node/branch solution vector,
// whether Newton-Raphson converged (always true for the linear DC solve),
// and the iteration count consumed.
type DcSolution struct {
	X          []float64
	Converged  bool
	Iterations int
}

// ContinuationHook is invoked when Newton-Raphson exhausts MaxIter without
// converging, receiving the iteration count and the last iterate. Policy
// (Gmin stepping, source stepping, or simply giving up) is the caller's;
// the driver itself implements no retry schedule.
type ContinuationHook func(iterations int, lastX []float64)

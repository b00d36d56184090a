package dcsolve

import (
	"github.com/rjwalters/spicier-go/dispatch"
	"github.com/rjwalters/spicier-go/errs"
	"github.com/rjwalters/spicier-go/gmres"
	"github.com/rjwalters/spicier-go/mna"
	"github.com/sirupsen/logrus"
)

// SolveDC performs the single linear DC solve: assemble MNA once (x is
// nil, since a linear circuit's stamps don't depend on the solution) and
// call the dispatched solver once.
func SolveDC(build StampFunc, dispatchCfg dispatch.Config) (*DcSolution, error) {
	sys := build(nil)
	x, _, err := dispatch.Solve(sys, dispatchCfg)
	if err != nil {
		return nil, errs.Wrap("dcsolve.SolveDC", err)
	}

	return &DcSolution{X: x, Converged: true, Iterations: 1}, nil
}

// SolveNewtonRaphson runs the damped Newton-Raphson iteration of §4.6,
// starting from the zero vector of the given size.
func SolveNewtonRaphson(build StampFunc, size int, crit ConvergenceCriteria, dispatchCfg dispatch.Config, continuation ContinuationHook) (*DcSolution, error) {
	return solveNewtonFrom(build, make([]float64, size), crit, dispatchCfg, continuation)
}

// solveNewtonFrom runs Newton-Raphson starting from x0. Each iteration
// asks build to emit the MNA linearised around the current guess; solving
// it yields the next iterate directly (build is expected to stamp each
// nonlinear device's tangent conductance plus the equivalent current that
// makes the new node voltage the Newton update, the standard MNA
// formulation rather than an explicit J*Δx=-F(x) accumulation). Δx is
// computed only for the convergence check and optional damping.
func solveNewtonFrom(build StampFunc, x0 []float64, crit ConvergenceCriteria, dispatchCfg dispatch.Config, continuation ContinuationHook) (*DcSolution, error) {
	x := append([]float64(nil), x0...)
	var residual float64

	for iter := 0; iter < crit.MaxIter; iter++ {
		sys := build(x)
		xNew, _, err := dispatch.Solve(sys, dispatchCfg)
		if err != nil {
			return nil, errs.Wrap("dcsolve.SolveNewtonRaphson", err)
		}

		delta := make([]float64, len(x))
		for i := range x {
			delta[i] = xNew[i] - x[i]
		}
		if crit.MaxDelta > 0 {
			clampDelta(delta, crit.MaxDelta)
			for i := range xNew {
				xNew[i] = x[i] + delta[i]
			}
		}

		withinDelta := true
		for i := range delta {
			if absFloat(delta[i]) >= crit.AbsTol+crit.RelTol*absFloat(xNew[i]) {
				withinDelta = false
				break
			}
		}
		residual = solveResidual(sys, xNew)

		x = xNew

		if withinDelta && residual < crit.ResidualTol {
			return &DcSolution{X: x, Converged: true, Iterations: iter + 1}, nil
		}
	}

	logrus.WithFields(logrus.Fields{"max_iter": crit.MaxIter}).
		Warn("dcsolve: Newton-Raphson did not converge")

	if continuation != nil {
		continuation(crit.MaxIter, x)
	}

	return &DcSolution{X: x, Converged: false, Iterations: crit.MaxIter},
		errs.NewNonConverged("dcsolve.SolveNewtonRaphson", crit.MaxIter, residual)
}

// solveResidual computes ‖A x - b‖_inf for the system just solved,
// reusing gmres.TripletOperator rather than re-deriving a matvec helper.
func solveResidual(sys *mna.System, x []float64) float64 {
	op := &gmres.TripletOperator{N: sys.Size(), Triplets: sys.Triplets()}
	ax := op.MatVec(x)
	b := sys.RHS()

	var m float64
	for i := range ax {
		if a := absFloat(ax[i] - b[i]); a > m {
			m = a
		}
	}

	return m
}

// clampDelta caps |delta_i| at maxDelta in place, preserving sign.
func clampDelta(delta []float64, maxDelta float64) {
	for i, d := range delta {
		if d > maxDelta {
			delta[i] = maxDelta
		} else if d < -maxDelta {
			delta[i] = -maxDelta
		}
	}
}

func normInf(v []float64) float64 {
	var m float64
	for _, x := range v {
		if a := absFloat(x); a > m {
			m = a
		}
	}

	return m
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}

package dispatch

import (
	"github.com/rjwalters/spicier-go/errs"
	"github.com/rjwalters/spicier-go/gmres"
	"github.com/rjwalters/spicier-go/linsolve"
	"github.com/rjwalters/spicier-go/mna"
)

// Solve dispatches a single real linear solve of sys against cfg: direct LU
// (dense below linsolve.SparseThreshold, sparse-cached-free CSC above it) or
// GMRES, chosen by UseGPU/UseGMRES for sys.Size(). GPU backends are selected
// by name only; the actual batched GPU path lives in the gpu package and is
// not exercised by this single-system entry point (see gpu.BackendSelector
// for the batched analogue).
func Solve(sys *mna.System, cfg Config) ([]float64, SolveInfo, error) {
	n := sys.Size()
	backendName := "CPU"
	if cfg.UseGPU(n) {
		backendName = cfg.Backend.Name()
	}

	if cfg.UseGMRES(n) {
		op := &gmres.TripletOperator{N: n, Triplets: sys.Triplets()}
		precond := gmres.NewJacobiPreconditioner(n, sys.Triplets())
		result, err := gmres.Solve(op, sys.RHS(), precond, cfg.GMRESConfig)
		if err != nil {
			return nil, SolveInfo{}, errs.Wrap("dispatch.Solve", err)
		}
		if !result.Converged {
			return nil, SolveInfo{}, errs.NewNonConverged("dispatch.Solve", result.Iterations, result.Residual)
		}

		return result.X, SolveInfo{
			BackendUsed: backendName,
			SolverUsed:  "GMRES",
			Iterations:  result.Iterations,
			Residual:    result.Residual,
			Iterative:   true,
		}, nil
	}

	if n >= linsolve.SparseThreshold {
		x, err := linsolve.SolveSparse(n, sys.Triplets(), sys.RHS())
		if err != nil {
			return nil, SolveInfo{}, errs.Wrap("dispatch.Solve", err)
		}

		return x, SolveInfo{BackendUsed: backendName, SolverUsed: "Sparse LU"}, nil
	}

	dense, err := sys.ToDense()
	if err != nil {
		return nil, SolveInfo{}, errs.Wrap("dispatch.Solve", err)
	}
	x, err := linsolve.SolveDense(dense, sys.RHS())
	if err != nil {
		return nil, SolveInfo{}, errs.Wrap("dispatch.Solve", err)
	}

	return x, SolveInfo{BackendUsed: backendName, SolverUsed: "Dense LU"}, nil
}

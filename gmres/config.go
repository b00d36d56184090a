// Package gmres implements right-preconditioned restarted GMRES(m), real and
// complex variants, with Jacobi and identity preconditioners, Givens
// rotations, and SIMD-dispatched inner products on the Arnoldi hot path.
package gmres

// Config parameterises a GMRES(m) solve.
type Config struct {
	MaxIter int     // total iteration budget across all restart cycles
	Tol     float64 // relative residual tolerance ‖r‖/‖b‖
	Restart int     // m: Krylov subspace dimension per cycle before restart
}

// Default thresholds per the component contract: {500, 1e-8, 30}.
const (
	DefaultMaxIter = 500
	DefaultTol     = 1e-8
	DefaultRestart = 30
)

// DefaultConfig returns the spec default {MaxIter: 500, Tol: 1e-8, Restart: 30}.
func DefaultConfig() Config {
	return Config{MaxIter: DefaultMaxIter, Tol: DefaultTol, Restart: DefaultRestart}
}

// Result reports the outcome of a GMRES solve.
type Result struct {
	X          []float64
	Iterations int
	Residual   float64 // relative residual ‖r‖/‖b‖ at return
	Converged  bool
}

// ComplexResult is the complex analogue of Result.
type ComplexResult struct {
	X          []complex128
	Iterations int
	Residual   float64
	Converged  bool
}

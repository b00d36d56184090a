// Package linsolve implements the direct linear-solver kernel: dense LU via
// partial pivoting, sparse LU over a CSC assembly (summing duplicate
// triplets), a symbolic-factorization-caching variant for repeated solves
// against the same sparsity pattern, and complex analogues of the dense and
// sparse solves for AC analysis (the caching variant is real-only).
package linsolve

import (
	"math"

	"github.com/rjwalters/spicier-go/errs"
	"github.com/rjwalters/spicier-go/matrix"
	"gonum.org/v1/gonum/mat"
)

// SparseThreshold is the system order at or above which the dispatcher (and
// callers following its contract) should prefer the sparse path over dense.
// Both paths must agree to within floating-point round-off on the same
// inputs for any size; this constant only governs the dispatch heuristic.
const SparseThreshold = 50

// SolveDense solves A x = b via standard partial-pivoting LU.
// Returns errs.ErrDimensionMismatch on shape errors, errs.ErrSingularMatrix
// if the pivoting produces a (numerically) zero pivot.
func SolveDense(A *matrix.Dense, b []float64) ([]float64, error) {
	n := A.Rows()
	if A.Cols() != n {
		return nil, errs.NewDimensionMismatch("linsolve.SolveDense: A must be square", n, A.Cols())
	}
	if len(b) != n {
		return nil, errs.NewDimensionMismatch("linsolve.SolveDense: len(b)", n, len(b))
	}

	ga := denseToGonum(A)

	var lu mat.LU
	lu.Factorize(ga)
	if math.Abs(lu.Det()) == 0 || math.IsInf(lu.Cond(), 1) {
		return nil, errs.Wrap("linsolve.SolveDense", errs.ErrSingularMatrix)
	}

	gb := mat.NewVecDense(n, append([]float64(nil), b...))
	var gx mat.VecDense
	if err := lu.SolveVecTo(&gx, false, gb); err != nil {
		return nil, errs.Wrap("linsolve.SolveDense", errs.ErrSingularMatrix)
	}

	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = gx.AtVec(i)
	}

	return x, nil
}

// denseToGonum copies a matrix.Dense into a gonum *mat.Dense for LU
// factorization; matrix.Dense does not itself depend on gonum so the two
// representations stay decoupled.
func denseToGonum(A *matrix.Dense) *mat.Dense {
	n, m := A.Rows(), A.Cols()
	data := make([]float64, n*m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			v, _ := A.At(i, j)
			data[i*m+j] = v
		}
	}

	return mat.NewDense(n, m, data)
}

package linsolve

import (
	"github.com/rjwalters/spicier-go/errs"
	"github.com/rjwalters/spicier-go/mna"
)

// SolveSparseComplex is the complex analogue of SolveSparse: assembles a CSC
// matrix from complex triplets (summing duplicates) and solves via
// SolveComplexDense. Complex sparse factorization shares the same
// fill-in-makes-true-sparse-storage-impractical simplification as the real
// path (see DESIGN.md); the CSC assembly step still gives callers the
// triplet-with-duplicates contract the spec requires.
func SolveSparseComplex(n int, triplets []mna.CTriplet, b []complex128) ([]complex128, error) {
	if len(b) != n {
		return nil, errs.NewDimensionMismatch("linsolve.SolveSparseComplex: len(b)", n, len(b))
	}

	sums := make(map[[2]int]complex128, len(triplets))
	for _, t := range triplets {
		sums[[2]int{t.Row, t.Col}] += t.Value
	}

	dense := make([]complex128, n*n)
	for key, v := range sums {
		dense[key[0]*n+key[1]] = v
	}

	return SolveComplexDense(n, dense, b)
}

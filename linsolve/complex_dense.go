package linsolve

import (
	"math/cmplx"

	"github.com/rjwalters/spicier-go/errs"
)

// SolveComplexDense solves A x = b for complex A (row-major, n×n flattened)
// and complex b via partial-pivoting LU. This is a direct hand-written
// analogue of SolveDense: gonum's mat package does not carry a general
// complex128 dense solver, and no other example repo in the retrieval pack
// offers one, so the complex kernel is implemented directly here rather
// than reaching for a library (see DESIGN.md).
func SolveComplexDense(n int, a []complex128, b []complex128) ([]complex128, error) {
	if len(a) != n*n {
		return nil, errs.NewDimensionMismatch("linsolve.SolveComplexDense: len(a)", n*n, len(a))
	}
	if len(b) != n {
		return nil, errs.NewDimensionMismatch("linsolve.SolveComplexDense: len(b)", n, len(b))
	}

	rows := make([][]complex128, n)
	for i := 0; i < n; i++ {
		rows[i] = append([]complex128(nil), a[i*n:(i+1)*n]...)
	}

	piv := make([]int, n)
	for k := 0; k < n; k++ {
		pr := k
		maxAbs := cmplx.Abs(rows[k][k])
		for i := k + 1; i < n; i++ {
			if cmplx.Abs(rows[i][k]) > maxAbs {
				maxAbs = cmplx.Abs(rows[i][k])
				pr = i
			}
		}
		if pr != k {
			rows[k], rows[pr] = rows[pr], rows[k]
		}
		piv[k] = pr

		if cmplx.Abs(rows[k][k]) < 1e-300 {
			return nil, errs.Wrap("linsolve.SolveComplexDense", errs.ErrSingularMatrix)
		}
		for i := k + 1; i < n; i++ {
			factor := rows[i][k] / rows[k][k]
			rows[i][k] = factor
			for j := k + 1; j < n; j++ {
				rows[i][j] -= factor * rows[k][j]
			}
		}
	}

	y := append([]complex128(nil), b...)
	for k := 0; k < n; k++ {
		if piv[k] != k {
			y[k], y[piv[k]] = y[piv[k]], y[k]
		}
	}

	z := make([]complex128, n)
	for i := 0; i < n; i++ {
		sum := y[i]
		for j := 0; j < i; j++ {
			sum -= rows[i][j] * z[j]
		}
		z[i] = sum
	}

	x := make([]complex128, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < n; j++ {
			sum -= rows[i][j] * x[j]
		}
		x[i] = sum / rows[i][i]
	}

	return x, nil
}

package gmres

import (
	"math"
	"math/cmplx"

	"github.com/rjwalters/spicier-go/errs"
	"github.com/rjwalters/spicier-go/simd"
)

// SolveComplex is the complex analogue of Solve, used for AC analysis.
// The Arnoldi inner products become Hermitian (conjugate) inner products and
// the Givens rotations are computed in their complex form, applying
// conjugates when rotating previous columns and the rotated RHS; the
// control flow otherwise mirrors Solve exactly.
func SolveComplex(op ComplexOperator, b []complex128, precond ComplexPreconditioner, cfg Config) (*ComplexResult, error) {
	n := op.Size()
	if len(b) != n {
		return nil, errs.NewDimensionMismatch("gmres.SolveComplex: len(b)", n, len(b))
	}
	if precond == nil {
		precond = ComplexIdentityPreconditioner{}
	}
	if cfg.Restart <= 0 {
		cfg.Restart = DefaultRestart
	}

	x := make([]complex128, n)
	bNorm := normComplex(b)
	if bNorm == 0 {
		return &ComplexResult{X: x, Iterations: 0, Residual: 0, Converged: true}, nil
	}

	totalIter := 0
	m := cfg.Restart
	for totalIter < cfg.MaxIter {
		r := subComplex(b, op.MatVec(x))
		rNorm := normComplex(r)
		if rNorm/bNorm < cfg.Tol {
			return &ComplexResult{X: x, Iterations: totalIter, Residual: rNorm / bNorm, Converged: true}, nil
		}

		V := make([][]complex128, m+1)
		Z := make([][]complex128, m)
		H := make([][]complex128, m+1)
		for i := range H {
			H[i] = make([]complex128, m)
		}
		cs := make([]float64, m)    // real cosine, as in the standard complex-Givens formulation
		sn := make([]complex128, m) // complex sine
		g := make([]complex128, m+1)
		V[0] = scaleComplex(r, complex(1/rNorm, 0))
		g[0] = complex(rNorm, 0)

		completed := 0
		for k := 0; k < m && totalIter < cfg.MaxIter; k++ {
			totalIter++
			z := precond.Apply(V[k])
			Z[k] = z
			w := op.MatVec(z)

			for i := 0; i <= k; i++ {
				H[i][k] = simd.DotConj(V[i], w)
				w = axpyComplex(w, -H[i][k], V[i])
			}
			wNorm := normComplex(w)
			H[k+1][k] = complex(wNorm, 0)
			lucky := wNorm < 1e-30
			if !lucky {
				V[k+1] = scaleComplex(w, complex(1/wNorm, 0))
			}

			for i := 0; i < k; i++ {
				temp := complex(cs[i], 0)*H[i][k] + sn[i]*H[i+1][k]
				H[i+1][k] = -cmplx.Conj(sn[i])*H[i][k] + complex(cs[i], 0)*H[i+1][k]
				H[i][k] = temp
			}
			cs[k], sn[k] = givensComplex(H[k][k], H[k+1][k])
			H[k][k] = complex(cs[k], 0)*H[k][k] + sn[k]*H[k+1][k]
			H[k+1][k] = 0

			temp := complex(cs[k], 0) * g[k]
			g[k+1] = -cmplx.Conj(sn[k]) * g[k]
			g[k] = temp
			completed = k + 1

			if lucky || cmplx.Abs(g[k+1])/bNorm < cfg.Tol {
				break
			}
		}

		y := backSubstituteComplex(H, g, completed)
		for i := 0; i < completed; i++ {
			x = axpyComplex(x, y[i], Z[i])
		}
	}

	r := subComplex(b, op.MatVec(x))
	rNorm := normComplex(r)
	res := rNorm / bNorm

	return &ComplexResult{X: x, Iterations: totalIter, Residual: res, Converged: res < cfg.Tol}, nil
}

// givensComplex computes a complex Givens rotation (c real, s complex) such
// that applying it to (a, b) zeros the second component, following the
// standard complex-Givens convention used in complex GMRES implementations.
func givensComplex(a, b complex128) (c float64, s complex128) {
	if b == 0 {
		return 1, 0
	}
	if a == 0 {
		return 0, complex(1, 0)
	}
	absA, absB := cmplx.Abs(a), cmplx.Abs(b)
	denom := math.Hypot(absA, absB)
	c = absA / denom
	s = (a / complex(absA, 0)) * cmplx.Conj(b) / complex(denom, 0)

	return c, s
}

func backSubstituteComplex(H [][]complex128, g []complex128, k int) []complex128 {
	y := make([]complex128, k)
	for i := k - 1; i >= 0; i-- {
		sum := g[i]
		for j := i + 1; j < k; j++ {
			sum -= H[i][j] * y[j]
		}
		y[i] = sum / H[i][i]
	}

	return y
}

func normComplex(v []complex128) float64 {
	return math.Sqrt(real(simd.DotConj(v, v)))
}

func subComplex(a, b []complex128) []complex128 {
	y := make([]complex128, len(a))
	for i := range a {
		y[i] = a[i] - b[i]
	}

	return y
}

func scaleComplex(v []complex128, alpha complex128) []complex128 {
	y := make([]complex128, len(v))
	for i := range v {
		y[i] = v[i] * alpha
	}

	return y
}

func axpyComplex(x []complex128, alpha complex128, v []complex128) []complex128 {
	y := make([]complex128, len(x))
	for i := range x {
		y[i] = x[i] + alpha*v[i]
	}

	return y
}

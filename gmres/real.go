package gmres

import (
	"math"

	"github.com/rjwalters/spicier-go/errs"
	"github.com/rjwalters/spicier-go/simd"
)

// Solve runs right-preconditioned, restarted GMRES(cfg.Restart) against
// op, starting from the zero vector, per the per-cycle algorithm:
//
//  1. r = b - A x; if ‖r‖/‖b‖ < tol, return converged.
//  2. Arnoldi with modified Gram-Schmidt builds V_{k+1} and Hessenberg H_k;
//     previous Givens rotations are applied to the new column, then a new
//     rotation zeroing H[k+1,k] is computed and the rotated RHS g updated.
//  3. The inner loop exits early when |g[k+1]|/‖b‖ < tol, k = m, or a lucky
//     breakdown occurs (‖w‖ < 1e-30 after orthogonalisation).
//  4. Back-substitute the k×k leading block of H against g for y; update
//     x += sum_i y[i] * z_i, where z_i = M^-1 v_i (right preconditioning).
//  5. Recompute the explicit residual; converged or start a new cycle.
func Solve(op RealOperator, b []float64, precond RealPreconditioner, cfg Config) (*Result, error) {
	n := op.Size()
	if len(b) != n {
		return nil, errs.NewDimensionMismatch("gmres.Solve: len(b)", n, len(b))
	}
	if precond == nil {
		precond = IdentityPreconditioner{}
	}
	if cfg.Restart <= 0 {
		cfg.Restart = DefaultRestart
	}

	x := make([]float64, n)
	bNorm := normReal(b)
	if bNorm == 0 {
		// Boundary behaviour 12: zero RHS => zero solution after zero
		// iterations, no division by zero.
		return &Result{X: x, Iterations: 0, Residual: 0, Converged: true}, nil
	}

	totalIter := 0
	m := cfg.Restart
	for totalIter < cfg.MaxIter {
		r := subReal(b, op.MatVec(x))
		rNorm := normReal(r)
		if rNorm/bNorm < cfg.Tol {
			return &Result{X: x, Iterations: totalIter, Residual: rNorm / bNorm, Converged: true}, nil
		}

		V := make([][]float64, m+1)
		Z := make([][]float64, m)
		H := make([][]float64, m+1)
		for i := range H {
			H[i] = make([]float64, m)
		}
		cs := make([]float64, m)
		sn := make([]float64, m)
		g := make([]float64, m+1)
		V[0] = scaleReal(r, 1/rNorm)
		g[0] = rNorm

		completed := 0
		for k := 0; k < m && totalIter < cfg.MaxIter; k++ {
			totalIter++
			z := precond.Apply(V[k])
			Z[k] = z
			w := op.MatVec(z)

			for i := 0; i <= k; i++ {
				H[i][k] = simd.DotReal(w, V[i])
				w = axpyReal(w, -H[i][k], V[i])
			}
			wNorm := normReal(w)
			H[k+1][k] = wNorm
			lucky := wNorm < 1e-30
			if !lucky {
				V[k+1] = scaleReal(w, 1/wNorm)
			}

			for i := 0; i < k; i++ {
				temp := cs[i]*H[i][k] + sn[i]*H[i+1][k]
				H[i+1][k] = -sn[i]*H[i][k] + cs[i]*H[i+1][k]
				H[i][k] = temp
			}
			cs[k], sn[k] = givensReal(H[k][k], H[k+1][k])
			H[k][k] = cs[k]*H[k][k] + sn[k]*H[k+1][k]
			H[k+1][k] = 0

			temp := cs[k] * g[k]
			g[k+1] = -sn[k] * g[k]
			g[k] = temp
			completed = k + 1

			if lucky || math.Abs(g[k+1])/bNorm < cfg.Tol {
				break
			}
		}

		y := backSubstituteReal(H, g, completed)
		for i := 0; i < completed; i++ {
			x = axpyReal(x, y[i], Z[i])
		}
	}

	r := subReal(b, op.MatVec(x))
	rNorm := normReal(r)
	res := rNorm / bNorm

	return &Result{X: x, Iterations: totalIter, Residual: res, Converged: res < cfg.Tol}, nil
}

// givensReal computes a numerically stable Givens rotation (c, s) such that
// applying it to (a, b) zeros the second component.
func givensReal(a, b float64) (c, s float64) {
	if b == 0 {
		return 1, 0
	}
	if math.Abs(b) > math.Abs(a) {
		tau := a / b
		s = 1 / math.Sqrt(1+tau*tau)
		c = s * tau
	} else {
		tau := b / a
		c = 1 / math.Sqrt(1+tau*tau)
		s = c * tau
	}

	return c, s
}

// backSubstituteReal solves the k×k upper-triangular leading block of H
// (post-rotation, so H is upper triangular there) against g[0:k].
func backSubstituteReal(H [][]float64, g []float64, k int) []float64 {
	y := make([]float64, k)
	for i := k - 1; i >= 0; i-- {
		sum := g[i]
		for j := i + 1; j < k; j++ {
			sum -= H[i][j] * y[j]
		}
		y[i] = sum / H[i][i]
	}

	return y
}

func normReal(v []float64) float64 {
	return math.Sqrt(simd.DotReal(v, v))
}

func subReal(a, b []float64) []float64 {
	y := make([]float64, len(a))
	for i := range a {
		y[i] = a[i] - b[i]
	}

	return y
}

func scaleReal(v []float64, alpha float64) []float64 {
	y := make([]float64, len(v))
	for i := range v {
		y[i] = v[i] * alpha
	}

	return y
}

// axpyReal returns x + alpha*v as a new slice (x is not mutated).
func axpyReal(x []float64, alpha float64, v []float64) []float64 {
	y := make([]float64, len(x))
	for i := range x {
		y[i] = x[i] + alpha*v[i]
	}

	return y
}

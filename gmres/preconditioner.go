package gmres

import (
	"math/cmplx"

	"github.com/rjwalters/spicier-go/mna"
)

// RealPreconditioner applies an approximate M^-1 to a vector. Right
// preconditioning is used throughout: it preserves the norm of the true
// residual b - A x, unlike left preconditioning.
type RealPreconditioner interface {
	Apply(x []float64) []float64
}

// ComplexPreconditioner is the complex analogue of RealPreconditioner.
type ComplexPreconditioner interface {
	Apply(x []complex128) []complex128
}

// IdentityPreconditioner is the no-op M = I.
type IdentityPreconditioner struct{}

// Apply returns x unchanged.
func (IdentityPreconditioner) Apply(x []float64) []float64 { return x }

// ComplexIdentityPreconditioner is the complex no-op M = I.
type ComplexIdentityPreconditioner struct{}

// Apply returns x unchanged.
func (ComplexIdentityPreconditioner) Apply(x []complex128) []complex128 { return x }

// JacobiPreconditioner divides element-wise by the matrix diagonal.
// Diagonal entries with magnitude < 1e-30 are replaced by 1 (no scaling),
// per the boundary-behaviour contract for zero-diagonal matrices.
type JacobiPreconditioner struct {
	invDiag []float64
}

// NewJacobiPreconditioner extracts and sums the diagonal from triplets
// (duplicates summed, as with any MNA assembly) and builds the inverse.
func NewJacobiPreconditioner(n int, triplets []mna.Triplet) *JacobiPreconditioner {
	diag := make([]float64, n)
	for _, t := range triplets {
		if t.Row == t.Col {
			diag[t.Row] += t.Value
		}
	}
	inv := make([]float64, n)
	for i, d := range diag {
		if absFloat(d) < 1e-30 {
			inv[i] = 1
		} else {
			inv[i] = 1 / d
		}
	}

	return &JacobiPreconditioner{invDiag: inv}
}

// Apply returns the element-wise product of x with the inverse diagonal.
func (j *JacobiPreconditioner) Apply(x []float64) []float64 {
	y := make([]float64, len(x))
	for i := range x {
		y[i] = x[i] * j.invDiag[i]
	}

	return y
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}

// ComplexJacobiPreconditioner is the complex analogue of JacobiPreconditioner.
type ComplexJacobiPreconditioner struct {
	invDiag []complex128
}

// NewComplexJacobiPreconditioner builds the inverse diagonal from complex
// triplets, with the same < 1e-30 magnitude replacement-by-1 rule.
func NewComplexJacobiPreconditioner(n int, triplets []mna.CTriplet) *ComplexJacobiPreconditioner {
	diag := make([]complex128, n)
	for _, t := range triplets {
		if t.Row == t.Col {
			diag[t.Row] += t.Value
		}
	}
	inv := make([]complex128, n)
	for i, d := range diag {
		if cmplx.Abs(d) < 1e-30 {
			inv[i] = 1
		} else {
			inv[i] = 1 / d
		}
	}

	return &ComplexJacobiPreconditioner{invDiag: inv}
}

// Apply returns the element-wise product of x with the inverse diagonal.
func (j *ComplexJacobiPreconditioner) Apply(x []complex128) []complex128 {
	y := make([]complex128, len(x))
	for i := range x {
		y[i] = x[i] * j.invDiag[i]
	}

	return y
}


package linsolve

import (
	"math"
	"sync"

	"github.com/rjwalters/spicier-go/errs"
	"github.com/rjwalters/spicier-go/mna"
)

// CSC is a compressed-sparse-column assembly of a square matrix built from
// triplets, with duplicates at the same (row, col) summed.
type CSC struct {
	N      int
	ColPtr []int // length N+1
	RowIdx []int // length ColPtr[N]
	Vals   []float64
}

// BuildCSC assembles a CSC matrix of order n from triplets, summing
// duplicates at the same (row, col).
func BuildCSC(n int, triplets []mna.Triplet) *CSC {
	sums := make(map[[2]int]float64, len(triplets))
	order := make([][2]int, 0, len(triplets))
	for _, t := range triplets {
		key := [2]int{t.Row, t.Col}
		if _, ok := sums[key]; !ok {
			order = append(order, key)
		}
		sums[key] += t.Value
	}

	// Group by column, preserving first-seen row order within a column.
	byCol := make([][][2]int, n) // byCol[j] = list of (row, value-key)
	for _, key := range order {
		j := key[1]
		byCol[j] = append(byCol[j], key)
	}

	colPtr := make([]int, n+1)
	var rowIdx []int
	var vals []float64
	for j := 0; j < n; j++ {
		colPtr[j] = len(rowIdx)
		for _, key := range byCol[j] {
			rowIdx = append(rowIdx, key[0])
			vals = append(vals, sums[key])
		}
	}
	colPtr[n] = len(rowIdx)

	return &CSC{N: n, ColPtr: colPtr, RowIdx: rowIdx, Vals: vals}
}

// At returns the summed value at (row, col), 0 if no triplet touched it.
// Complexity: O(column nnz); intended for factorization setup, not hot loops.
func (c *CSC) At(row, col int) float64 {
	for k := c.ColPtr[col]; k < c.ColPtr[col+1]; k++ {
		if c.RowIdx[k] == row {
			return c.Vals[k]
		}
	}

	return 0
}

// toDenseRows materialises the CSC matrix into a row-major working array for
// elimination. Fill-in during Gaussian elimination makes true sparse storage
// of L/U impractical to hand-maintain correctly here; see DESIGN.md for the
// simplification this implies relative to a fill-reducing sparse factorization.
func (c *CSC) toDenseRows() [][]float64 {
	rows := make([][]float64, c.N)
	for i := range rows {
		rows[i] = make([]float64, c.N)
	}
	for j := 0; j < c.N; j++ {
		for k := c.ColPtr[j]; k < c.ColPtr[j+1]; k++ {
			rows[c.RowIdx[k]][j] += c.Vals[k]
		}
	}

	return rows
}

// SolveSparse builds a CSC matrix from triplets (summing duplicates),
// factors with partial-pivoting LU, and solves A x = b. It is the
// uncached, single-shot sparse path; for repeated solves against the same
// sparsity pattern use CachedSparseLU.
func SolveSparse(n int, triplets []mna.Triplet, b []float64) ([]float64, error) {
	if len(b) != n {
		return nil, errs.NewDimensionMismatch("linsolve.SolveSparse: len(b)", n, len(b))
	}

	csc := BuildCSC(n, triplets)
	_, x, err := factorAndSolve(csc.toDenseRows(), n, b)

	return x, err
}

// pivotSequence records, for each elimination step, the row chosen as pivot.
// Treated as the "symbolic factorization" this package caches: for
// CachedSparseLU, a hit reuses this pivot order directly instead of
// re-searching for pivots, so only the numeric values are recomputed.
type pivotSequence []int

// factorAndSolve runs in-place Doolittle LU with partial pivoting over a
// dense working copy `a` (row-major [][]float64), then forward/back
// substitutes b. Returns the pivot sequence used (the "symbolic" artifact)
// alongside the solution.
func factorAndSolve(a [][]float64, n int, b []float64) (pivotSequence, []float64, error) {
	piv, err := factorInPlace(a, n, nil)
	if err != nil {
		return nil, nil, err
	}

	x, err := substitute(a, n, piv, b)

	return piv, x, err
}

// factorInPlace performs Gaussian elimination with partial pivoting on a,
// writing L below the diagonal and U on/above it (Doolittle compact
// storage). If fixedPivots is non-nil, pivoting reuses that exact row
// sequence instead of searching (the cached-numeric-refactorization path).
func factorInPlace(a [][]float64, n int, fixedPivots pivotSequence) (pivotSequence, error) {
	piv := make(pivotSequence, n)
	for k := 0; k < n; k++ {
		pr := k
		if fixedPivots != nil {
			pr = fixedPivots[k]
		} else {
			maxAbs := math.Abs(a[k][k])
			for i := k + 1; i < n; i++ {
				if math.Abs(a[i][k]) > maxAbs {
					maxAbs = math.Abs(a[i][k])
					pr = i
				}
			}
		}
		if pr != k {
			a[k], a[pr] = a[pr], a[k]
		}
		piv[k] = pr

		if math.Abs(a[k][k]) < 1e-300 {
			return nil, errs.Wrap("linsolve: factorInPlace", errs.ErrSingularMatrix)
		}
		for i := k + 1; i < n; i++ {
			factor := a[i][k] / a[k][k]
			a[i][k] = factor
			for j := k + 1; j < n; j++ {
				a[i][j] -= factor * a[k][j]
			}
		}
	}

	return piv, nil
}

// substitute applies the row-pivot sequence to b, then forward-substitutes
// against L (unit diagonal, stored below a's diagonal) and back-substitutes
// against U (stored on/above a's diagonal).
func substitute(a [][]float64, n int, piv pivotSequence, b []float64) ([]float64, error) {
	y := make([]float64, n)
	copy(y, b)
	// Apply the same row permutation used during factorization.
	for k := 0; k < n; k++ {
		if piv[k] != k {
			y[k], y[piv[k]] = y[piv[k]], y[k]
		}
	}

	// Forward substitution: L z = y (unit diagonal).
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := y[i]
		for j := 0; j < i; j++ {
			sum -= a[i][j] * z[j]
		}
		z[i] = sum
	}

	// Back substitution: U x = z.
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < n; j++ {
			sum -= a[i][j] * x[j]
		}
		if math.Abs(a[i][i]) < 1e-300 {
			return nil, errs.Wrap("linsolve: substitute", errs.ErrSingularMatrix)
		}
		x[i] = sum / a[i][i]
	}

	return x, nil
}

// CachedSparseLU retains the symbolic factorization (here, the pivot
// sequence chosen during the first numeric factorization) across calls
// whose matrix order matches, refactoring only numerically thereafter.
// Readers may proceed concurrently; a single writer installs the cache on
// first use; topology changes require an explicit ResetCache call.
type CachedSparseLU struct {
	mu   sync.RWMutex
	n    int
	piv  pivotSequence
	have bool
}

// NewCachedSparseLU returns an empty cache.
func NewCachedSparseLU() *CachedSparseLU {
	return &CachedSparseLU{}
}

// ResetCache invalidates the cached symbolic factorization.
func (c *CachedSparseLU) ResetCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.have = false
	c.piv = nil
	c.n = 0
}

// Solve builds a CSC matrix from triplets and solves A x = b, reusing the
// cached pivot sequence when the order matches a prior call and the cache
// is populated; otherwise it factors from scratch and installs the cache.
// A populated cache queried with a different order is a cache mismatch.
func (c *CachedSparseLU) Solve(n int, triplets []mna.Triplet, b []float64) ([]float64, error) {
	if len(b) != n {
		return nil, errs.NewDimensionMismatch("linsolve.CachedSparseLU.Solve: len(b)", n, len(b))
	}

	csc := BuildCSC(n, triplets)
	rows := csc.toDenseRows()

	c.mu.RLock()
	if c.have && c.n == n {
		piv := c.piv
		c.mu.RUnlock()
		if _, err := factorInPlace(rows, n, piv); err != nil {
			return nil, err
		}
		return substitute(rows, n, piv, b)
	}
	if c.have && c.n != n {
		c.mu.RUnlock()
		return nil, errs.Wrap("linsolve.CachedSparseLU.Solve", errs.ErrCacheMismatch)
	}
	c.mu.RUnlock()

	// Cache miss: factor from scratch and promote (single writer).
	piv, err := factorInPlace(rows, n, nil)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if !c.have {
		c.n = n
		c.piv = piv
		c.have = true
	}
	c.mu.Unlock()

	return substitute(rows, n, piv, b)
}

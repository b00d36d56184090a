package gpu

import (
	"github.com/rjwalters/spicier-go/errs"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// CPUBatchedSolver is the always-available BatchedLuSolver: it factors each
// system independently via gonum's lapack64.Getrf/Getrs (the same LAPACK
// binding a GPU backend's CPU fallback path would call), in a plain loop
// over the batch. It never dispatches to a GPU.
type CPUBatchedSolver struct {
	config GpuBatchConfig
}

// NewCPUBatchedSolver returns a CPU batched solver using cfg's thresholds
// (consulted only by ShouldUseGPU, which always reports false for this
// backend).
func NewCPUBatchedSolver(cfg GpuBatchConfig) *CPUBatchedSolver {
	return &CPUBatchedSolver{config: cfg}
}

// SolveBatch implements BatchedLuSolver: matrices/rhs are column-major per
// system, matching the layout the GPU backends would consume directly.
func (s *CPUBatchedSolver) SolveBatch(matrices, rhs []float64, n, batchSize int) (*BatchedSolveResult, error) {
	if err := validateBatchDimensions(matrices, rhs, n, batchSize); err != nil {
		return nil, errs.Wrap("gpu.CPUBatchedSolver.SolveBatch", err)
	}

	solutions := make([]float64, 0, batchSize*n)
	var singular []int

	for i := 0; i < batchSize; i++ {
		x, ok := solveOne(matrices[i*n*n:(i+1)*n*n], rhs[i*n:(i+1)*n], n)
		if !ok {
			singular = append(singular, i)
			x = make([]float64, n)
		}
		solutions = append(solutions, x...)
	}

	return &BatchedSolveResult{
		Solutions:       solutions,
		SingularIndices: singular,
		N:               n,
		BatchSize:       batchSize,
	}, nil
}

// solveOne factors one column-major n*n system and solves it against b via
// Getrf/Getrs, reporting ok=false if the factorization found A singular.
func solveOne(colMajor, b []float64, n int) (x []float64, ok bool) {
	// lapack64 expects row-major storage (blas64.General's Data is
	// row-major with the given Stride); transpose the column-major input.
	rowMajor := make([]float64, n*n)
	for col := 0; col < n; col++ {
		for row := 0; row < n; row++ {
			rowMajor[row*n+col] = colMajor[col*n+row]
		}
	}

	a := blas64.General{Rows: n, Cols: n, Stride: n, Data: rowMajor}
	ipiv := make([]int, n)
	if ok := lapack64.Getrf(a, ipiv); !ok {
		return nil, false
	}

	bMat := blas64.General{Rows: n, Cols: 1, Stride: 1, Data: append([]float64(nil), b...)}
	lapack64.Getrs(blas.NoTrans, a, bMat, ipiv)

	return bMat.Data, true
}

// ShouldUseGPU always reports false: this is the CPU fallback.
func (s *CPUBatchedSolver) ShouldUseGPU(_, _ int) bool { return false }

// BackendType reports BackendCPUFallback.
func (s *CPUBatchedSolver) BackendType() BackendType { return BackendCPUFallback }

// Config returns the thresholds this solver was constructed with.
func (s *CPUBatchedSolver) Config() GpuBatchConfig { return s.config }

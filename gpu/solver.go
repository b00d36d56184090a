package gpu

import "github.com/rjwalters/spicier-go/errs"

// BackendType identifies which implementation a BatchedLuSolver carries out
// its solve_batch on.
type BackendType int

const (
	// BackendCUDA is the NVIDIA CUDA backend.
	BackendCUDA BackendType = iota
	// BackendMetal is the Apple Metal backend.
	BackendMetal
	// BackendCPUFallback is the always-available CPU implementation.
	BackendCPUFallback
)

// String renders the backend name the way Describe-style callers expect.
func (b BackendType) String() string {
	switch b {
	case BackendCUDA:
		return "CUDA"
	case BackendMetal:
		return "Metal"
	default:
		return "CPU"
	}
}

// BatchedSolveResult is the flattened outcome of one solve_batch call:
// Solutions holds batch_size*n entries (each system's solution
// contiguous), SingularIndices names which systems solved to a singular
// matrix (left zero-filled in Solutions).
type BatchedSolveResult struct {
	Solutions       []float64
	SingularIndices []int
	N               int
	BatchSize       int
}

// Solution returns the n-entry solution slice for system index, or nil if
// index is out of range.
func (r *BatchedSolveResult) Solution(index int) []float64 {
	if index < 0 || index >= r.BatchSize {
		return nil
	}
	start := index * r.N
	return r.Solutions[start : start+r.N]
}

// IsSingular reports whether system index solved to a singular matrix.
func (r *BatchedSolveResult) IsSingular(index int) bool {
	for _, i := range r.SingularIndices {
		if i == index {
			return true
		}
	}
	return false
}

// NumSolved returns the count of systems that did not go singular.
func (r *BatchedSolveResult) NumSolved() int {
	return r.BatchSize - len(r.SingularIndices)
}

// BatchedLuSolver is the contract every backend (CPU, CUDA, Metal)
// implements: solve a batch of independent dense linear systems, each
// matrix and RHS laid out contiguously (column-major, matching the
// corpus's GPU kernel layout) within the flattened matrices/rhs buffers.
type BatchedLuSolver interface {
	// SolveBatch solves batchSize systems of order n: matrices is
	// batchSize*n*n entries in column-major per-system blocks, rhs is
	// batchSize*n entries.
	SolveBatch(matrices, rhs []float64, n, batchSize int) (*BatchedSolveResult, error)
	// ShouldUseGPU reports whether this backend would actually dispatch to
	// a GPU for the given problem size (the CPU backend always returns
	// false).
	ShouldUseGPU(matrixSize, batchSize int) bool
	// BackendType identifies which implementation this is.
	BackendType() BackendType
	// Config returns the thresholds this solver was constructed with.
	Config() GpuBatchConfig
}

// validateBatchDimensions checks matrices/rhs against the expected flattened
// lengths for n and batchSize, shared by every BatchedLuSolver implementation.
func validateBatchDimensions(matrices, rhs []float64, n, batchSize int) error {
	expectedMatrixLen := batchSize * n * n
	expectedRHSLen := batchSize * n
	if len(matrices) != expectedMatrixLen {
		return errs.NewDimensionMismatch("gpu: matrices", expectedMatrixLen, len(matrices))
	}
	if len(rhs) != expectedRHSLen {
		return errs.NewDimensionMismatch("gpu: rhs", expectedRHSLen, len(rhs))
	}
	return nil
}

package gpu

import "github.com/rjwalters/spicier-go/errs"

// CUDABatchedSolver is the contract slot for an NVIDIA CUDA batched-LU
// backend. No cgo/CUDA bindings exist in this module (see DESIGN.md); the
// constructor always fails so BackendSelector's auto-detection falls
// through to CPUBatchedSolver, the same behaviour the source engine gets
// when compiled without its "cuda" feature.
type CUDABatchedSolver struct {
	config GpuBatchConfig
}

// NewCUDABatchedSolver always returns errs.ErrBackendInit: CUDA support is
// not compiled into this build.
func NewCUDABatchedSolver(_ GpuBatchConfig) (*CUDABatchedSolver, error) {
	return nil, errs.Wrap("gpu.NewCUDABatchedSolver", errs.ErrBackendInit)
}

// SolveBatch is unreachable: construction always fails.
func (s *CUDABatchedSolver) SolveBatch(_, _ []float64, _, _ int) (*BatchedSolveResult, error) {
	return nil, errs.Wrap("gpu.CUDABatchedSolver.SolveBatch", errs.ErrBackendInit)
}

// ShouldUseGPU reports whether a CUDA launch would be worthwhile for the
// given problem size, independent of whether CUDA is actually available.
func (s *CUDABatchedSolver) ShouldUseGPU(matrixSize, batchSize int) bool {
	return s.config.ShouldUseGPU(matrixSize, batchSize)
}

// BackendType reports BackendCUDA.
func (s *CUDABatchedSolver) BackendType() BackendType { return BackendCUDA }

// Config returns the thresholds this solver was constructed with.
func (s *CUDABatchedSolver) Config() GpuBatchConfig { return s.config }

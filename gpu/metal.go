package gpu

import "github.com/rjwalters/spicier-go/errs"

// MetalBatchedSolver is the contract slot for an Apple Metal batched-LU
// backend. No Metal bindings exist in this module; the constructor always
// fails so BackendSelector falls through to CPUBatchedSolver, mirroring the
// source engine compiled without its "metal" feature.
type MetalBatchedSolver struct {
	config GpuBatchConfig
}

// NewMetalBatchedSolver always returns errs.ErrBackendInit: Metal support is
// not compiled into this build.
func NewMetalBatchedSolver(_ GpuBatchConfig) (*MetalBatchedSolver, error) {
	return nil, errs.Wrap("gpu.NewMetalBatchedSolver", errs.ErrBackendInit)
}

// SolveBatch is unreachable: construction always fails.
func (s *MetalBatchedSolver) SolveBatch(_, _ []float64, _, _ int) (*BatchedSolveResult, error) {
	return nil, errs.Wrap("gpu.MetalBatchedSolver.SolveBatch", errs.ErrBackendInit)
}

// ShouldUseGPU reports whether a Metal launch would be worthwhile for the
// given problem size, independent of whether Metal is actually available.
func (s *MetalBatchedSolver) ShouldUseGPU(matrixSize, batchSize int) bool {
	return s.config.ShouldUseGPU(matrixSize, batchSize)
}

// BackendType reports BackendMetal.
func (s *MetalBatchedSolver) BackendType() BackendType { return BackendMetal }

// Config returns the thresholds this solver was constructed with.
func (s *MetalBatchedSolver) Config() GpuBatchConfig { return s.config }

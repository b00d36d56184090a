// Package gpu implements the §4.9 batched-LU backend contract: a single
// BatchedLuSolver interface every backend (CPU, CUDA, Metal) implements,
// size/batch thresholds deciding whether a GPU launch is worthwhile, and a
// BackendSelector that probes for a real GPU backend before falling back to
// the CPU implementation. This module ships no cgo/CUDA/Metal bindings (the
// corpus carries none for Go), so the CUDA and Metal constructors report
// ErrBackendInit unconditionally; see DESIGN.md for why the contract is
// still implemented in full rather than omitted.
package gpu

// Size/batch thresholds below which a GPU launch's overhead isn't worth it.
const (
	MaxBatchSize  = 65535 // upper bound most GPU backends accept per launch
	MinBatchSize  = 16    // below this, kernel launch overhead dominates
	MinMatrixSize = 32    // below this, a GPU launch isn't worth the transfer
)

// GpuBatchConfig controls when a BackendSelector prefers a GPU backend over
// the CPU fallback.
type GpuBatchConfig struct {
	MinBatchSize      int
	MinMatrixSize     int
	MaxBatchPerLaunch int
}

// DefaultGpuBatchConfig returns the package's default thresholds.
func DefaultGpuBatchConfig() GpuBatchConfig {
	return GpuBatchConfig{
		MinBatchSize:      MinBatchSize,
		MinMatrixSize:     MinMatrixSize,
		MaxBatchPerLaunch: MaxBatchSize,
	}
}

// ShouldUseGPU reports whether a batch of batchSize systems of the given
// matrixSize clears both GPU-worthwhile thresholds.
func (c GpuBatchConfig) ShouldUseGPU(matrixSize, batchSize int) bool {
	return matrixSize >= c.MinMatrixSize && batchSize >= c.MinBatchSize
}

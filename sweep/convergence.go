package sweep

import "math"

// ConvergenceStatus is one sweep point's Newton-Raphson convergence state.
type ConvergenceStatus int

const (
	// StatusActive means the point is still iterating.
	StatusActive ConvergenceStatus = iota
	// StatusConverged means the point converged successfully.
	StatusConverged
	// StatusFailed means the point exceeded the iteration limit.
	StatusFailed
	// StatusSingular means the point's linear solve hit a singular matrix.
	StatusSingular
)

// IsActive reports whether the point still needs iterating.
func (s ConvergenceStatus) IsActive() bool { return s == StatusActive }

// IsFinished is the complement of IsActive.
func (s ConvergenceStatus) IsFinished() bool { return s != StatusActive }

// IsConverged reports whether the point converged successfully.
func (s ConvergenceStatus) IsConverged() bool { return s == StatusConverged }

// ConvergenceTracker tracks per-point convergence status across a batched
// Newton-Raphson sweep, enabling early termination (masking) for points
// that have already converged, failed, or gone singular.
type ConvergenceTracker struct {
	status        []ConvergenceStatus
	iterations    []int
	maxIterations int
	activeCount   int
}

// NewConvergenceTracker returns a tracker for batchSize points, all Active,
// with a default iteration cap of 50.
func NewConvergenceTracker(batchSize int) *ConvergenceTracker {
	return NewConvergenceTrackerWithMaxIterations(batchSize, 50)
}

// NewConvergenceTrackerWithMaxIterations returns a tracker for batchSize
// points with a custom iteration cap.
func NewConvergenceTrackerWithMaxIterations(batchSize, maxIterations int) *ConvergenceTracker {
	status := make([]ConvergenceStatus, batchSize)
	return &ConvergenceTracker{
		status:        status,
		iterations:    make([]int, batchSize),
		maxIterations: maxIterations,
		activeCount:   batchSize,
	}
}

// BatchSize returns the total number of tracked points.
func (t *ConvergenceTracker) BatchSize() int { return len(t.status) }

// ActiveCount returns the number of currently active (unconverged) points.
func (t *ConvergenceTracker) ActiveCount() int { return t.activeCount }

// ConvergedCount returns the number of converged points.
func (t *ConvergenceTracker) ConvergedCount() int {
	n := 0
	for _, s := range t.status {
		if s.IsConverged() {
			n++
		}
	}
	return n
}

// FailedCount returns the number of failed or singular points.
func (t *ConvergenceTracker) FailedCount() int {
	n := 0
	for _, s := range t.status {
		if s == StatusFailed || s == StatusSingular {
			n++
		}
	}
	return n
}

// AllFinished reports whether every point has finished (none active).
func (t *ConvergenceTracker) AllFinished() bool { return t.activeCount == 0 }

// Status returns the status of point index.
func (t *ConvergenceTracker) Status(index int) ConvergenceStatus { return t.status[index] }

// Iterations returns the iteration count of point index.
func (t *ConvergenceTracker) Iterations(index int) int { return t.iterations[index] }

// MarkConverged marks index Converged, returning true if it was previously Active.
func (t *ConvergenceTracker) MarkConverged(index int) bool {
	return t.markFinished(index, StatusConverged)
}

// MarkFailed marks index Failed, returning true if it was previously Active.
func (t *ConvergenceTracker) MarkFailed(index int) bool {
	return t.markFinished(index, StatusFailed)
}

// MarkSingular marks index Singular, returning true if it was previously Active.
func (t *ConvergenceTracker) MarkSingular(index int) bool {
	return t.markFinished(index, StatusSingular)
}

func (t *ConvergenceTracker) markFinished(index int, status ConvergenceStatus) bool {
	if !t.status[index].IsActive() {
		return false
	}
	t.status[index] = status
	t.activeCount--
	return true
}

// IncrementIteration bumps index's iteration count, marking it Failed if it
// reaches maxIterations, and returns the new count.
func (t *ConvergenceTracker) IncrementIteration(index int) int {
	t.iterations[index]++
	if t.iterations[index] >= t.maxIterations && t.status[index].IsActive() {
		t.MarkFailed(index)
	}
	return t.iterations[index]
}

// IncrementAllActive bumps the iteration count of every currently active point.
func (t *ConvergenceTracker) IncrementAllActive() {
	for i := range t.status {
		if t.status[i].IsActive() {
			t.IncrementIteration(i)
		}
	}
}

// ActiveIndices returns the indices of every currently active point.
func (t *ConvergenceTracker) ActiveIndices() []int {
	var indices []int
	for i, s := range t.status {
		if s.IsActive() {
			indices = append(indices, i)
		}
	}
	return indices
}

// ConvergedIndices returns the indices of every converged point.
func (t *ConvergenceTracker) ConvergedIndices() []int {
	var indices []int
	for i, s := range t.status {
		if s.IsConverged() {
			indices = append(indices, i)
		}
	}
	return indices
}

// FailedIndices returns the indices of every failed or singular point.
func (t *ConvergenceTracker) FailedIndices() []int {
	var indices []int
	for i, s := range t.status {
		if s == StatusFailed || s == StatusSingular {
			indices = append(indices, i)
		}
	}
	return indices
}

// ActiveMask returns a bool per point, true where active; useful for GPU
// masking of a batched kernel launch.
func (t *ConvergenceTracker) ActiveMask() []bool {
	mask := make([]bool, len(t.status))
	for i, s := range t.status {
		mask[i] = s.IsActive()
	}
	return mask
}

// CheckConvergence marks every active point converged whose max |delta_i|
// is within abstol+reltol*|solution_i|, given flattened per-point
// solutionChanges and solutions (both length BatchSize()*n). Returns the
// number of newly converged points.
func (t *ConvergenceTracker) CheckConvergence(solutionChanges, solutions []float64, n int, abstol, reltol float64) int {
	newlyConverged := 0
	for i := 0; i < t.BatchSize(); i++ {
		if !t.status[i].IsActive() {
			continue
		}

		offset := i * n
		converged := true
		for j := 0; j < n; j++ {
			delta := math.Abs(solutionChanges[offset+j])
			value := math.Abs(solutions[offset+j])
			tol := abstol + reltol*value
			if delta > tol {
				converged = false
				break
			}
		}

		if converged {
			t.MarkConverged(i)
			newlyConverged++
		}
	}

	return newlyConverged
}

// CheckResidualConvergence marks every active point converged whose
// residual 2-norm is below tolerance, given a flattened residuals buffer
// (length BatchSize()*n). Returns the number of newly converged points.
func (t *ConvergenceTracker) CheckResidualConvergence(residuals []float64, n int, tolerance float64) int {
	newlyConverged := 0
	for i := 0; i < t.BatchSize(); i++ {
		if !t.status[i].IsActive() {
			continue
		}

		offset := i * n
		var normSq float64
		for j := 0; j < n; j++ {
			normSq += residuals[offset+j] * residuals[offset+j]
		}

		if math.Sqrt(normSq) < tolerance {
			t.MarkConverged(i)
			newlyConverged++
		}
	}

	return newlyConverged
}

// ConvergenceSummary reports aggregate statistics over a tracker.
type ConvergenceSummary struct {
	TotalPoints       int
	ConvergedCount    int
	FailedCount       int
	ActiveCount       int
	AverageIterations float64
	MaxIterations     int
}

// Summary computes a ConvergenceSummary for the tracker's current state.
func (t *ConvergenceTracker) Summary() ConvergenceSummary {
	var totalIterations, maxIter int
	for i, s := range t.status {
		if s.IsConverged() {
			totalIterations += t.iterations[i]
			if t.iterations[i] > maxIter {
				maxIter = t.iterations[i]
			}
		}
	}

	converged := t.ConvergedCount()
	avg := 0.0
	if converged > 0 {
		avg = float64(totalIterations) / float64(converged)
	}

	return ConvergenceSummary{
		TotalPoints:       t.BatchSize(),
		ConvergedCount:    converged,
		FailedCount:       t.FailedCount(),
		ActiveCount:       t.activeCount,
		AverageIterations: avg,
		MaxIterations:     maxIter,
	}
}

// CompactActive gathers data for only the active points into a contiguous
// slice, each item occupying itemSize consecutive elements.
func CompactActive[T any](data []T, itemSize int, activeIndices []int) []T {
	result := make([]T, 0, len(activeIndices)*itemSize)
	for _, idx := range activeIndices {
		offset := idx * itemSize
		result = append(result, data[offset:offset+itemSize]...)
	}
	return result
}

// ExpandActive scatters compacted per-active-point data back to full batch
// size, filling inactive positions with def.
func ExpandActive[T any](compacted []T, itemSize int, activeIndices []int, batchSize int, def T) []T {
	result := make([]T, batchSize*itemSize)
	for i := range result {
		result[i] = def
	}
	for compactIdx, originalIdx := range activeIndices {
		srcOffset := compactIdx * itemSize
		dstOffset := originalIdx * itemSize
		copy(result[dstOffset:dstOffset+itemSize], compacted[srcOffset:srcOffset+itemSize])
	}
	return result
}

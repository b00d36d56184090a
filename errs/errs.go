// Package errs provides the structured error taxonomy shared by every
// solver layer in this module: assembly (mna), direct and iterative linear
// solves (linsolve, gmres), the nonlinear driver (dcsolve), the transient
// engine (transient), and the batched-sweep engine (sweep).
//
// Sentinels follow the matrix package's idiom: package-level
// `var Err... = errors.New(...)` matched by callers via errors.Is, wrapped
// at call sites with fmt.Errorf("Context: %w", ErrX). Structured variants
// that must carry fields (DimensionMismatch, NonConverged, BatchTooLarge)
// are plain structs implementing error and an Is method against a sentinel,
// so errors.Is(err, ErrDimensionMismatch) succeeds regardless of the
// specific expected/actual values attached.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch is the sentinel matched by DimensionMismatch.Is.
	ErrDimensionMismatch = errors.New("errs: dimension mismatch")

	// ErrSingularMatrix indicates a direct solver encountered a zero pivot.
	ErrSingularMatrix = errors.New("errs: singular matrix")

	// ErrSolverError indicates an iterative solver failed structurally
	// (preconditioner construction, sparse matrix construction) rather
	// than simply failing to converge.
	ErrSolverError = errors.New("errs: solver error")

	// ErrNonConverged is the sentinel matched by NonConverged.Is.
	ErrNonConverged = errors.New("errs: did not converge")

	// ErrBackendInit indicates GPU context creation or shader compilation failed.
	ErrBackendInit = errors.New("errs: backend init failed")

	// ErrBackendError indicates a GPU backend reported a per-launch failure
	// that is not a per-element singularity (e.g. out-of-memory).
	ErrBackendError = errors.New("errs: backend error")

	// ErrBatchTooLarge is the sentinel matched by BatchTooLarge.Is.
	ErrBatchTooLarge = errors.New("errs: batch too large")

	// ErrCacheMismatch indicates a cached symbolic factorisation was reused
	// against a matrix order it was not built for; the caller must ResetCache.
	ErrCacheMismatch = errors.New("errs: cache keyed for a different matrix order")
)

// DimensionMismatch reports a shape inconsistency in solver inputs.
type DimensionMismatch struct {
	Expected int
	Actual   int
	Context  string // e.g. "solve_dense: A rows vs b length"
}

func (e *DimensionMismatch) Error() string {
	return fmt.Sprintf("%s: expected dimension %d, got %d", e.Context, e.Expected, e.Actual)
}

// Is reports whether target is ErrDimensionMismatch, so callers can write
// errors.Is(err, errs.ErrDimensionMismatch) without knowing the fields.
func (e *DimensionMismatch) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// NewDimensionMismatch constructs a DimensionMismatch with the given context.
func NewDimensionMismatch(context string, expected, actual int) error {
	return &DimensionMismatch{Expected: expected, Actual: actual, Context: context}
}

// NonConverged reports that Newton-Raphson or GMRES hit the iteration cap
// without meeting tolerance. Not always fatal: the adaptive transient
// stepper may retry with a smaller step, and callers may retry with a
// continuation policy of their own.
type NonConverged struct {
	Iterations int
	Residual   float64
	Context    string
}

func (e *NonConverged) Error() string {
	return fmt.Sprintf("%s: did not converge after %d iterations, residual %g", e.Context, e.Iterations, e.Residual)
}

func (e *NonConverged) Is(target error) bool {
	return target == ErrNonConverged
}

// NewNonConverged constructs a NonConverged error.
func NewNonConverged(context string, iterations int, residual float64) error {
	return &NonConverged{Iterations: iterations, Residual: residual, Context: context}
}

// BatchTooLarge reports that a cohort exceeds a single backend launch.
// Nothing in this module returns it: no batch solver checks
// gpu.GpuBatchConfig.MaxBatchPerLaunch, and no code splits an oversized
// cohort into chunks.
type BatchTooLarge struct {
	Size int
	Max  int
}

func (e *BatchTooLarge) Error() string {
	return fmt.Sprintf("errs: batch size %d exceeds max launch size %d", e.Size, e.Max)
}

func (e *BatchTooLarge) Is(target error) bool {
	return target == ErrBatchTooLarge
}

// NewBatchTooLarge constructs a BatchTooLarge error.
func NewBatchTooLarge(size, max int) error {
	return &BatchTooLarge{Size: size, Max: max}
}

// Wrap is a thin fmt.Errorf("%s: %w", context, err) helper kept for call-site
// brevity across packages that wrap the same sentinel repeatedly.
func Wrap(context string, err error) error {
	return fmt.Errorf("%s: %w", context, err)
}

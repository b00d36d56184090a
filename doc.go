// Package spicier implements the numerical core of a SPICE-class circuit
// simulator: modified nodal analysis assembly, dense/sparse/iterative linear
// solvers, reactive-element companion models, a DC/Newton-Raphson driver, a
// fixed-step and adaptive transient engine, and a batched parameter-sweep
// engine with CPU and GPU backends.
//
// The engine is organized under subpackages:
//
//	matrix/     — Dense matrix primitive and shape validators
//	mna/        — stamping primitives and MNA system assembly (dense + sparse)
//	linsolve/   — dense, sparse, and cached-sparse LU factorization/solve
//	gmres/      — preconditioned restarted GMRES for large sparse systems
//	simd/       — runtime SIMD capability detection for GMRES hot paths
//	companion/  — capacitor/inductor companion models (BE, TR, TR-BDF2)
//	dispatch/   — solver and backend selection by problem size
//	dcsolve/    — DC operating-point solve via damped Newton-Raphson
//	transient/  — fixed-step and LTE-adaptive transient time loops
//	sweep/      — batched parameter sweeps (CPU batched solve)
//	gpu/        — CUDA and Metal backend contracts
//	errs/       — shared structured error taxonomy
//
// This module does not parse netlists, offer a command-line interface, or
// model specific device equations beyond the stamping contract; those
// concerns live upstream of this engine.
package spicier

package dispatch

// SolveInfo reports which backend and solver a dispatched solve actually
// used, plus iterative-solver diagnostics when applicable.
type SolveInfo struct {
	BackendUsed string
	SolverUsed  string
	Iterations  int     // 0 for direct solves
	Residual    float64 // 0 for direct solves
	Iterative   bool    // true iff Iterations/Residual are meaningful
}

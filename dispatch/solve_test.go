package dispatch_test

import (
	"testing"

	"github.com/rjwalters/spicier-go/dispatch"
	"github.com/rjwalters/spicier-go/mna"
	"github.com/stretchr/testify/require"
)

// TestSolveDenseBelowThreshold covers a small resistive divider solved
// through the dense path: three 1-ohm resistors (node 0 to ground, node 0
// to node 1, node 1 to ground), a 1A current source into node 0.
func TestSolveDenseBelowThreshold(t *testing.T) {
	t.Parallel()

	sys := mna.NewSystem(2, 0)
	sys.StampConductance(0, mna.Ground, 1.0)
	sys.StampConductance(0, 1, 1.0)
	sys.StampConductance(1, mna.Ground, 1.0)
	sys.StampCurrentSource(0, mna.Ground, 1.0)

	cfg := dispatch.New(dispatch.CPU())
	x, info, err := dispatch.Solve(sys, cfg)
	require.NoError(t, err)
	require.Equal(t, "Dense LU", info.SolverUsed)
	require.Equal(t, "CPU", info.BackendUsed)
	require.Len(t, x, 2)
	require.Greater(t, x[0], x[1])
}

// TestSolveForceGMRES covers the same small system solved via forced
// GMRES strategy, which must agree with the direct solve.
func TestSolveForceGMRES(t *testing.T) {
	t.Parallel()

	sys := mna.NewSystem(2, 0)
	sys.StampConductance(0, mna.Ground, 1.0)
	sys.StampConductance(0, 1, 1.0)
	sys.StampConductance(1, mna.Ground, 1.0)
	sys.StampCurrentSource(0, mna.Ground, 1.0)

	cfg := dispatch.New(dispatch.CPU(), dispatch.WithStrategy(dispatch.StrategyIterativeGMRES))
	x, info, err := dispatch.Solve(sys, cfg)
	require.NoError(t, err)
	require.Equal(t, "GMRES", info.SolverUsed)
	require.True(t, info.Iterative)
	require.InDelta(t, 2.0/3.0, x[0], 1e-6)
	require.InDelta(t, 1.0/3.0, x[1], 1e-6)
}

package dcsolve_test

import (
	"testing"

	"github.com/rjwalters/spicier-go/dcsolve"
	"github.com/rjwalters/spicier-go/dispatch"
	"github.com/rjwalters/spicier-go/mna"
	"github.com/stretchr/testify/require"
)

// TestSolveDCSweepLinear sweeps a current-source amplitude through a
// single 1kOhm resistor to ground and checks V = I*R at every point, with
// and without warm starting.
func TestSolveDCSweepLinear(t *testing.T) {
	t.Parallel()

	build := func(isrc float64) dcsolve.StampFunc {
		return func(_ []float64) *mna.System {
			sys := mna.NewSystem(1, 0)
			sys.StampConductance(0, mna.Ground, 1e-3)
			sys.StampCurrentSource(0, mna.Ground, isrc)

			return sys
		}
	}

	cfg := dispatch.New(dispatch.CPU())
	crit := dcsolve.DefaultConvergenceCriteria()
	params := []float64{1e-3, 2e-3, 3e-3, 4e-3}

	for _, warmStart := range []bool{false, true} {
		results, err := dcsolve.SolveDCSweep(build, 1, params, crit, cfg, warmStart)
		require.NoError(t, err)
		require.Len(t, results, len(params))

		for i, r := range results {
			require.Equal(t, params[i], r.Param)
			require.True(t, r.Solution.Converged)
			require.InDelta(t, params[i]*1e3, r.Solution.X[0], 1e-6)
		}
	}
}

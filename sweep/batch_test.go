package sweep_test

import (
	"testing"

	"github.com/rjwalters/spicier-go/mna"
	"github.com/rjwalters/spicier-go/sweep"
	"github.com/stretchr/testify/require"
)

// dividerStamper stamps a two-resistor voltage divider: R1 between node 0
// and node 1, R2 from node 1 to ground, a 10V source at node 0 (branch 0).
type dividerStamper struct {
	r1, r2, vSource float64
}

func (s dividerStamper) NumNodes() int    { return 2 }
func (s dividerStamper) NumVSources() int { return 1 }
func (s dividerStamper) StampLinear(sys *mna.System) {
	sys.StampConductance(0, 1, 1/s.r1)
	sys.StampConductance(1, mna.Ground, 1/s.r2)
	sys.StampVoltageSource(0, mna.Ground, 0, s.vSource)
}

type dividerFactory struct {
	r2Nominal float64
}

func (f dividerFactory) CreateStamper(parameters []float64) sweep.SweepStamper {
	r1 := 1000.0
	if len(parameters) > 0 {
		r1 = parameters[0]
	}
	return dividerStamper{r1: r1, r2: f.r2Nominal, vSource: 10.0}
}

// TestSolveBatchedSweepCPULinear checks a linear sweep of R1 over a
// resistive divider: every point should solve (none singular) and match
// the analytic divider equation exactly.
func TestSolveBatchedSweepCPULinear(t *testing.T) {
	t.Parallel()

	factory := dividerFactory{r2Nominal: 1000.0}
	generator := sweep.NewLinearSweepGenerator(5)
	variations := []sweep.ParameterVariation{
		sweep.NewParameterVariation("R1", 1000.0).WithBounds(500.0, 1500.0),
	}

	result, err := sweep.SolveBatchedSweepCPU(factory, generator, variations)
	require.NoError(t, err)
	require.Equal(t, 5, len(result.Points))
	require.Equal(t, 5, result.ConvergedCount())
	require.Empty(t, result.SingularIndices)

	for i, point := range result.Points {
		r1 := point.Parameters[0]
		expected := 10.0 * 1000.0 / (r1 + 1000.0)
		require.InDelta(t, expected, result.Solutions[i][1], 1e-9)
	}
}

// TestSolveBatchedSweepCPUCorners checks the corner generator visits
// exactly the 2 bound extremes for a single variation.
func TestSolveBatchedSweepCPUCorners(t *testing.T) {
	t.Parallel()

	factory := dividerFactory{r2Nominal: 1000.0}
	generator := sweep.CornerGenerator{}
	variations := []sweep.ParameterVariation{
		sweep.NewParameterVariation("R1", 1000.0).WithBounds(500.0, 1500.0),
	}

	result, err := sweep.SolveBatchedSweepCPU(factory, generator, variations)
	require.NoError(t, err)
	require.Equal(t, 2, len(result.Points))
	require.Equal(t, 2, result.ConvergedCount())
	require.ElementsMatch(t, []float64{500.0, 1500.0}, []float64{result.Points[0].Parameters[0], result.Points[1].Parameters[0]})
}

// TestSolveBatchedSweepCPUMonteCarlo checks a seeded Monte Carlo sweep
// produces a node-1 voltage distribution centered near the nominal divider
// output, with every point converging.
func TestSolveBatchedSweepCPUMonteCarlo(t *testing.T) {
	t.Parallel()

	factory := dividerFactory{r2Nominal: 1000.0}
	generator := sweep.NewMonteCarloGenerator(100).WithSeed(42)
	variations := []sweep.ParameterVariation{
		sweep.NewParameterVariation("R1", 1000.0).WithBounds(500.0, 1500.0).WithSigma(100.0),
	}

	result, err := sweep.SolveBatchedSweepCPU(factory, generator, variations)
	require.NoError(t, err)
	require.Equal(t, 100, len(result.Points))
	require.GreaterOrEqual(t, result.ConvergedCount(), 95)

	stats := result.Statistics(1)
	require.Greater(t, stats.Mean, 3.0)
	require.Less(t, stats.Mean, 7.0)
}

// TestSolveBatchedSweepCPUEmpty checks that zero variations with a
// zero-point generator returns an empty, non-error result.
func TestSolveBatchedSweepCPUEmpty(t *testing.T) {
	t.Parallel()

	factory := dividerFactory{r2Nominal: 1000.0}
	generator := sweep.NewLinearSweepGenerator(0)

	result, err := sweep.SolveBatchedSweepCPU(factory, generator, nil)
	require.NoError(t, err)
	require.Empty(t, result.Points)
}

// TestStatisticsFromSamples checks the basic summary statistics.
func TestStatisticsFromSamples(t *testing.T) {
	t.Parallel()

	stats := sweep.StatisticsFromSamples([]float64{1, 2, 3, 4, 5})
	require.InDelta(t, 3.0, stats.Mean, 1e-9)
	require.InDelta(t, 1.0, stats.Min, 1e-9)
	require.InDelta(t, 5.0, stats.Max, 1e-9)
	require.Greater(t, stats.StdDev, 0.0)
}

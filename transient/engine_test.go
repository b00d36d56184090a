package transient_test

import (
	"math"
	"testing"

	"github.com/rjwalters/spicier-go/companion"
	"github.com/rjwalters/spicier-go/dispatch"
	"github.com/rjwalters/spicier-go/mna"
	"github.com/rjwalters/spicier-go/transient"
	"github.com/stretchr/testify/require"
)

// rcStamper stamps a 1V step source (branch 0; 0V at t=0, where the DC
// operating point is solved, and 1V for every t>0) in series with a
// resistor R between node 0 and node 1; the capacitor charging toward it is
// owned by the engine's companion.CapacitorState list, not by this stamper.
type rcStamper struct {
	r float64
}

func (s rcStamper) NumNodes() int    { return 2 }
func (s rcStamper) NumVSources() int { return 1 }
func (s rcStamper) StampAtTime(sys *mna.System, t float64) {
	v := 1.0
	if t == 0 {
		v = 0
	}
	sys.StampVoltageSource(0, mna.Ground, 0, v)
	sys.StampConductance(0, 1, 1/s.r)
}

func rcCircuit(r, c float64) transient.Circuit {
	return transient.Circuit{
		Stamper:    rcStamper{r: r},
		Capacitors: []*companion.CapacitorState{companion.NewCapacitorState(c, 1, mna.Ground)},
	}
}

// TestSolveTransientRCChargingBE checks that Backward-Euler integration of
// an RC low-pass tracks the analytic charging curve toward the 1V source
// (v_node1 = 1 - exp(-t/RC)).
func TestSolveTransientRCChargingBE(t *testing.T) {
	t.Parallel()

	const r, c = 1e3, 1e-6 // tau = 1ms
	circuit := rcCircuit(r, c)
	params := transient.TransientParams{Tstop: 10e-6, Tstep: 1e-8, Method: transient.BackwardEuler}

	result, err := transient.SolveTransient(circuit, transient.NewInitialConditions(), params, nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.Points)

	last := result.Points[len(result.Points)-1]
	expected := 1 - math.Exp(-last.Time/(r*c))
	require.InDelta(t, expected, last.Solution[1], 1e-3)
}

// TestSolveTransientRCChargingTrapezoidal checks the same curve under
// Trapezoidal integration, which should track the analytic curve more
// tightly than Backward Euler at the same step size.
func TestSolveTransientRCChargingTrapezoidal(t *testing.T) {
	t.Parallel()

	const r, c = 1e3, 1e-6
	circuit := rcCircuit(r, c)
	params := transient.TransientParams{Tstop: 5e-6, Tstep: 1e-8, Method: transient.Trapezoidal}

	result, err := transient.SolveTransient(circuit, transient.NewInitialConditions(), params, nil)
	require.NoError(t, err)

	last := result.Points[len(result.Points)-1]
	expected := 1 - math.Exp(-last.Time/(r*c))
	require.InDelta(t, expected, last.Solution[1], 1e-4)
}

// TestSolveTransientRCChargingTRBDF2 checks TR-BDF2 against the same
// curve.
func TestSolveTransientRCChargingTRBDF2(t *testing.T) {
	t.Parallel()

	const r, c = 1e3, 1e-6
	circuit := rcCircuit(r, c)
	params := transient.TransientParams{Tstop: 5e-6, Tstep: 1e-8, Method: transient.TRBDF2}

	result, err := transient.SolveTransient(circuit, transient.NewInitialConditions(), params, nil)
	require.NoError(t, err)

	last := result.Points[len(result.Points)-1]
	expected := 1 - math.Exp(-last.Time/(r*c))
	require.InDelta(t, expected, last.Solution[1], 1e-4)
}

// TestSolveTransientDispatched checks the dispatch-aware entry point
// reproduces the direct path's result for a circuit well under every
// dispatch threshold (always dense LU on the CPU backend).
func TestSolveTransientDispatched(t *testing.T) {
	t.Parallel()

	const r, c = 1e3, 1e-6
	circuit := rcCircuit(r, c)
	params := transient.TransientParams{Tstop: 5e-6, Tstep: 1e-8, Method: transient.Trapezoidal}
	cfg := dispatch.New(dispatch.CPU())

	result, err := transient.SolveTransientDispatched(circuit, transient.NewInitialConditions(), params, nil, cfg)
	require.NoError(t, err)

	last := result.Points[len(result.Points)-1]
	expected := 1 - math.Exp(-last.Time/(r*c))
	require.InDelta(t, expected, last.Solution[1], 1e-4)
}

// TestTransientResultInterpolateAt checks linear interpolation between
// recorded points and boundary clamping outside the recorded time range.
func TestTransientResultInterpolateAt(t *testing.T) {
	t.Parallel()

	result := transient.NewTransientResult(1)
	result.Points = []transient.TimePoint{
		{Time: 0, Solution: []float64{0}},
		{Time: 1, Solution: []float64{10}},
		{Time: 2, Solution: []float64{10}},
	}

	require.InDelta(t, 0, result.InterpolateAt(-1, 0), 1e-12)
	require.InDelta(t, 5, result.InterpolateAt(0.5, 0), 1e-12)
	require.InDelta(t, 10, result.InterpolateAt(1.5, 0), 1e-12)
	require.InDelta(t, 10, result.InterpolateAt(5, 0), 1e-12)
}

// TestTransientResultSampleAtTimes checks uniform resampling covers the
// inclusive [0, tstop] range at the requested step.
func TestTransientResultSampleAtTimes(t *testing.T) {
	t.Parallel()

	result := transient.NewTransientResult(1)
	result.Points = []transient.TimePoint{
		{Time: 0, Solution: []float64{0}},
		{Time: 1, Solution: []float64{1}},
	}

	samples := result.SampleAtTimes(1, 0.25, 0)
	require.Len(t, samples, 5)
	require.InDelta(t, 0, samples[0], 1e-12)
	require.InDelta(t, 1, samples[4], 1e-12)
}

// TestInitialConditionsApply checks a named initial condition overwrites
// the DC solution at the mapped index and skips unmapped/ground names.
func TestInitialConditionsApply(t *testing.T) {
	t.Parallel()

	ic := transient.NewInitialConditions()
	ic.SetVoltage("out", 2.5)
	ic.SetVoltage("missing", 9.0)

	solution := []float64{0, 0}
	ic.Apply(solution, map[string]int{"out": 1})

	require.Equal(t, 0.0, solution[0])
	require.Equal(t, 2.5, solution[1])
}

package transient_test

import (
	"math"
	"testing"

	"github.com/rjwalters/spicier-go/companion"
	"github.com/rjwalters/spicier-go/mna"
	"github.com/rjwalters/spicier-go/transient"
	"github.com/stretchr/testify/require"
)

// tankStamper stamps nothing: an LC tank has no independent sources or
// resistors, only the capacitor and inductor the engine advances directly.
type tankStamper struct{ numNodes int }

func (s tankStamper) NumNodes() int    { return s.numNodes }
func (s tankStamper) NumVSources() int { return 0 }
func (s tankStamper) StampAtTime(_ *mna.System, _ float64) {
}

func lcCircuit(l, c float64) transient.Circuit {
	return transient.Circuit{
		Stamper:    tankStamper{numNodes: 1},
		Capacitors: []*companion.CapacitorState{companion.NewCapacitorState(c, 0, mna.Ground)},
		Inductors:  []*companion.InductorState{companion.NewInductorState(l, 0, mna.Ground)},
	}
}

// TestSolveTransientLCOscillatorTRBDF2 checks that a lossless LC tank
// charged to an initial condition and integrated for one full period
// returns close to its starting voltage, i.e. the energy is roughly
// conserved rather than artificially damped to zero or blown up.
func TestSolveTransientLCOscillatorTRBDF2(t *testing.T) {
	t.Parallel()

	const l, c = 1e-6, 1e-9
	const v0 = 1.0
	period := 2 * math.Pi * math.Sqrt(l*c)

	circuit := lcCircuit(l, c)
	ic := transient.NewInitialConditions()
	ic.SetVoltage("tank", v0)
	nodeIndex := map[string]int{"tank": 0}

	params := transient.TransientParams{Tstop: period, Tstep: period / 400, Method: transient.TRBDF2}
	result, err := transient.SolveTransient(circuit, ic, params, nodeIndex)
	require.NoError(t, err)
	require.NotEmpty(t, result.Points)

	last := result.Points[len(result.Points)-1]
	require.InDelta(t, v0, last.Solution[0], 0.15)
}

// TestSolveTransientAdaptive checks the adaptive stepper both produces a
// monotonically increasing time series and records nonzero step-size
// statistics, against the same RC charging circuit as the fixed-step tests.
func TestSolveTransientAdaptive(t *testing.T) {
	t.Parallel()

	const r, c = 1e3, 1e-6
	circuit := transient.Circuit{
		Stamper:    rcStamper{r: r},
		Capacitors: []*companion.CapacitorState{companion.NewCapacitorState(c, 1, mna.Ground)},
	}
	params := transient.ForTstop(5e-6)
	params.Method = transient.Trapezoidal

	result, err := transient.SolveTransientAdaptive(circuit, transient.NewInitialConditions(), params, nil)
	require.NoError(t, err)
	require.Greater(t, len(result.Points), 1)
	require.Greater(t, result.TotalSteps, 0)
	require.Greater(t, result.MaxStepUsed, 0.0)
	require.GreaterOrEqual(t, result.MaxStepUsed, result.MinStepUsed)

	for i := 1; i < len(result.Points); i++ {
		require.Greater(t, result.Points[i].Time, result.Points[i-1].Time)
	}

	last := result.Points[len(result.Points)-1]
	expected := 1 - math.Exp(-last.Time/(r*c))
	require.InDelta(t, expected, last.Solution[1], 1e-3)
}

// TestSolveTransientAdaptiveRejectsOnTightTolerance checks that an
// unreasonably tight tolerance forces at least one rejected step when the
// RC circuit's source steps on at t=0+.
func TestSolveTransientAdaptiveRejectsOnTightTolerance(t *testing.T) {
	t.Parallel()

	const r, c = 1e3, 1e-9 // tau = 1us
	circuit := rcCircuit(r, c)
	params := transient.DefaultAdaptiveTransientParams()
	params.Tstop = 2e-8
	params.HInit = 5e-9
	params.AbsTol = 1e-9
	params.RelTol = 1e-6

	result, err := transient.SolveTransientAdaptive(circuit, transient.NewInitialConditions(), params, nil)
	require.NoError(t, err)
	require.Greater(t, result.RejectedSteps, 0)
	require.Greater(t, result.TotalSteps, 0)
}

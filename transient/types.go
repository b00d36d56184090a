// Package transient implements the §4.7 time-domain integration engine:
// fixed-step Backward Euler/Trapezoidal/TR-BDF2 integration driven by the
// companion models in package companion, a dispatch-aware variant that
// routes each per-step solve through package dispatch, and an adaptive
// stepper that grows/shrinks h from a per-element local truncation error
// estimate.
package transient

import "github.com/rjwalters/spicier-go/mna"

// Method selects the integration scheme SolveTransient advances with. This
// is the 3-valued engine-level method (TR-BDF2 is a single scheme from the
// caller's perspective); internally each step dispatches the two
// companion.Method stages TR-BDF2 requires.
type Method int

const (
	// BackwardEuler is first-order, L-stable, no internal stage split.
	BackwardEuler Method = iota
	// Trapezoidal is second-order, A-stable (not L-stable; can ring on
	// stiff switching transients).
	Trapezoidal
	// TRBDF2 is second-order and L-stable: a Trapezoidal stage over
	// gamma*h followed by a BDF2 stage over (1-gamma)*h.
	TRBDF2
)

// TransientParams configures a fixed-step run: integrate from t=0 to Tstop
// in constant steps of Tstep, using Method.
type TransientParams struct {
	Tstop  float64
	Tstep  float64
	Method Method
}

// AdaptiveTransientParams configures an LTE-adaptive run: integrate from
// t=0 to Tstop, starting at step HInit and never stepping outside
// [HMin, HMax], rejecting/accepting steps against the tolerance
// max(AbsTol, RelTol*max_ref).
type AdaptiveTransientParams struct {
	Tstop  float64
	HInit  float64
	HMin   float64
	HMax   float64
	RelTol float64
	AbsTol float64
	Method Method
}

// DefaultAdaptiveTransientParams returns SPICE-typical adaptive defaults:
// a 1ms run, 1ns initial step, [1fs, 1us] step bounds, 0.1% relative and
// 1uV absolute tolerance, Trapezoidal integration.
func DefaultAdaptiveTransientParams() AdaptiveTransientParams {
	return AdaptiveTransientParams{
		Tstop:  1e-3,
		HInit:  1e-9,
		HMin:   1e-15,
		HMax:   1e-6,
		RelTol: 1e-3,
		AbsTol: 1e-6,
		Method: Trapezoidal,
	}
}

// ForTstop returns DefaultAdaptiveTransientParams with Tstop and HMax
// rescaled for a run of the given length: HMax is set to tstop/100, so the
// step never grows past one hundredth of the run.
func ForTstop(tstop float64) AdaptiveTransientParams {
	p := DefaultAdaptiveTransientParams()
	p.Tstop = tstop
	p.HMax = tstop / 100
	return p
}

// InitialConditions maps named circuit nodes to an initial-condition
// voltage, applied to the DC operating point before transient integration
// begins (e.g. .IC statements). An empty set means "use the DC solution
// unmodified".
type InitialConditions struct {
	voltages map[string]float64
}

// NewInitialConditions returns an empty InitialConditions set.
func NewInitialConditions() InitialConditions {
	return InitialConditions{voltages: make(map[string]float64)}
}

// SetVoltage records an initial-condition voltage for the named node.
func (ic *InitialConditions) SetVoltage(name string, v float64) {
	if ic.voltages == nil {
		ic.voltages = make(map[string]float64)
	}
	ic.voltages[name] = v
}

// IsEmpty reports whether no initial conditions were set.
func (ic InitialConditions) IsEmpty() bool {
	return len(ic.voltages) == 0
}

// Apply overwrites solution[nodeIndex[name]] for every recorded node that
// appears in nodeIndex; names absent from nodeIndex (or mna.Ground) are
// skipped.
func (ic InitialConditions) Apply(solution []float64, nodeIndex map[string]int) {
	for name, v := range ic.voltages {
		idx, ok := nodeIndex[name]
		if !ok || idx == mna.Ground {
			continue
		}
		solution[idx] = v
	}
}

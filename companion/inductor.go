package companion

import "github.com/rjwalters/spicier-go/mna"

// InductorState carries one inductor's companion history across timesteps,
// mirroring CapacitorState's role but stamped in the dual (the companion
// current source carries i_prev from pos to neg through the element).
type InductorState struct {
	Inductance float64
	Pos, Neg   int

	VPrev, IPrev         float64
	VPrevPrev, IPrevPrev float64

	lastGeq, lastIeq float64
}

// NewInductorState creates an inductor companion with zeroed history.
func NewInductorState(inductance float64, pos, neg int) *InductorState {
	return &InductorState{Inductance: inductance, Pos: pos, Neg: neg}
}

// VoltageFromSolution reads the terminal voltage v = V(pos) - V(neg).
func (l *InductorState) VoltageFromSolution(solution []float64) float64 {
	return terminalVoltage(solution, l.Pos, l.Neg)
}

func (l *InductorState) companionParams(method Method, h float64) (geq, ieq float64) {
	switch method {
	case BackwardEuler:
		geq = h / l.Inductance
		ieq = l.IPrev
	case Trapezoidal:
		geq = h / (2 * l.Inductance)
		ieq = l.IPrev + geq*l.VPrev
	case TRBDF2Gamma:
		hGamma := Gamma * h
		geq = hGamma / (2 * l.Inductance)
		ieq = l.IPrev + geq*l.VPrev
	case TRBDF2BDF2:
		alpha1, alpha2, beta, h2 := bdf2Coefficients(h)
		geq = beta * h2 / l.Inductance
		ieq = alpha1*l.IPrev + alpha2*l.IPrevPrev
	}

	return geq, ieq
}

// Stamp adds this inductor's companion conductance and current source to
// sys. Unlike the capacitor, the current source is stamped in the same
// (pos, neg) direction as i_prev itself.
func (l *InductorState) Stamp(sys *mna.System, method Method, h float64) {
	geq, ieq := l.companionParams(method, h)
	l.lastGeq, l.lastIeq = geq, ieq
	sys.StampConductance(l.Pos, l.Neg, geq)
	sys.StampCurrentSource(l.Pos, l.Neg, ieq)
}

// Update rotates history after a full timestep h is accepted at the new
// terminal voltage v, for BackwardEuler, Trapezoidal, or the TR-BDF2 final
// (BDF2-stage) case.
//
// The TRBDF2BDF2 branch intentionally uses v_prev in both the
// (1+2*alpha)*v_prev and alpha*v_prev terms rather than v_prev_prev in the
// second — this reproduces the original solver's formula literally rather
// than the capacitor's symmetric v_prev/v_prev_prev form.
func (l *InductorState) Update(method Method, v, h float64) {
	switch method {
	case BackwardEuler:
		l.IPrev += h / l.Inductance * v
	case Trapezoidal:
		l.IPrev += h / (2 * l.Inductance) * (v + l.VPrev)
	case TRBDF2BDF2:
		alpha := (1 - Gamma) / (Gamma * (2 - Gamma))
		di := h / l.Inductance * ((1+alpha)*v - (1+2*alpha)*l.VPrev + alpha*l.VPrev)
		l.IPrev += di
	}
	l.IPrevPrev = l.IPrev
	l.VPrev = v
}

// UpdateIntermediate rotates history after TR-BDF2's first (Trapezoidal,
// gamma*h) stage has been solved at the intermediate voltage vGamma.
func (l *InductorState) UpdateIntermediate(vGamma, h float64) {
	hGamma := Gamma * h
	l.IPrevPrev = l.IPrev
	l.IPrev += hGamma / (2 * l.Inductance) * (vGamma + l.VPrev)
	l.VPrev = vGamma
}

// EstimateLTE implements the Milne-device local truncation error estimate
// for the inductor, dual to CapacitorState.EstimateLTE: the difference
// between the Trapezoidal and Backward-Euler predictions of the element
// current at the new voltage v.
func (l *InductorState) EstimateLTE(v, h float64) float64 {
	iTrapDelta := h / (2 * l.Inductance) * (v + l.VPrev)
	iBEDelta := h / l.Inductance * v

	return absFloat(iTrapDelta-iBEDelta) / 3
}

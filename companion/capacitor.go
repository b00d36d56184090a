package companion

import "github.com/rjwalters/spicier-go/mna"

// CapacitorState carries one capacitor's companion history across
// timesteps: the voltage and current from the previous accepted step (used
// by BE/TR), plus the voltage two steps back (used by TR-BDF2's BDF2
// stage). Created once per simulation from the device list, mutated once
// per accepted timestep, destroyed with the simulation.
type CapacitorState struct {
	Capacitance float64
	Pos, Neg    int // mna.Ground for a grounded terminal

	VPrev, IPrev         float64
	VPrevPrev, IPrevPrev float64

	lastGeq, lastIeq float64
}

// NewCapacitorState creates a capacitor companion with zeroed history.
func NewCapacitorState(capacitance float64, pos, neg int) *CapacitorState {
	return &CapacitorState{Capacitance: capacitance, Pos: pos, Neg: neg}
}

// VoltageFromSolution reads the terminal voltage v = V(pos) - V(neg) from a
// solved MNA solution vector, treating a ground terminal as 0V.
func (c *CapacitorState) VoltageFromSolution(solution []float64) float64 {
	return terminalVoltage(solution, c.Pos, c.Neg)
}

// companionParams computes (G_eq, I_eq) for the given method and step h,
// per the §4.4 table. TR-BDF2's gamma stage is Trapezoidal over gamma*h;
// its BDF2 stage uses the non-uniform BDF2 coefficients.
func (c *CapacitorState) companionParams(method Method, h float64) (geq, ieq float64) {
	switch method {
	case BackwardEuler:
		geq = c.Capacitance / h
		ieq = geq * c.VPrev
	case Trapezoidal:
		geq = 2 * c.Capacitance / h
		ieq = geq*c.VPrev + c.IPrev
	case TRBDF2Gamma:
		geq = 2 * c.Capacitance / (Gamma * h)
		ieq = geq*c.VPrev + c.IPrev
	case TRBDF2BDF2:
		alpha1, alpha2, beta, h2 := bdf2Coefficients(h)
		geq = c.Capacitance / (beta * h2)
		ieq = geq * (alpha1*c.VPrev + alpha2*c.VPrevPrev)
	}

	return geq, ieq
}

// Stamp adds this capacitor's companion conductance and current source to
// sys for the given method and step h. The current source flows from neg
// to pos (charging convention).
func (c *CapacitorState) Stamp(sys *mna.System, method Method, h float64) {
	geq, ieq := c.companionParams(method, h)
	c.lastGeq, c.lastIeq = geq, ieq
	sys.StampConductance(c.Pos, c.Neg, geq)
	sys.StampCurrentSource(c.Pos, c.Neg, ieq)
}

// Update rotates history after a full timestep h is accepted at the new
// terminal voltage v, for BackwardEuler, Trapezoidal, or the TR-BDF2 final
// (BDF2-stage) case. TRBDF2Gamma is not a valid argument here; its history
// rotation is UpdateIntermediate.
func (c *CapacitorState) Update(method Method, v, h float64) {
	switch method {
	case BackwardEuler:
		c.IPrev = c.Capacitance / h * (v - c.VPrev)
	case Trapezoidal:
		c.IPrev = 2*c.Capacitance/h*(v-c.VPrev) - c.IPrev
	case TRBDF2BDF2:
		alpha1, alpha2, beta, h2 := bdf2Coefficients(h)
		c.IPrev = c.Capacitance / (beta * h2) * (v - alpha1*c.VPrev - alpha2*c.VPrevPrev)
	}
	c.VPrevPrev = c.VPrev
	c.VPrev = v
}

// UpdateIntermediate rotates history after TR-BDF2's first (Trapezoidal,
// gamma*h) stage has been solved at the intermediate voltage vGamma: the
// prior v_prev becomes v_prev_prev, i_prev is recomputed by the
// Trapezoidal current formula over h_gamma = gamma*h, and v_prev advances
// to vGamma ready for the BDF2 stage stamp.
func (c *CapacitorState) UpdateIntermediate(vGamma, h float64) {
	hGamma := Gamma * h
	c.VPrevPrev = c.VPrev
	c.IPrev = 2*c.Capacitance/hGamma*(vGamma-c.VPrevPrev) - c.IPrev
	c.VPrev = vGamma
}

// EstimateLTE implements the Milne-device local truncation error estimate:
// the difference between the Trapezoidal and Backward-Euler predictions of
// the element current at the new voltage v, given the step h and the
// current (pre-update) history.
func (c *CapacitorState) EstimateLTE(v, h float64) float64 {
	iTrap := 2*c.Capacitance/h*(v-c.VPrev) - c.IPrev
	iBE := c.Capacitance / h * (v - c.VPrev)

	return absFloat(iTrap-iBE) / 3
}

func terminalVoltage(solution []float64, pos, neg int) float64 {
	var vp, vn float64
	if pos != mna.Ground {
		vp = solution[pos]
	}
	if neg != mna.Ground {
		vn = solution[neg]
	}

	return vp - vn
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}

package transient

import (
	"math"

	"github.com/rjwalters/spicier-go/companion"
	"github.com/rjwalters/spicier-go/errs"
)

// snapshot captures every capacitor's and inductor's mutable companion
// history before a step attempt, so a rejected step can be rolled back
// without re-deriving history from scratch.
type snapshot struct {
	capVPrev, capIPrev, capVPrevPrev, capIPrevPrev []float64
	indVPrev, indIPrev, indVPrevPrev, indIPrevPrev []float64
}

func takeSnapshot(c Circuit) snapshot {
	s := snapshot{
		capVPrev:     make([]float64, len(c.Capacitors)),
		capIPrev:     make([]float64, len(c.Capacitors)),
		capVPrevPrev: make([]float64, len(c.Capacitors)),
		capIPrevPrev: make([]float64, len(c.Capacitors)),
		indVPrev:     make([]float64, len(c.Inductors)),
		indIPrev:     make([]float64, len(c.Inductors)),
		indVPrevPrev: make([]float64, len(c.Inductors)),
		indIPrevPrev: make([]float64, len(c.Inductors)),
	}
	for i, cap_ := range c.Capacitors {
		s.capVPrev[i], s.capIPrev[i] = cap_.VPrev, cap_.IPrev
		s.capVPrevPrev[i], s.capIPrevPrev[i] = cap_.VPrevPrev, cap_.IPrevPrev
	}
	for i, ind := range c.Inductors {
		s.indVPrev[i], s.indIPrev[i] = ind.VPrev, ind.IPrev
		s.indVPrevPrev[i], s.indIPrevPrev[i] = ind.VPrevPrev, ind.IPrevPrev
	}

	return s
}

func restoreSnapshot(c Circuit, s snapshot) {
	for i, cap_ := range c.Capacitors {
		cap_.VPrev, cap_.IPrev = s.capVPrev[i], s.capIPrev[i]
		cap_.VPrevPrev, cap_.IPrevPrev = s.capVPrevPrev[i], s.capIPrevPrev[i]
	}
	for i, ind := range c.Inductors {
		ind.VPrev, ind.IPrev = s.indVPrev[i], s.indIPrev[i]
		ind.VPrevPrev, ind.IPrevPrev = s.indVPrevPrev[i], s.indIPrevPrev[i]
	}
}

// stepLTE solves one attempted step of length h at the (pre-update)
// companion history and returns the new solution alongside the worst-case
// local truncation error and reference magnitude across every reactive
// element. For BackwardEuler and Trapezoidal it leaves companion state
// untouched; for TRBDF2 it commits the gamma-stage history rotation, which
// the caller undoes with restoreSnapshot when the step is rejected.
func stepLTE(c Circuit, tNew float64, method Method, h float64) (x []float64, maxLTE, maxRef float64, err error) {
	if method == TRBDF2 {
		sys1 := stampStep(c, tNew, companion.TRBDF2Gamma, h)
		xGamma, err := directSolve(sys1)
		if err != nil {
			return nil, 0, 0, errs.Wrap("transient: adaptive TR-BDF2 gamma stage", err)
		}
		// The gamma stage must commit its intermediate rotation so the
		// BDF2 stage's companion parameters see the right history; a
		// rejected step restores the whole snapshot afterwards.
		for _, cap_ := range c.Capacitors {
			cap_.UpdateIntermediate(cap_.VoltageFromSolution(xGamma), h)
		}
		for _, ind := range c.Inductors {
			ind.UpdateIntermediate(ind.VoltageFromSolution(xGamma), h)
		}

		sys2 := stampStep(c, tNew, companion.TRBDF2BDF2, h)
		x, err = directSolve(sys2)
		if err != nil {
			return nil, 0, 0, errs.Wrap("transient: adaptive TR-BDF2 BDF2 stage", err)
		}

		for _, cap_ := range c.Capacitors {
			v := cap_.VoltageFromSolution(x)
			if lte := cap_.EstimateLTE(v, h); lte > maxLTE {
				maxLTE = lte
			}
			if r := math.Abs(v); r > maxRef {
				maxRef = r
			}
		}
		for _, ind := range c.Inductors {
			iPrevBeforeUpdate := ind.IPrev
			v := ind.VoltageFromSolution(x)
			if lte := ind.EstimateLTE(v, h); lte > maxLTE {
				maxLTE = lte
			}
			if r := math.Abs(iPrevBeforeUpdate); r > maxRef {
				maxRef = r
			}
		}

		return x, maxLTE, maxRef, nil
	}

	cm := companionMethodFor(method)
	sys := stampStep(c, tNew, cm, h)
	x, err = directSolve(sys)
	if err != nil {
		return nil, 0, 0, errs.Wrap("transient: adaptive step solve", err)
	}

	for _, cap_ := range c.Capacitors {
		v := cap_.VoltageFromSolution(x)
		if lte := cap_.EstimateLTE(v, h); lte > maxLTE {
			maxLTE = lte
		}
		if r := math.Abs(v); r > maxRef {
			maxRef = r
		}
	}
	for _, ind := range c.Inductors {
		v := ind.VoltageFromSolution(x)
		if lte := ind.EstimateLTE(v, h); lte > maxLTE {
			maxLTE = lte
		}
		if r := math.Abs(ind.IPrev); r > maxRef {
			maxRef = r
		}
	}

	return x, maxLTE, maxRef, nil
}

// commitStep performs the companion history rotation for an accepted step,
// mirroring SolveTransient's per-step Update calls (the TR-BDF2 gamma-stage
// rotation was already committed by stepLTE itself).
func commitStep(c Circuit, x []float64, method Method, h float64) {
	if method == TRBDF2 {
		for _, cap_ := range c.Capacitors {
			cap_.Update(companion.TRBDF2BDF2, cap_.VoltageFromSolution(x), h)
		}
		for _, ind := range c.Inductors {
			ind.Update(companion.TRBDF2BDF2, ind.VoltageFromSolution(x), h)
		}

		return
	}

	cm := companionMethodFor(method)
	for _, cap_ := range c.Capacitors {
		cap_.Update(cm, cap_.VoltageFromSolution(x), h)
	}
	for _, ind := range c.Inductors {
		ind.Update(cm, ind.VoltageFromSolution(x), h)
	}
}

// SolveTransientAdaptive integrates c from t=0 to params.Tstop, adjusting
// the step size from each step's worst-case local truncation error: a step
// whose LTE exceeds tol = max(AbsTol, RelTol*max_ref) is rejected, its
// companion history rolled back, and retried at a shrunk h; an accepted
// step's history is committed and the next step's h is grown, both within
// [HMin, HMax].
func SolveTransientAdaptive(c Circuit, ic InitialConditions, params AdaptiveTransientParams, nodeIndex map[string]int) (*AdaptiveTransientResult, error) {
	numNodes := c.Stamper.NumNodes()

	x0, err := initDC(c, directSolve, ic, nodeIndex)
	if err != nil {
		return nil, err
	}

	result := NewAdaptiveTransientResult(numNodes)
	result.Points = append(result.Points, TimePoint{Time: 0, Solution: x0})
	result.MinStepUsed = math.MaxFloat64

	h := params.HInit
	t := 0.0
	for t < params.Tstop-params.HMin*0.5 {
		if t+h > params.Tstop {
			h = params.Tstop - t
		}

		snap := takeSnapshot(c)
		tNew := t + h
		x, maxLTE, maxRef, err := stepLTE(c, tNew, params.Method, h)
		if err != nil {
			return nil, err
		}
		result.TotalSteps++

		tol := math.Max(params.AbsTol, params.RelTol*maxRef)

		if maxLTE > tol && h > params.HMin {
			restoreSnapshot(c, snap)
			result.RejectedSteps++

			factor := math.Min(0.5, math.Sqrt(tol/maxLTE))
			factor = math.Max(0.1, factor)
			h *= factor
			if h < params.HMin {
				h = params.HMin
			}

			continue
		}

		commitStep(c, x, params.Method, h)
		t = tNew
		result.Points = append(result.Points, TimePoint{Time: t, Solution: x})

		if h < result.MinStepUsed {
			result.MinStepUsed = h
		}
		if h > result.MaxStepUsed {
			result.MaxStepUsed = h
		}

		denom := math.Max(maxLTE, 1e-20)
		factor := math.Min(2.0, math.Sqrt(tol/denom))
		factor = math.Min(1.5, factor)
		h *= factor
		if h > params.HMax {
			h = params.HMax
		}
		if h < params.HMin {
			h = params.HMin
		}
	}

	return result, nil
}

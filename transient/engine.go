package transient

import (
	"github.com/rjwalters/spicier-go/companion"
	"github.com/rjwalters/spicier-go/dispatch"
	"github.com/rjwalters/spicier-go/errs"
	"github.com/rjwalters/spicier-go/gmres"
	"github.com/rjwalters/spicier-go/linsolve"
	"github.com/rjwalters/spicier-go/mna"
	"github.com/sirupsen/logrus"
)

// TransientStamper stamps a circuit's time-invariant and time-varying
// elements (resistors, independent sources, controlled sources) into sys at
// the given absolute time. It must not stamp capacitors or inductors: their
// companion conductance/current contributions are added by the engine
// itself from the CapacitorState/InductorState lists passed to
// SolveTransient, so the two stamping responsibilities never collide.
type TransientStamper interface {
	NumNodes() int
	NumVSources() int
	StampAtTime(sys *mna.System, t float64)
}

// Circuit bundles a TransientStamper with the reactive-element companion
// state lists the engine advances alongside it.
type Circuit struct {
	Stamper    TransientStamper
	Capacitors []*companion.CapacitorState
	Inductors  []*companion.InductorState
}

// initDC solves the DC operating point used to seed companion history:
// capacitors are left open (no stamp), inductors are shorted via an extra
// zero-volt branch per inductor appended after the stamper's own
// NumVSources() branches. ic is applied to the DC solution before history
// is seeded, so an explicit initial condition (e.g. a pre-charged
// capacitor) is reflected in the companion state the first transient step
// sees, not just in the reported t=0 point. The resulting node voltages
// seed VPrev for every capacitor (and the inductor's own terminal, left at
// 0), and the solved short current seeds IPrev for every inductor.
func initDC(c Circuit, solve func(sys *mna.System) ([]float64, error), ic InitialConditions, nodeIndex map[string]int) ([]float64, error) {
	numNodes := c.Stamper.NumNodes()
	numVSources := c.Stamper.NumVSources()
	numInductors := len(c.Inductors)

	sys := mna.NewSystem(numNodes, numVSources+numInductors)
	c.Stamper.StampAtTime(sys, 0)
	for i, ind := range c.Inductors {
		sys.StampVoltageSource(ind.Pos, ind.Neg, numVSources+i, 0)
	}

	x, err := solve(sys)
	if err != nil {
		return nil, errs.Wrap("transient: DC operating point", err)
	}
	if !ic.IsEmpty() {
		ic.Apply(x, nodeIndex)
	}

	for _, cap_ := range c.Capacitors {
		cap_.VPrev = cap_.VoltageFromSolution(x)
	}
	for i, ind := range c.Inductors {
		ind.VPrev = 0
		ind.IPrev = x[numNodes+numVSources+i]
	}

	return x, nil
}

// companionMethodFor maps the engine-level Method to the companion.Method
// used for a non-TR-BDF2 step (TRBDF2 uses two distinct companion.Method
// stages internally and never calls this helper).
func companionMethodFor(m Method) companion.Method {
	if m == BackwardEuler {
		return companion.BackwardEuler
	}
	return companion.Trapezoidal
}

// stampStep builds the full MNA system for one companion step at time tNew,
// combining the stamper's static contribution with every capacitor's and
// inductor's companion stamp for cm over h.
func stampStep(c Circuit, tNew float64, cm companion.Method, h float64) *mna.System {
	numNodes := c.Stamper.NumNodes()
	numVSources := c.Stamper.NumVSources()

	sys := mna.NewSystem(numNodes, numVSources)
	c.Stamper.StampAtTime(sys, tNew)
	for _, cap_ := range c.Capacitors {
		cap_.Stamp(sys, cm, h)
	}
	for _, ind := range c.Inductors {
		ind.Stamp(sys, cm, h)
	}

	return sys
}

// directSolve solves sys with dense LU below linsolve.SparseThreshold and
// sparse LU at or above it; used by SolveTransient, which has no dispatch
// configuration to consult.
func directSolve(sys *mna.System) ([]float64, error) {
	n := sys.Size()
	if n >= linsolve.SparseThreshold {
		return linsolve.SolveSparse(n, sys.Triplets(), sys.RHS())
	}
	dense, err := sys.ToDense()
	if err != nil {
		return nil, err
	}

	return linsolve.SolveDense(dense, sys.RHS())
}

// SolveTransient integrates c from t=0 to params.Tstop in fixed steps of
// params.Tstep, solving each step's MNA system directly (dense or sparse
// LU, chosen by size alone). ic is applied to the DC operating point before
// the first step; nodeIndex maps InitialConditions' node names to solution
// indices and may be nil if ic.IsEmpty().
func SolveTransient(c Circuit, ic InitialConditions, params TransientParams, nodeIndex map[string]int) (*TransientResult, error) {
	numNodes := c.Stamper.NumNodes()

	x0, err := initDC(c, directSolve, ic, nodeIndex)
	if err != nil {
		return nil, err
	}

	result := NewTransientResult(numNodes)
	result.Points = append(result.Points, TimePoint{Time: 0, Solution: x0})

	h := params.Tstep
	t := 0.0
	for t < params.Tstop-h*0.5 {
		tNew := t + h

		var x []float64
		if params.Method == TRBDF2 {
			sys1 := stampStep(c, tNew, companion.TRBDF2Gamma, h)
			xGamma, err := directSolve(sys1)
			if err != nil {
				return nil, errs.Wrap("transient: TR-BDF2 gamma stage", err)
			}
			for _, cap_ := range c.Capacitors {
				cap_.UpdateIntermediate(cap_.VoltageFromSolution(xGamma), h)
			}
			for _, ind := range c.Inductors {
				ind.UpdateIntermediate(ind.VoltageFromSolution(xGamma), h)
			}

			sys2 := stampStep(c, tNew, companion.TRBDF2BDF2, h)
			xFinal, err := directSolve(sys2)
			if err != nil {
				return nil, errs.Wrap("transient: TR-BDF2 BDF2 stage", err)
			}
			for _, cap_ := range c.Capacitors {
				cap_.Update(companion.TRBDF2BDF2, cap_.VoltageFromSolution(xFinal), h)
			}
			for _, ind := range c.Inductors {
				ind.Update(companion.TRBDF2BDF2, ind.VoltageFromSolution(xFinal), h)
			}
			x = xFinal
		} else {
			cm := companionMethodFor(params.Method)
			sys := stampStep(c, tNew, cm, h)
			x, err = directSolve(sys)
			if err != nil {
				return nil, errs.Wrap("transient: step solve", err)
			}
			for _, cap_ := range c.Capacitors {
				cap_.Update(cm, cap_.VoltageFromSolution(x), h)
			}
			for _, ind := range c.Inductors {
				ind.Update(cm, ind.VoltageFromSolution(x), h)
			}
		}

		result.Points = append(result.Points, TimePoint{Time: tNew, Solution: x})
		t = tNew
	}

	return result, nil
}

// solveDispatched runs dispatch.Solve against cfg, except that a GMRES
// non-convergence is logged as a warning and its best-effort iterate is
// returned rather than propagated as a fatal error: a transient run can
// tolerate one under-converged step far better than it can tolerate
// aborting the whole sweep.
func solveDispatched(sys *mna.System, cfg dispatch.Config) ([]float64, error) {
	n := sys.Size()
	if cfg.UseGMRES(n) {
		op := &gmres.TripletOperator{N: n, Triplets: sys.Triplets()}
		precond := gmres.NewJacobiPreconditioner(n, sys.Triplets())
		result, err := gmres.Solve(op, sys.RHS(), precond, cfg.GMRESConfig)
		if err != nil {
			return nil, errs.Wrap("transient: GMRES step solve", err)
		}
		if !result.Converged {
			logrus.WithFields(logrus.Fields{
				"iterations": result.Iterations,
				"residual":   result.Residual,
			}).Warn("transient: GMRES step did not converge, continuing with best estimate")
		}

		return result.X, nil
	}

	x, _, err := dispatch.Solve(sys, cfg)
	if err != nil {
		return nil, errs.Wrap("transient: dispatched step solve", err)
	}

	return x, nil
}

// SolveTransientDispatched is SolveTransient's dispatch-aware counterpart:
// every per-step solve (DC operating point included) is routed through
// dispatchCfg, so a large enough circuit automatically uses GMRES instead of
// always using direct LU. Every solve runs on the CPU; a GPU backend named
// in dispatchCfg is not used by this path (see dispatch.Solve).
func SolveTransientDispatched(c Circuit, ic InitialConditions, params TransientParams, nodeIndex map[string]int, dispatchCfg dispatch.Config) (*TransientResult, error) {
	numNodes := c.Stamper.NumNodes()

	solve := func(sys *mna.System) ([]float64, error) { return solveDispatched(sys, dispatchCfg) }

	x0, err := initDC(c, solve, ic, nodeIndex)
	if err != nil {
		return nil, err
	}

	result := NewTransientResult(numNodes)
	result.Points = append(result.Points, TimePoint{Time: 0, Solution: x0})

	h := params.Tstep
	t := 0.0
	for t < params.Tstop-h*0.5 {
		tNew := t + h

		var x []float64
		if params.Method == TRBDF2 {
			sys1 := stampStep(c, tNew, companion.TRBDF2Gamma, h)
			xGamma, err := solve(sys1)
			if err != nil {
				return nil, errs.Wrap("transient: TR-BDF2 gamma stage", err)
			}
			for _, cap_ := range c.Capacitors {
				cap_.UpdateIntermediate(cap_.VoltageFromSolution(xGamma), h)
			}
			for _, ind := range c.Inductors {
				ind.UpdateIntermediate(ind.VoltageFromSolution(xGamma), h)
			}

			sys2 := stampStep(c, tNew, companion.TRBDF2BDF2, h)
			xFinal, err := solve(sys2)
			if err != nil {
				return nil, errs.Wrap("transient: TR-BDF2 BDF2 stage", err)
			}
			for _, cap_ := range c.Capacitors {
				cap_.Update(companion.TRBDF2BDF2, cap_.VoltageFromSolution(xFinal), h)
			}
			for _, ind := range c.Inductors {
				ind.Update(companion.TRBDF2BDF2, ind.VoltageFromSolution(xFinal), h)
			}
			x = xFinal
		} else {
			cm := companionMethodFor(params.Method)
			sys := stampStep(c, tNew, cm, h)
			x, err = solve(sys)
			if err != nil {
				return nil, errs.Wrap("transient: step solve", err)
			}
			for _, cap_ := range c.Capacitors {
				cap_.Update(cm, cap_.VoltageFromSolution(x), h)
			}
			for _, ind := range c.Inductors {
				ind.Update(cm, ind.VoltageFromSolution(x), h)
			}
		}

		result.Points = append(result.Points, TimePoint{Time: tNew, Solution: x})
		t = tNew
	}

	return result, nil
}

package dcsolve

import (
	"github.com/rjwalters/spicier-go/dispatch"
	"github.com/rjwalters/spicier-go/errs"
)

// SweepPoint pairs a swept parameter value with its solution.
type SweepPoint struct {
	Param    float64
	Solution *DcSolution
}

// BuildAt parameterises StampFunc construction by a single swept source
// value (e.g. a voltage-source amplitude), returning the StampFunc to run
// Newton-Raphson against for that parameter.
type BuildAt func(param float64) StampFunc

// SolveDCSweep resolves a DcSolution for every value in params, in order.
// If warmStart is true, each point after the first starts Newton-Raphson
// from the previous point's solution rather than from zero; this tracks
// the source repository's optional warm-start path and typically converges
// in fewer iterations for smoothly-varying sweeps. A failure at any point
// aborts the sweep and returns the partial results gathered so far.
func SolveDCSweep(build BuildAt, size int, params []float64, crit ConvergenceCriteria, dispatchCfg dispatch.Config, warmStart bool) ([]SweepPoint, error) {
	results := make([]SweepPoint, 0, len(params))
	x0 := make([]float64, size)

	for _, p := range params {
		stampFn := build(p)

		var (
			solution *DcSolution
			err      error
		)
		if warmStart {
			solution, err = solveNewtonFrom(stampFn, x0, crit, dispatchCfg, nil)
		} else {
			solution, err = SolveNewtonRaphson(stampFn, size, crit, dispatchCfg, nil)
		}
		if err != nil {
			return results, errs.Wrap("dcsolve.SolveDCSweep", err)
		}

		results = append(results, SweepPoint{Param: p, Solution: solution})
		x0 = solution.X
	}

	return results, nil
}

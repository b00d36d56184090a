// Package sweep implements the §4.8 batched parameter-sweep engine: sweep
// point generation (linear, corner, Monte Carlo), per-point stamping via a
// caller-supplied factory, convergence tracking for early termination on
// nonlinear sweeps, and a CPU batched-solve path that, for systems at or
// above linsolve.SparseThreshold, reuses a cached symbolic factorization
// across every point in the batch, since every point shares the same
// sparsity pattern and only the stamped values vary.
package sweep

import (
	"math"
	"math/rand"

	"github.com/rjwalters/spicier-go/mna"
)

// SweepPoint is one point in a parameter sweep: the concrete parameter
// values, in the same order as the ParameterVariation slice that produced
// it.
type SweepPoint struct {
	Parameters []float64
}

// ParameterVariation names one swept parameter and its nominal value, plus
// optional bounds (for linear/corner sweeps) and standard deviation (for
// Monte Carlo sampling).
type ParameterVariation struct {
	Name      string
	Nominal   float64
	Min, Max  float64
	HasBounds bool
	Sigma     float64
	HasSigma  bool
}

// NewParameterVariation returns a variation with only a nominal value set;
// a generator that needs bounds or sigma and doesn't find them falls back
// to the nominal value for every point.
func NewParameterVariation(name string, nominal float64) ParameterVariation {
	return ParameterVariation{Name: name, Nominal: nominal}
}

// WithBounds attaches [min, max] bounds, used by LinearSweepGenerator and
// CornerGenerator.
func (p ParameterVariation) WithBounds(min, max float64) ParameterVariation {
	p.Min, p.Max, p.HasBounds = min, max, true
	return p
}

// WithSigma attaches a standard deviation, used by MonteCarloGenerator to
// sample around Nominal.
func (p ParameterVariation) WithSigma(sigma float64) ParameterVariation {
	p.Sigma, p.HasSigma = sigma, true
	return p
}

// SweepPointGenerator expands a set of ParameterVariations into the
// concrete SweepPoints a batched solve will stamp and solve.
type SweepPointGenerator interface {
	Generate(variations []ParameterVariation) []SweepPoint
}

// LinearSweepGenerator produces N linearly spaced points per bounded
// variation (N=1 repeats the nominal), taking the Cartesian product across
// multiple variations. An unbounded variation contributes its nominal value
// at every point instead of a sweep.
type LinearSweepGenerator struct {
	N int
}

// NewLinearSweepGenerator returns a generator producing n points per
// bounded variation.
func NewLinearSweepGenerator(n int) LinearSweepGenerator {
	return LinearSweepGenerator{N: n}
}

// Generate implements SweepPointGenerator.
func (g LinearSweepGenerator) Generate(variations []ParameterVariation) []SweepPoint {
	axes := make([][]float64, len(variations))
	for i, v := range variations {
		axes[i] = linearAxis(v, g.N)
	}

	return cartesianProduct(axes)
}

func linearAxis(v ParameterVariation, n int) []float64 {
	if !v.HasBounds || n <= 1 {
		return []float64{v.Nominal}
	}

	axis := make([]float64, n)
	step := (v.Max - v.Min) / float64(n-1)
	for i := 0; i < n; i++ {
		axis[i] = v.Min + step*float64(i)
	}

	return axis
}

// CornerGenerator produces the 2^k corner combinations of every bounded
// variation's Min/Max (unbounded variations contribute their nominal at
// every corner).
type CornerGenerator struct{}

// Generate implements SweepPointGenerator.
func (CornerGenerator) Generate(variations []ParameterVariation) []SweepPoint {
	axes := make([][]float64, len(variations))
	for i, v := range variations {
		if v.HasBounds {
			axes[i] = []float64{v.Min, v.Max}
		} else {
			axes[i] = []float64{v.Nominal}
		}
	}

	return cartesianProduct(axes)
}

func cartesianProduct(axes [][]float64) []SweepPoint {
	if len(axes) == 0 {
		return nil
	}

	total := 1
	for _, axis := range axes {
		total *= len(axis)
	}

	points := make([]SweepPoint, total)
	for i := range points {
		params := make([]float64, len(axes))
		rem := i
		for j := len(axes) - 1; j >= 0; j-- {
			axis := axes[j]
			params[j] = axis[rem%len(axis)]
			rem /= len(axis)
		}
		points[i] = SweepPoint{Parameters: params}
	}

	return points
}

// MonteCarloGenerator draws N independent samples per variation from a
// normal distribution centered on Nominal with standard deviation Sigma
// (variations without HasSigma contribute their nominal at every sample),
// optionally seeded for reproducibility.
type MonteCarloGenerator struct {
	N      int
	seed   int64
	seeded bool
}

// NewMonteCarloGenerator returns a generator producing n samples, seeded
// with the fixed seed 1 unless WithSeed overrides it, so an unseeded
// generator yields the same samples on every Generate call.
func NewMonteCarloGenerator(n int) MonteCarloGenerator {
	return MonteCarloGenerator{N: n}
}

// WithSeed fixes the generator's random source for reproducible sweeps.
func (g MonteCarloGenerator) WithSeed(seed int64) MonteCarloGenerator {
	g.seed, g.seeded = seed, true
	return g
}

// Generate implements SweepPointGenerator.
func (g MonteCarloGenerator) Generate(variations []ParameterVariation) []SweepPoint {
	src := rand.NewSource(g.seed)
	if !g.seeded {
		src = rand.NewSource(1)
	}
	rng := rand.New(src)

	points := make([]SweepPoint, g.N)
	for i := range points {
		params := make([]float64, len(variations))
		for j, v := range variations {
			if v.HasSigma {
				params[j] = v.Nominal + rng.NormFloat64()*v.Sigma
			} else {
				params[j] = v.Nominal
			}
		}
		points[i] = SweepPoint{Parameters: params}
	}

	return points
}

// SweepStamper stamps one sweep point's parameterised circuit into sys;
// implementations are expected to be purely linear (no companion or
// Newton-Raphson state), matching the batched-sweep engine's direct-solve
// contract.
type SweepStamper interface {
	NumNodes() int
	NumVSources() int
	StampLinear(sys *mna.System)
}

// SweepStamperFactory builds a SweepStamper for a given point's parameter
// vector, in the same order as the ParameterVariation slice passed to
// Generate.
type SweepStamperFactory interface {
	CreateStamper(parameters []float64) SweepStamper
}

// SweepStatistics summarises one node's voltage (or any sampled quantity)
// across every point in a batch.
type SweepStatistics struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// StatisticsFromSamples computes mean, population standard deviation, min,
// and max over samples. Returns the zero value for an empty input.
func StatisticsFromSamples(samples []float64) SweepStatistics {
	if len(samples) == 0 {
		return SweepStatistics{}
	}

	stats := SweepStatistics{Min: samples[0], Max: samples[0]}
	var sum float64
	for _, s := range samples {
		sum += s
		if s < stats.Min {
			stats.Min = s
		}
		if s > stats.Max {
			stats.Max = s
		}
	}
	stats.Mean = sum / float64(len(samples))

	var variance float64
	for _, s := range samples {
		d := s - stats.Mean
		variance += d * d
	}
	variance /= float64(len(samples))
	stats.StdDev = math.Sqrt(variance)

	return stats
}

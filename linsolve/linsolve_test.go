package linsolve_test

import (
	"errors"
	"testing"

	"github.com/rjwalters/spicier-go/errs"
	"github.com/rjwalters/spicier-go/linsolve"
	"github.com/rjwalters/spicier-go/mna"
	"github.com/stretchr/testify/require"
)

func TestSolveDense_VoltageDivider(t *testing.T) {
	t.Parallel()

	s := mna.NewSystem(2, 1)
	s.StampConductance(0, 1, 1e-3)
	s.StampConductance(1, mna.Ground, 1e-3)
	s.StampVoltageSource(0, mna.Ground, 0, 10.0)

	dense, err := s.ToDense()
	require.NoError(t, err)

	x, err := linsolve.SolveDense(dense, s.RHS())
	require.NoError(t, err)
	require.InDelta(t, 10.0, x[0], 1e-6)
	require.InDelta(t, 5.0, x[1], 1e-6)
}

func TestSolveDense_DimensionMismatch(t *testing.T) {
	t.Parallel()

	s := mna.NewSystem(2, 0)
	s.StampConductance(0, 1, 1.0)
	dense, err := s.ToDense()
	require.NoError(t, err)

	_, err = linsolve.SolveDense(dense, []float64{1.0})
	require.True(t, errors.Is(err, errs.ErrDimensionMismatch))
}

func TestSolveSparse_AgreesWithDense(t *testing.T) {
	t.Parallel()

	// Series R1=1k, R2=2k, R3=3k across 12V (scenario S3).
	s := mna.NewSystem(3, 1)
	s.StampConductance(0, 1, 1.0/1000)
	s.StampConductance(1, 2, 1.0/2000)
	s.StampConductance(2, mna.Ground, 1.0/3000)
	s.StampVoltageSource(0, mna.Ground, 0, 12.0)

	dense, err := s.ToDense()
	require.NoError(t, err)
	xDense, err := linsolve.SolveDense(dense, s.RHS())
	require.NoError(t, err)

	xSparse, err := linsolve.SolveSparse(s.Size(), s.Triplets(), s.RHS())
	require.NoError(t, err)

	for i := range xDense {
		require.InDelta(t, xDense[i], xSparse[i], 1e-9)
	}
	require.InDelta(t, 12.0, xDense[0], 1e-6)
	require.InDelta(t, 10.0, xDense[1], 1e-6)
	require.InDelta(t, 6.0, xDense[2], 1e-6)
}

func TestCachedSparseLU_MatchesFromScratch(t *testing.T) {
	t.Parallel()

	build := func(r float64) (*mna.System, []mna.Triplet, []float64) {
		s := mna.NewSystem(2, 1)
		s.StampConductance(0, 1, 1.0/r)
		s.StampConductance(1, mna.Ground, 1.0/1000)
		s.StampVoltageSource(0, mna.Ground, 0, 10.0)
		return s, s.Triplets(), s.RHS()
	}

	cache := linsolve.NewCachedSparseLU()

	_, t1, b1 := build(1000)
	x1, err := cache.Solve(3, t1, b1)
	require.NoError(t, err)

	_, t2, b2 := build(2000)
	x2, err := cache.Solve(3, t2, b2)
	require.NoError(t, err)

	xFresh, err := linsolve.SolveSparse(3, t2, b2)
	require.NoError(t, err)

	for i := range xFresh {
		require.InDelta(t, xFresh[i], x2[i], 1e-9)
	}
	require.NotEqual(t, x1[1], x2[1])
}

func TestCachedSparseLU_OrderMismatch(t *testing.T) {
	t.Parallel()

	cache := linsolve.NewCachedSparseLU()
	s := mna.NewSystem(2, 0)
	s.StampConductance(0, 1, 1.0)
	s.StampConductance(1, mna.Ground, 1.0)
	_, err := cache.Solve(2, s.Triplets(), []float64{0, 0})
	require.NoError(t, err)

	_, err = cache.Solve(3, s.Triplets(), []float64{0, 0, 0})
	require.Error(t, err)

	cache.ResetCache()
	_, err = cache.Solve(3, []mna.Triplet{{Row: 0, Col: 0, Value: 1}, {Row: 1, Col: 1, Value: 1}, {Row: 2, Col: 2, Value: 1}}, []float64{1, 1, 1})
	require.NoError(t, err)
}

func TestSolveComplexDense_DiagonalSystem(t *testing.T) {
	t.Parallel()

	// 2x2 diagonal complex system.
	a := []complex128{
		complex(2, 1), 0,
		0, complex(1, -1),
	}
	b := []complex128{complex(4, 2), complex(1, -1)}

	x, err := linsolve.SolveComplexDense(2, a, b)
	require.NoError(t, err)
	require.InDelta(t, 2.0, real(x[0]), 1e-9)
	require.InDelta(t, 0.0, imag(x[0]), 1e-9)
	require.InDelta(t, 1.0, real(x[1]), 1e-9)
	require.InDelta(t, 0.0, imag(x[1]), 1e-9)
}

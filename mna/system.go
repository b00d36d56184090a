// Package mna implements the in-memory Modified Nodal Analysis system: the
// triplet representation of A in `A x = b`, the stamping primitives devices
// use to contribute to it, and on-demand materialisation of the dense view.
//
// Node identity follows the ground convention: Ground (-1) is never
// allocated a row or column, and any stamp whose terminal equals Ground is
// silently skipped for that terminal. Rows/columns [0, NumNodes) are node
// voltages; [NumNodes, Size) are branch currents in insertion order.
package mna

import (
	"fmt"

	"github.com/rjwalters/spicier-go/errs"
	"github.com/rjwalters/spicier-go/matrix"
)

// Ground is the distinguished node that never owns a row or column.
const Ground = -1

// Triplet is a single additive contribution (row, col, value) to the real
// MNA matrix. Duplicates at the same (row, col) are summed semantically;
// solvers must accept duplicates rather than requiring pre-summed input.
type Triplet struct {
	Row   int
	Col   int
	Value float64
}

// System is a real-valued MNA system of order Size() = NumNodes + NumBranches.
type System struct {
	numNodes    int
	numBranches int
	triplets    []Triplet
	rhs         []float64
}

// NewSystem allocates a System for the given node and branch-current counts.
// The RHS is zero-initialized to Size() entries.
func NewSystem(numNodes, numBranches int) *System {
	return &System{
		numNodes:    numNodes,
		numBranches: numBranches,
		triplets:    nil,
		rhs:         make([]float64, numNodes+numBranches),
	}
}

// NumNodes returns the number of node-voltage unknowns (excluding ground).
func (s *System) NumNodes() int { return s.numNodes }

// NumBranches returns the number of branch-current unknowns.
func (s *System) NumBranches() int { return s.numBranches }

// Size returns the order n of the square system.
func (s *System) Size() int { return s.numNodes + s.numBranches }

// Triplets returns the raw triplet list accumulated so far. The slice is
// owned by System; callers must not mutate it.
func (s *System) Triplets() []Triplet { return s.triplets }

// RHS returns the right-hand side vector, length Size(). Callers may read
// and add to entries directly via StampCurrentSource/StampVoltageSource.
func (s *System) RHS() []float64 { return s.rhs }

// AddElement appends a raw triplet (row, col, value). Ground rows/columns
// are represented only by the caller omitting them; AddElement itself does
// not interpret Ground and will panic on out-of-range indices, so stamping
// primitives are the intended entry point for device code.
func (s *System) AddElement(row, col int, value float64) {
	if row < 0 || row >= s.Size() || col < 0 || col >= s.Size() {
		panic(fmt.Sprintf("mna: AddElement(%d,%d) out of range for size %d", row, col, s.Size()))
	}
	s.triplets = append(s.triplets, Triplet{Row: row, Col: col, Value: value})
}

// StampConductance adds g to [p,p] and [n,n], subtracts g from [p,n] and
// [n,p]. Either terminal may be Ground; stamps addressing Ground in both
// rows and columns for a given pair are silently skipped for that pair.
func (s *System) StampConductance(p, n int, g float64) {
	if p != Ground {
		s.AddElement(p, p, g)
	}
	if n != Ground {
		s.AddElement(n, n, g)
	}
	if p != Ground && n != Ground {
		s.AddElement(p, n, -g)
		s.AddElement(n, p, -g)
	}
}

// StampCurrentSource adds i to rhs[p] and subtracts i from rhs[n]; current
// flows from n to p. Ground terminals are skipped.
func (s *System) StampCurrentSource(p, n int, i float64) {
	if p != Ground {
		s.rhs[p] += i
	}
	if n != Ground {
		s.rhs[n] -= i
	}
}

// StampVoltageSource couples branch row NumNodes+k to nodes p, n with ±1
// and stamps v into rhs[NumNodes+k]. k must be a previously allocated
// branch index (the caller/netlist owns branch-index assignment).
func (s *System) StampVoltageSource(p, n, k int, v float64) {
	row := s.numNodes + k
	if p != Ground {
		s.AddElement(row, p, 1)
		s.AddElement(p, row, 1)
	}
	if n != Ground {
		s.AddElement(row, n, -1)
		s.AddElement(n, row, -1)
	}
	s.rhs[row] += v
}

// ToDense materialises an n×n dense matrix with duplicate triplets summed.
// Complexity: O(size^2 + len(triplets)).
func (s *System) ToDense() (*matrix.Dense, error) {
	n := s.Size()
	dense, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, errs.Wrap("mna: ToDense", err)
	}
	for _, t := range s.triplets {
		cur, err := dense.At(t.Row, t.Col)
		if err != nil {
			return nil, errs.Wrap("mna: ToDense", err)
		}
		if err := dense.Set(t.Row, t.Col, cur+t.Value); err != nil {
			return nil, errs.Wrap("mna: ToDense", err)
		}
	}

	return dense, nil
}

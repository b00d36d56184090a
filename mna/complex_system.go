package mna

import "github.com/rjwalters/spicier-go/errs"

// CTriplet is the complex analogue of Triplet, used by ComplexSystem for AC
// assembly (frequency-domain admittances).
type CTriplet struct {
	Row   int
	Col   int
	Value complex128
}

// ComplexSystem is the complex-valued MNA system used for AC analysis. It
// mirrors System but stamps admittances instead of conductances and carries
// a complex right-hand side.
type ComplexSystem struct {
	numNodes    int
	numBranches int
	triplets    []CTriplet
	rhs         []complex128
}

// NewComplexSystem allocates a ComplexSystem for the given node and
// branch-current counts.
func NewComplexSystem(numNodes, numBranches int) *ComplexSystem {
	return &ComplexSystem{
		numNodes:    numNodes,
		numBranches: numBranches,
		rhs:         make([]complex128, numNodes+numBranches),
	}
}

// NumNodes returns the number of node-voltage unknowns.
func (s *ComplexSystem) NumNodes() int { return s.numNodes }

// NumBranches returns the number of branch-current unknowns.
func (s *ComplexSystem) NumBranches() int { return s.numBranches }

// Size returns the order n of the square system.
func (s *ComplexSystem) Size() int { return s.numNodes + s.numBranches }

// Triplets returns the raw complex triplet list.
func (s *ComplexSystem) Triplets() []CTriplet { return s.triplets }

// RHS returns the complex right-hand side vector, length Size().
func (s *ComplexSystem) RHS() []complex128 { return s.rhs }

// AddElement appends a raw complex triplet.
func (s *ComplexSystem) AddElement(row, col int, value complex128) {
	if row < 0 || row >= s.Size() || col < 0 || col >= s.Size() {
		panic(errs.Wrap("mna: ComplexSystem.AddElement", errs.ErrDimensionMismatch).Error())
	}
	s.triplets = append(s.triplets, CTriplet{Row: row, Col: col, Value: value})
}

// StampAdmittance is the complex analogue of StampConductance: adds y to
// [p,p] and [n,n], subtracts y from [p,n] and [n,p]. Either terminal may be
// Ground.
func (s *ComplexSystem) StampAdmittance(p, n int, y complex128) {
	if p != Ground {
		s.AddElement(p, p, y)
	}
	if n != Ground {
		s.AddElement(n, n, y)
	}
	if p != Ground && n != Ground {
		s.AddElement(p, n, -y)
		s.AddElement(n, p, -y)
	}
}

// StampCurrentSource is the complex analogue, used for phasor current
// injections (e.g. independent AC current sources).
func (s *ComplexSystem) StampCurrentSource(p, n int, i complex128) {
	if p != Ground {
		s.rhs[p] += i
	}
	if n != Ground {
		s.rhs[n] -= i
	}
}

// StampVoltageSource is the complex analogue of System.StampVoltageSource.
func (s *ComplexSystem) StampVoltageSource(p, n, k int, v complex128) {
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

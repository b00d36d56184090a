package gmres

import "github.com/rjwalters/spicier-go/mna"

// RealOperator is the abstract A in A x = b: anything that can apply a
// matrix-vector product and report its order. GMRES never materialises a
// dense A, so large sparse systems never pay the O(n^2) dense cost.
type RealOperator interface {
	MatVec(x []float64) []float64
	Size() int
}

// ComplexOperator is the complex analogue of RealOperator.
type ComplexOperator interface {
	MatVec(x []complex128) []complex128
	Size() int
}

// TripletOperator adapts a real triplet list (as produced by mna.System) to
// RealOperator without ever materialising a dense matrix.
type TripletOperator struct {
	N        int
	Triplets []mna.Triplet
}

// MatVec computes A x by a single pass over the triplet list.
func (o *TripletOperator) MatVec(x []float64) []float64 {
	y := make([]float64, o.N)
	for _, t := range o.Triplets {
		y[t.Row] += t.Value * x[t.Col]
	}

	return y
}

// Size returns the system order.
func (o *TripletOperator) Size() int { return o.N }

// ComplexTripletOperator is the complex analogue of TripletOperator.
type ComplexTripletOperator struct {
	N        int
	Triplets []mna.CTriplet
}

// MatVec computes A x by a single pass over the complex triplet list.
func (o *ComplexTripletOperator) MatVec(x []complex128) []complex128 {
	y := make([]complex128, o.N)
	for _, t := range o.Triplets {
		y[t.Row] += t.Value * x[t.Col]
	}

	return y
}

// Size returns the system order.
func (o *ComplexTripletOperator) Size() int { return o.N }

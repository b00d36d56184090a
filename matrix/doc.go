// Package matrix provides the dense matrix primitive (the Matrix interface
// and its Dense implementation) and shape validators shared by the MNA
// assembly and linear-solver layers. It has no arithmetic or factorization
// kernels of its own.
//
// Dense is the only Matrix implementation in this module; the sparse CSC
// representation used by sparse LU lives in package linsolve and does not
// implement Matrix.
package matrix

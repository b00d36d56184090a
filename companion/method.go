// Package companion implements the per-timestep companion models that turn
// capacitors and inductors into an equivalent conductance G_eq plus an
// equivalent current source I_eq, stamped into the ordinary MNA system in
// place of the reactive element. Supported methods are Backward Euler,
// Trapezoidal, and the two stages of TR-BDF2 (trapezoidal over gamma*h,
// then a non-uniform BDF2 step over (1-gamma)*h).
package companion

import "math"

// Method selects which companion formulas Stamp/Update apply.
type Method int

const (
	// BackwardEuler is first-order, A-stable: G_eq = C/h.
	BackwardEuler Method = iota
	// Trapezoidal is second-order, A-stable: G_eq = 2C/h.
	Trapezoidal
	// TRBDF2Gamma is TR-BDF2's first stage: trapezoidal over gamma*h.
	TRBDF2Gamma
	// TRBDF2BDF2 is TR-BDF2's second stage: non-uniform BDF2 over (1-gamma)*h.
	TRBDF2BDF2
)

// Gamma is TR-BDF2's stage split, gamma = 2 - sqrt(2), chosen so the method
// is L-stable and second order.
var Gamma = 2 - math.Sqrt2

// bdf2Coefficients returns the non-uniform BDF2 coefficients for a TR-BDF2
// second stage taken over a full step h: h1 = gamma*h (the stage-1 step),
// h2 = (1-gamma)*h (the stage-2 step), rho = h2/h1.
//
//	alpha1 = (1+rho)^2 / (1+2*rho)
//	alpha2 = -rho^2 / (1+2*rho)
//	beta   = (1+rho) / (1+2*rho)
func bdf2Coefficients(h float64) (alpha1, alpha2, beta, h2 float64) {
	h1 := Gamma * h
	h2 = (1 - Gamma) * h
	rho := h2 / h1
	denom := 1 + 2*rho
	alpha1 = (1 + rho) * (1 + rho) / denom
	alpha2 = -rho * rho / denom
	beta = (1 + rho) / denom

	return alpha1, alpha2, beta, h2
}

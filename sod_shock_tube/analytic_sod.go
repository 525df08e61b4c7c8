package sod_shock_tube

import (
	"math"
)

// Standard Sod shock tube initial data on [0,1], diaphragm at 0.5
var (
	SodLeft  = GasState{Rho: 1, U: 0, P: 1}
	SodRight = GasState{Rho: 0.125, U: 0, P: 0.1}
)

const SodGamma = 1.4

// SodAt samples the analytic Sod solution at position x and time t > 0.
// The wave fan is: left state, rarefaction, contact, shock, right state.
func SodAt(x, t float64) (rho, p, u float64) {
	var (
		x0           = 0.5
		gamma        = SodGamma
		mu2          = (gamma - 1.) / (gamma + 1.)
		cL           = SodLeft.SoundSpeed(gamma)
		pPost, vPost = ExactStarRegion(SodLeft, SodRight, gamma)
		rhoPost      = SodRight.Rho * ((pPost / SodRight.P) + mu2) / (1. + mu2*(pPost/SodRight.P))
		rhoMiddle    = SodLeft.Rho * math.Pow(pPost/SodLeft.P, 1./gamma)
		vShock       = vPost * (rhoPost / SodRight.Rho) / ((rhoPost / SodRight.Rho) - 1.)
		x1           = x0 - cL*t
		c2           = cL - 0.5*(gamma-1.)*vPost
		x2           = x0 + t*(vPost-c2)
		x3           = x0 + vPost*t
		x4           = x0 + vShock*t
	)
	switch {
	case x < x1:
		rho, p, u = SodLeft.Rho, SodLeft.P, SodLeft.U
	case x <= x2:
		c := mu2*((x0-x)/t) + (1.-mu2)*cL
		rho = SodLeft.Rho * math.Pow(c/cL, 2./(gamma-1.))
		p = SodLeft.P * math.Pow(rho/SodLeft.Rho, gamma)
		u = (1. - mu2) * ((x-x0)/t + cL)
	case x <= x3:
		rho, p, u = rhoMiddle, pPost, vPost
	case x <= x4:
		rho, p, u = rhoPost, pPost, vPost
	default:
		rho, p, u = SodRight.Rho, SodRight.P, SodRight.U
	}
	return
}

// SOD_calc returns the analytic profile sampled at the wave breakpoints,
// suitable for line plotting against a computed solution
func SOD_calc(t float64) (X, Rho, P, U, E []float64) {
	var (
		xMin, xMax   = 0., 1.
		x0           = 0.5 * (xMax + xMin)
		gamma        = SodGamma
		cL           = SodLeft.SoundSpeed(gamma)
		pPost, vPost = ExactStarRegion(SodLeft, SodRight, gamma)
		rhoPost      = SodRight.Rho * ((pPost / SodRight.P) + (gamma-1.)/(gamma+1.)) /
			(1. + (gamma-1.)/(gamma+1.)*(pPost/SodRight.P))
		vShock = vPost * (rhoPost / SodRight.Rho) / ((rhoPost / SodRight.Rho) - 1.)
		x1     = x0 - cL*t
		c2     = cL - 0.5*(gamma-1.)*vPost
		x2     = x0 + t*(vPost-c2)
		x3     = x0 + vPost*t
		x4     = x0 + vShock*t
	)
	tol := 1.e-8
	X = []float64{
		xMin,
		x1 - tol, x1 + tol,
		x2 - tol, x2 + tol,
		x3 - tol, x3 + tol,
		x4 - tol, x4 + tol,
		xMax,
	}
	// The rarefaction fan is curved, sample its interior too
	var fan []float64
	for n := 1; n < 16; n++ {
		fan = append(fan, x1+(x2-x1)*float64(n)/16.)
	}
	X = append(X[:3:3], append(fan, X[3:]...)...)
	Rho = make([]float64, len(X))
	P = make([]float64, len(X))
	U = make([]float64, len(X))
	E = make([]float64, len(X))
	for i, x := range X {
		Rho[i], P[i], U[i] = SodAt(x, t)
		E[i] = P[i] / ((gamma - 1.) * Rho[i])
	}
	return
}

// IntegrateTrapezoid integrates sampled values u over the grid x
func IntegrateTrapezoid(x, u []float64) (result float64) {
	for i := 1; i < len(x); i++ {
		result += 0.5 * (u[i] + u[i-1]) * (x[i] - x[i-1])
	}
	return
}

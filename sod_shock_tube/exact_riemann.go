package sod_shock_tube

import (
	"math"
)

// GasState is one side of a gamma law Riemann problem
type GasState struct {
	Rho, U, P float64
}

func (s GasState) SoundSpeed(gamma float64) (a float64) {
	a = math.Sqrt(gamma * s.P / s.Rho)
	return
}

// pressureFunction is Toro's f_K(p): the velocity change across the K-side
// wave when the star pressure is p
func pressureFunction(p float64, s GasState, gamma float64) (f float64) {
	var (
		a = s.SoundSpeed(gamma)
	)
	if p > s.P {
		// Shock
		A := 2. / ((gamma + 1.) * s.Rho)
		B := (gamma - 1.) / (gamma + 1.) * s.P
		f = (p - s.P) * math.Sqrt(A/(p+B))
	} else {
		// Rarefaction
		z := (gamma - 1.) / (2. * gamma)
		f = 2. * a / (gamma - 1.) * (math.Pow(p/s.P, z) - 1.)
	}
	return
}

// ExactStarRegion solves the two-state Riemann problem exactly for the star
// pressure and velocity by bisection on the monotone pressure function.
func ExactStarRegion(left, right GasState, gamma float64) (pStar, uStar float64) {
	var (
		du = right.U - left.U
		f  = func(p float64) float64 {
			return pressureFunction(p, left, gamma) + pressureFunction(p, right, gamma) + du
		}
		pLo = 1.e-14
		pHi = math.Max(left.P, right.P)
	)
	for f(pHi) < 0 {
		pHi *= 2
	}
	for it := 0; it < 200; it++ {
		pStar = 0.5 * (pLo + pHi)
		if f(pStar) < 0 {
			pLo = pStar
		} else {
			pHi = pStar
		}
	}
	uStar = 0.5*(left.U+right.U) +
		0.5*(pressureFunction(pStar, right, gamma)-pressureFunction(pStar, left, gamma))
	return
}

// ExactMaxWaveSpeed returns the exact maximal signal speed of the two-state
// Riemann problem: the larger of the positive part of the fastest
// right-moving wave and the negative part of the fastest left-moving wave.
func ExactMaxWaveSpeed(left, right GasState, gamma float64) (lambdaMax float64) {
	var (
		pStar, _   = ExactStarRegion(left, right, gamma)
		aL         = left.SoundSpeed(gamma)
		aR         = right.SoundSpeed(gamma)
		speedLeft  float64
		speedRight float64
	)
	if pStar > left.P {
		// Left shock
		speedLeft = left.U - aL*math.Sqrt((gamma+1.)/(2.*gamma)*pStar/left.P+(gamma-1.)/(2.*gamma))
	} else {
		// Left rarefaction head
		speedLeft = left.U - aL
	}
	if pStar > right.P {
		speedRight = right.U + aR*math.Sqrt((gamma+1.)/(2.*gamma)*pStar/right.P+(gamma-1.)/(2.*gamma))
	} else {
		speedRight = right.U + aR
	}
	lambdaMax = math.Max(math.Max(speedRight, 0), math.Max(-speedLeft, 0))
	return
}

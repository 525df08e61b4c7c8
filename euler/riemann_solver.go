package euler

import (
	"math"

	"github.com/notargets/idflow/utils"
)

/*
	RiemannSolver produces a guaranteed upper bound on the maximal wavespeed
	of the two-state Riemann problem between two primitive states. The bound
	is cheap (closed form, no iteration) and rigorous: it may overestimate
	the exact signal speed but never underestimates it. It feeds both the
	graph viscosity d_ij and the CFL step size bound.

	Two shortcuts relative to the exact theory are intentional and must be
	preserved:

	 - The non-vacuum condition is assumed; a vacuum forming interaction
	   yields a more conservative (larger) bound instead of a dedicated
	   vacuum branch.

	 - The two-expansion-wave regime (p_star < p_min) is not detected. Any
	   candidate p2 <= p_min would produce the correct wavespeed there; a
	   candidate above p_min merely produces a more pessimistic bound.

	For a shared gamma-law gas with gamma <= 5/3 and zero covolume the
	two-rarefaction candidate pressure is itself a proven upper bound on the
	star pressure, so that tighter closed form is used. Otherwise the general
	estimate interpolates shock and rarefaction candidates through the
	decision functional phi(p_max).
*/
type RiemannSolver struct {
	h *HyperbolicSystem
	b float64 // covolume constant of the equation of state
}

func NewRiemannSolver(h *HyperbolicSystem) (rs *RiemannSolver) {
	rs = &RiemannSolver{
		h: h,
		b: h.EOS.Covolume(),
	}
	return
}

// alpha is the acoustic impedance term 2 a (1 - b rho) / (gamma - 1)
func (rs *RiemannSolver) alpha(rho, gamma, a float64) (al float64) {
	al = 2. * a * (1. - rs.b*rho) / (gamma - 1.)
	return
}

// cOfGamma interpolates the polytropic exponent proxy between the
// gamma <= 5/3 and gamma >= 3 regimes
func cOfGamma(gamma float64) (c float64) {
	switch {
	case gamma <= 5./3.:
		c = 1.
	case gamma >= 3.:
		c = 0.5 * math.Sqrt2
	default:
		c = math.Sqrt((3.*gamma + 11.) / (6. * (gamma + 1.)))
	}
	return
}

// pStarRS is the rarefaction-side closed form candidate for the star
// pressure. Replacing (p_star/p_max) by (p_min/p_max) inside the exact
// two-wave relation makes the result an upper bound for p_min <= p_star.
func (rs *RiemannSolver) pStarRS(left, right Primitive) (pStar float64) {
	var (
		alphaL = rs.alpha(left.Rho, left.Gamma, left.A)
		alphaR = rs.alpha(right.Rho, right.Gamma, right.A)

		pMin, pMax         = math.Min(left.P, right.P), math.Max(left.P, right.P)
		gammaMin, alphaMin = left.Gamma, alphaL
		gammaMax, alphaMax = right.Gamma, alphaR
	)
	// The min/max subscripts follow p, not the quantity itself
	if left.P >= right.P {
		gammaMin, alphaMin = right.Gamma, alphaR
		gammaMax, alphaMax = left.Gamma, alphaL
	}
	var (
		expMin    = 2. * gammaMin / (gammaMin - 1.)
		expMax    = (gammaMax - 1.) / (2. * gammaMax)
		numerator = alphaMax*(1.-math.Pow(pMin/pMax, expMax)) - (right.U - left.U)
		base      = numerator/(cOfGamma(gammaMin)*alphaMin) + 1.
	)
	if base <= 0 {
		// Vacuum forming interaction, any non-positive candidate gives the
		// acoustic wavespeeds
		return 0
	}
	pStar = pMin * math.Pow(base, expMin)
	return
}

// pStarSS is the shock-side closed form candidate for the star pressure
func (rs *RiemannSolver) pStarSS(left, right Primitive) (pStar float64) {
	var (
		gammaM    = math.Min(left.Gamma, right.Gamma)
		alphaHatL = cOfGamma(left.Gamma) * rs.alpha(left.Rho, left.Gamma, left.A)
		alphaHatR = cOfGamma(right.Gamma) * rs.alpha(right.Rho, right.Gamma, right.A)

		exp       = (gammaM - 1.) / (2. * gammaM)
		numerator = alphaHatL + alphaHatR - (right.U - left.U)
		denom     = alphaHatL*math.Pow(left.P, -exp) + alphaHatR*math.Pow(right.P, -exp)
		base      = numerator / denom
	)
	if base <= 0 {
		return 0
	}
	pStar = math.Pow(base, 1./exp)
	return
}

// pStarTwoRarefaction is the tight gamma-law candidate. For a shared
// gamma <= 5/3 it satisfies phi(pStar) >= 0, hence bounds the true star
// pressure from above.
func pStarTwoRarefaction(left, right Primitive) (pStar float64) {
	var (
		gamma     = left.Gamma
		z         = (gamma - 1.) / (2. * gamma)
		numerator = left.A + right.A - 0.5*(gamma-1.)*(right.U-left.U)
		denom     = left.A*math.Pow(left.P, -z) + right.A*math.Pow(right.P, -z)
		base      = numerator / denom
	)
	if base <= 0 {
		return 0
	}
	pStar = math.Pow(base, 1./z)
	return
}

// phiOfPMax is the relative-velocity mismatch implied by assuming both waves
// are shocks at the larger of the two pressures. phi is increasing in p and
// phi(pStar) = 0, so its sign at p_max locates the star pressure.
func (rs *RiemannSolver) phiOfPMax(left, right Primitive) (phi float64) {
	var (
		pMax = math.Max(left.P, right.P)
	)
	shockValue := func(s Primitive) (v float64) {
		radicandInverse := 0.5 * s.Rho / (1. - rs.b*s.Rho) *
			((s.Gamma+1.)*pMax + (s.Gamma-1.)*s.P)
		v = (pMax - s.P) / math.Sqrt(radicandInverse)
		return
	}
	phi = shockValue(left) + shockValue(right) + right.U - left.U
	return
}

// lambda1Minus bounds the left-moving extreme characteristic speed
func lambda1Minus(s Primitive, pStar float64) (lambda float64) {
	var (
		factor = 0.5 * (s.Gamma + 1.) / s.Gamma
		tmp    = utils.PositivePart((pStar - s.P) / s.P)
	)
	lambda = s.U - s.A*math.Sqrt(1.+factor*tmp)
	return
}

// lambda3Plus bounds the right-moving extreme characteristic speed
func lambda3Plus(s Primitive, pStar float64) (lambda float64) {
	var (
		factor = 0.5 * (s.Gamma + 1.) / s.Gamma
		tmp    = utils.PositivePart((pStar - s.P) / s.P)
	)
	lambda = s.U + s.A*math.Sqrt(1.+factor*tmp)
	return
}

func computeLambda(left, right Primitive, pStar float64) (lambdaMax float64) {
	var (
		nu11 = lambda1Minus(left, pStar)
		nu32 = lambda3Plus(right, pStar)
	)
	lambdaMax = math.Max(utils.PositivePart(nu32), utils.NegativePart(nu11))
	return
}

// ComputeMaxWaveSpeed returns the guaranteed maximal wavespeed bound for the
// Riemann problem with left state on the negative side of the interface.
func (rs *RiemannSolver) ComputeMaxWaveSpeed(left, right Primitive) (lambdaMax float64) {
	var (
		p2 float64
	)
	if left.Gamma == right.Gamma && left.Gamma <= 5./3. && rs.b == 0 {
		p2 = pStarTwoRarefaction(left, right)
	} else {
		var (
			pMax = math.Max(left.P, right.P)
		)
		if rs.phiOfPMax(left, right) < 0 {
			p2 = rs.pStarSS(left, right)
		} else {
			p2 = math.Min(pMax, rs.pStarRS(left, right))
		}
	}
	lambdaMax = computeLambda(left, right, p2)
	return
}

package euler

import (
	"math"

	"github.com/notargets/idflow/utils"
)

// Bounds is the local admissible interval for one node, taken over its
// stencil: density range and a specific-entropy minimum. GammaMin fixes the
// entropy surrogate exponent for the whole stencil.
type Bounds struct {
	RhoMin, RhoMax float64
	SMin           float64
	GammaMin       float64
}

/*
	Limiter computes the blending coefficient theta in [0,1] such that

		U = U_low + theta * P

	stays inside the local admissible interval for every bounded quantity.
	Density is affine in theta so its limit is closed form; the entropy
	minimum is enforced by a bounded bisection. theta = 0 (the pure
	low-order update) always satisfies the bounds.
*/
type Limiter struct {
	h *HyperbolicSystem

	scratch []float64
}

func NewLimiter(h *HyperbolicSystem) (l *Limiter) {
	l = &Limiter{
		h:       h,
		scratch: make([]float64, h.NumComponents()),
	}
	return
}

// entropySurrogate is sie * rho^(1-gamma), monotone equivalent to the
// physical specific entropy of a gamma law gas
func (h *HyperbolicSystem) entropySurrogate(U []float64, gamma float64) (s float64) {
	s = h.SpecificInternalEnergy(U) * math.Pow(U[0], 1.-gamma)
	return
}

// BoundsReset starts the stencil bounds from the node's own state
func (l *Limiter) BoundsReset(Ui []float64) (b Bounds) {
	var (
		h     = l.h
		rho   = Ui[0]
		gamma = h.EOS.EffectiveGamma(rho, h.SpecificInternalEnergy(Ui))
	)
	b = Bounds{
		RhoMin:   rho,
		RhoMax:   rho,
		GammaMin: gamma,
		SMin:     h.entropySurrogate(Ui, gamma),
	}
	return
}

// BoundsAccumulate widens the bounds with one stencil neighbor
func (l *Limiter) BoundsAccumulate(b *Bounds, Uj []float64) {
	var (
		h     = l.h
		rho   = Uj[0]
		gamma = h.EOS.EffectiveGamma(rho, h.SpecificInternalEnergy(Uj))
	)
	b.RhoMin = math.Min(b.RhoMin, rho)
	b.RhoMax = math.Max(b.RhoMax, rho)
	if gamma < b.GammaMin {
		b.GammaMin = gamma
		// The exponent changed, the entropy minimum is re-anchored on this
		// neighbor; the relaxation below absorbs the slack
	}
	b.SMin = math.Min(b.SMin, h.entropySurrogate(Uj, b.GammaMin))
}

const (
	// Relative relaxation of the bounds, absorbing round-off so that the
	// low-order update itself always passes
	boundsRelax = 1.e-12

	bisectionIterations = 24
)

// Limit returns the largest theta in [0,1] keeping low + theta*P inside b.
func (l *Limiter) Limit(b Bounds, low, P []float64) (theta float64) {
	var (
		h      = l.h
		rhoLow = low[0]
		relax  = boundsRelax * b.RhoMax
	)
	theta = 1.

	// Density is affine in theta: closed form
	switch {
	case P[0] > utils.NODETOL*b.RhoMax:
		theta = math.Min(theta, (b.RhoMax+relax-rhoLow)/P[0])
	case P[0] < -utils.NODETOL*b.RhoMax:
		theta = math.Min(theta, (b.RhoMin-relax-rhoLow)/P[0])
	}
	if theta < 0 {
		theta = 0
	}

	// Entropy minimum by bounded bisection on psi(theta), psi(0) >= 0 by
	// construction of the low-order update
	var (
		sMin = b.SMin - boundsRelax*math.Abs(b.SMin)
		psi  = func(th float64) (v float64) {
			for n := range low {
				l.scratch[n] = low[n] + th*P[n]
			}
			if l.scratch[0] <= 0 {
				return -1
			}
			v = h.entropySurrogate(l.scratch, b.GammaMin) - sMin
			return
		}
	)
	if psi(theta) >= 0 {
		return
	}
	if psi(0) < 0 {
		// Low-order update is already on the boundary, do not blend
		return 0
	}
	var (
		lo, hi = 0., theta
	)
	for it := 0; it < bisectionIterations; it++ {
		mid := 0.5 * (lo + hi)
		if psi(mid) >= 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	theta = lo
	return
}

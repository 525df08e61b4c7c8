package euler

/*
	Indicator produces the smoothness scalar alpha in [0,1] per node from an
	entropy-flux commutator over the stencil: the normalized mismatch between
	the divergence of the specific-entropy flux and its magnitude. Smooth
	regions give alpha near zero, shocks and strong gradients give alpha
	near one. alpha scales the high-order graph viscosity.

	Usage is accumulator style, one instance per worker: Reset(U_i), then
	Accumulate(U_j, c_ij) over the stencil, then Alpha().
*/
type Indicator struct {
	h *HyperbolicSystem

	qI, qJ   []float64 // entropy flux scratch
	num, den float64
}

func NewIndicator(h *HyperbolicSystem) (ind *Indicator) {
	ind = &Indicator{
		h:  h,
		qI: make([]float64, h.Dim),
		qJ: make([]float64, h.Dim),
	}
	return
}

// entropyFlux writes s(U) * m / rho * rho = s(U) * m into q, with
// s = sie * rho^(1-gamma) the specific entropy surrogate
func (ind *Indicator) entropyFlux(U, q []float64) {
	var (
		h   = ind.h
		rho = U[0]
		s   = h.entropySurrogate(U, h.EOS.EffectiveGamma(rho, h.SpecificInternalEnergy(U)))
	)
	for d, m := range h.Momentum(U) {
		q[d] = s * m
	}
}

func (ind *Indicator) Reset(Ui []float64) {
	ind.entropyFlux(Ui, ind.qI)
	ind.num, ind.den = 0, 0
}

func (ind *Indicator) Accumulate(Uj, cij []float64) {
	var (
		flowI, flowJ float64
	)
	ind.entropyFlux(Uj, ind.qJ)
	for d := 0; d < ind.h.Dim; d++ {
		flowI += cij[d] * ind.qI[d]
		flowJ += cij[d] * ind.qJ[d]
	}
	ind.num += flowJ - flowI
	ind.den += abs(flowJ) + abs(flowI)
}

func (ind *Indicator) Alpha() (alpha float64) {
	if ind.den <= 0 {
		return 0
	}
	alpha = abs(ind.num) / ind.den
	if alpha > 1 {
		alpha = 1
	}
	return
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

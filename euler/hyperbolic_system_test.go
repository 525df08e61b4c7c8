package euler

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/idflow/eos"
)

func newSystem1D(t *testing.T) (h *HyperbolicSystem) {
	g, err := eos.NewPolytropicGas(1.4)
	assert.NoError(t, err)
	h, err = NewHyperbolicSystem(1, g)
	assert.NoError(t, err)
	return
}

func TestConservedPrimitiveRoundTrip(t *testing.T) {
	var (
		h = newSystem1D(t)
	)
	for _, rho := range []float64{0.125, 1, 10} {
		for _, u := range []float64{-2, 0, 3} {
			for _, p := range []float64{0.1, 1, 100} {
				U := h.ConservedFromPrimitive(rho, []float64{u}, p)
				assert.InDelta(t, rho, h.Density(U), 1.e-14)
				assert.InDelta(t, rho*u, h.Momentum(U)[0], 1.e-13)
				assert.InEpsilon(t, p, h.Pressure(U), 1.e-12)
				pr := h.RiemannData(U, []float64{1})
				assert.InDelta(t, u, pr.U, 1.e-12)
				assert.InEpsilon(t, math.Sqrt(1.4*p/rho), pr.A, 1.e-12)
				assert.Equal(t, 1.4, pr.Gamma)
			}
		}
	}
}

func TestFluxDot(t *testing.T) {
	var (
		h = newSystem1D(t)
		U = h.ConservedFromPrimitive(2, []float64{3}, 5)
		f = make([]float64, 3)
	)
	// 1-D Euler flux: [m, m u + p, u (E + p)]
	h.FluxDot(U, []float64{1}, f)
	var (
		p = h.Pressure(U)
		E = h.Energy(U)
	)
	assert.InDelta(t, 6., f[0], 1.e-13)
	assert.InDelta(t, 6.*3.+p, f[1], 1.e-12)
	assert.InDelta(t, 3.*(E+p), f[2], 1.e-12)

	// Scaling by the coefficient is linear
	f2 := make([]float64, 3)
	h.FluxDot(U, []float64{-0.5}, f2)
	for n := range f {
		assert.InDelta(t, -0.5*f[n], f2[n], 1.e-12)
	}
}

func TestAdmissible(t *testing.T) {
	var (
		h = newSystem1D(t)
	)
	ok, _, _ := h.Admissible(h.ConservedFromPrimitive(1, []float64{0}, 1))
	assert.True(t, ok)

	ok, quantity, value := h.Admissible([]float64{-1, 0, 1})
	assert.False(t, ok)
	assert.Equal(t, "density", quantity)
	assert.Equal(t, -1., value)

	// Kinetic energy exceeding total energy means negative internal energy
	ok, quantity, _ = h.Admissible([]float64{1, 10, 1})
	assert.False(t, ok)
	assert.Equal(t, "internal energy", quantity)

	ok, _, _ = h.Admissible([]float64{1, math.NaN(), 1})
	assert.False(t, ok)
}

func TestIndicator(t *testing.T) {
	var (
		h   = newSystem1D(t)
		ind = NewIndicator(h)
		cR  = []float64{0.5}
		cL  = []float64{-0.5}
	)
	// Uniform data gives zero
	U := h.ConservedFromPrimitive(1, []float64{2}, 1)
	ind.Reset(U)
	ind.Accumulate(U, cR)
	ind.Accumulate(U, cL)
	assert.Equal(t, 0., ind.Alpha())

	// A moving entropy jump is flagged, and alpha stays in [0,1]
	ind.Reset(h.ConservedFromPrimitive(1, []float64{2}, 1))
	ind.Accumulate(h.ConservedFromPrimitive(0.125, []float64{2}, 0.1), cR)
	ind.Accumulate(h.ConservedFromPrimitive(1, []float64{2}, 1), cL)
	alpha := ind.Alpha()
	assert.True(t, alpha > 0.1)
	assert.True(t, alpha <= 1.)

	// Fuzzed stencils stay in range
	rnd := rand.New(rand.NewSource(1))
	for it := 0; it < 1000; it++ {
		ind.Reset(h.ConservedFromPrimitive(0.1+rnd.Float64(), []float64{2 * rnd.Float64()}, 0.1+rnd.Float64()))
		for j := 0; j < 4; j++ {
			ind.Accumulate(h.ConservedFromPrimitive(0.1+rnd.Float64(), []float64{2 * rnd.Float64()}, 0.1+rnd.Float64()),
				[]float64{rnd.Float64() - 0.5})
		}
		alpha = ind.Alpha()
		assert.True(t, alpha >= 0 && alpha <= 1)
	}
}

func TestLimiterSafety(t *testing.T) {
	var (
		h   = newSystem1D(t)
		lim = NewLimiter(h)
		rnd = rand.New(rand.NewSource(2))
	)
	for it := 0; it < 2000; it++ {
		var (
			stencil = make([][]float64, 5)
		)
		for j := range stencil {
			stencil[j] = h.ConservedFromPrimitive(
				0.1+rnd.Float64(), []float64{4*rnd.Float64() - 2}, 0.1+rnd.Float64())
		}
		b := lim.BoundsReset(stencil[0])
		for _, Uj := range stencil[1:] {
			lim.BoundsAccumulate(&b, Uj)
		}
		// The low-order state is one of the stencil members, hence inside
		// the bounds; P is an arbitrary update direction
		var (
			low = stencil[rnd.Intn(len(stencil))]
			P   = []float64{rnd.Float64() - 0.5, rnd.Float64() - 0.5, rnd.Float64() - 0.5}
		)
		theta := lim.Limit(b, low, P)
		assert.True(t, theta >= 0 && theta <= 1)

		blended := make([]float64, 3)
		for n := range blended {
			blended[n] = low[n] + theta*P[n]
		}
		var (
			relax = 1.e-9
		)
		assert.True(t, blended[0] >= b.RhoMin*(1-relax)-relax,
			"density %v below bound %v", blended[0], b.RhoMin)
		assert.True(t, blended[0] <= b.RhoMax*(1+relax)+relax,
			"density %v above bound %v", blended[0], b.RhoMax)
		if theta > 0 {
			s := h.entropySurrogate(blended, b.GammaMin)
			assert.True(t, s >= b.SMin-1.e-6*math.Abs(b.SMin)-1.e-9,
				"entropy %v below bound %v", s, b.SMin)
		}
	}
}

func TestLimiterIdempotenceFloor(t *testing.T) {
	var (
		h   = newSystem1D(t)
		lim = NewLimiter(h)
		U   = h.ConservedFromPrimitive(1, []float64{0}, 1)
	)
	b := lim.BoundsReset(U)
	// Zero update direction is never limited
	theta := lim.Limit(b, U, []float64{0, 0, 0})
	assert.Equal(t, 1., theta)
}

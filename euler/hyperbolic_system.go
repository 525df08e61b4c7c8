package euler

import (
	"fmt"
	"math"

	"github.com/notargets/idflow/eos"
)

/*
	HyperbolicSystem describes the compressible Euler equations closed by an
	EquationOfState. The conserved state at one node is the slice

		U = [rho, m_0 .. m_{Dim-1}, E]

	of length Dim+2. Primitive quantities are always recomputed on demand
	from U, never stored.
*/
type HyperbolicSystem struct {
	Dim int
	EOS eos.EquationOfState
}

func NewHyperbolicSystem(Dim int, EquationOfState eos.EquationOfState) (h *HyperbolicSystem, err error) {
	if Dim < 1 || Dim > 3 {
		err = fmt.Errorf("hyperbolic system: spatial dimension must be 1, 2 or 3, have %d", Dim)
		return
	}
	if EquationOfState == nil {
		err = fmt.Errorf("hyperbolic system: equation of state is required")
		return
	}
	h = &HyperbolicSystem{Dim: Dim, EOS: EquationOfState}
	return
}

func (h *HyperbolicSystem) NumComponents() (n int) {
	n = h.Dim + 2
	return
}

func (h *HyperbolicSystem) Density(U []float64) (rho float64) {
	rho = U[0]
	return
}

func (h *HyperbolicSystem) Momentum(U []float64) (m []float64) {
	m = U[1 : 1+h.Dim]
	return
}

func (h *HyperbolicSystem) Energy(U []float64) (E float64) {
	E = U[1+h.Dim]
	return
}

// SpecificInternalEnergy is E/rho - |u|^2/2
func (h *HyperbolicSystem) SpecificInternalEnergy(U []float64) (sie float64) {
	var (
		rho = U[0]
		q   float64
	)
	for _, m := range h.Momentum(U) {
		q += m * m
	}
	sie = h.Energy(U)/rho - 0.5*q/(rho*rho)
	return
}

func (h *HyperbolicSystem) Pressure(U []float64) (p float64) {
	p = h.EOS.Pressure(U[0], h.SpecificInternalEnergy(U))
	return
}

func (h *HyperbolicSystem) SoundSpeed(U []float64) (a float64) {
	a = h.EOS.SoundSpeed(U[0], h.Pressure(U))
	return
}

// Admissible reports whether U lies in the invariant domain: positive
// density and non-negative internal energy. On violation it names the
// offending quantity and its value for diagnostics.
func (h *HyperbolicSystem) Admissible(U []float64) (ok bool, quantity string, value float64) {
	var (
		rho = U[0]
	)
	if !(rho > 0) || math.IsNaN(rho) {
		return false, "density", rho
	}
	sie := h.SpecificInternalEnergy(U)
	if sie < 0 || math.IsNaN(sie) {
		return false, "internal energy", sie
	}
	return true, "", 0
}

// FluxDot writes c . f(U) into out, where f is the Euler flux tensor and c a
// geometric coefficient vector. This is the only flux form the graph update
// needs, so the full tensor is never materialized.
func (h *HyperbolicSystem) FluxDot(U, c, out []float64) {
	var (
		rho = U[0]
		m   = h.Momentum(U)
		E   = h.Energy(U)
		p   = h.Pressure(U)
		cu  float64 // c . velocity
	)
	for d := 0; d < h.Dim; d++ {
		cu += c[d] * m[d] / rho
	}
	out[0] = 0
	for d := 0; d < h.Dim; d++ {
		out[0] += c[d] * m[d]
		out[1+d] = cu*m[d] + c[d]*p
	}
	out[1+h.Dim] = cu * (E + p)
}

// Primitive is the projected two-state Riemann data (rho, u, p, gamma, a)
// with u the velocity component along the interface normal.
type Primitive struct {
	Rho, U, P, Gamma, A float64
}

// RiemannData projects U onto the unit normal n and derives the primitive
// tuple consumed by the RiemannSolver.
func (h *HyperbolicSystem) RiemannData(U, n []float64) (pr Primitive) {
	var (
		rho = U[0]
		m   = h.Momentum(U)
		sie = h.SpecificInternalEnergy(U)
		un  float64
	)
	for d := 0; d < h.Dim; d++ {
		un += n[d] * m[d] / rho
	}
	pr.Rho = rho
	pr.U = un
	pr.P = h.EOS.Pressure(rho, sie)
	pr.Gamma = h.EOS.EffectiveGamma(rho, sie)
	pr.A = h.EOS.SoundSpeed(rho, pr.P)
	return
}

// ConservedFromPrimitive assembles a conserved state from density, velocity
// and pressure, used for initial and boundary conditions.
func (h *HyperbolicSystem) ConservedFromPrimitive(rho float64, u []float64, p float64) (U []float64) {
	var (
		sie = h.EOS.SpecificInternalEnergy(rho, p)
		q   float64
	)
	U = make([]float64, h.NumComponents())
	U[0] = rho
	for d := 0; d < h.Dim; d++ {
		U[1+d] = rho * u[d]
		q += u[d] * u[d]
	}
	U[1+h.Dim] = rho*sie + 0.5*rho*q
	return
}

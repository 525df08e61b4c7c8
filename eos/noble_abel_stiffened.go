package eos

import (
	"fmt"
	"math"
)

// NobleAbelStiffenedGas is the covolume (Noble-Abel) stiffened gas:
//
//	p = (gamma - 1) rho (e - q) / (1 - b rho) - gamma pInf
//
// b is the covolume constant, q the reference specific internal energy and
// pInf the reference (stiffening) pressure. b = q = pInf = 0 recovers the
// polytropic gas.
type NobleAbelStiffenedGas struct {
	Gamma float64
	B     float64 // covolume b
	Q     float64 // reference sie q
	PInf  float64 // reference pressure p infinity
}

func NewNobleAbelStiffenedGas(Gamma, B, Q, PInf float64) (g *NobleAbelStiffenedGas, err error) {
	switch {
	case Gamma <= 1.:
		err = fmt.Errorf("noble-abel stiffened gas: gamma must be > 1, have %v", Gamma)
	case B < 0.:
		err = fmt.Errorf("noble-abel stiffened gas: covolume b must be >= 0, have %v", B)
	case PInf < 0.:
		err = fmt.Errorf("noble-abel stiffened gas: reference pressure must be >= 0, have %v", PInf)
	}
	if err != nil {
		return
	}
	g = &NobleAbelStiffenedGas{Gamma: Gamma, B: B, Q: Q, PInf: PInf}
	return
}

func (g *NobleAbelStiffenedGas) Name() string { return "noble-abel stiffened gas" }

func (g *NobleAbelStiffenedGas) Pressure(rho, sie float64) (p float64) {
	var (
		cov = 1. - g.B*rho
	)
	p = (g.Gamma-1.)*rho*(sie-g.Q)/cov - g.Gamma*g.PInf
	return
}

func (g *NobleAbelStiffenedGas) SpecificInternalEnergy(rho, p float64) (sie float64) {
	var (
		cov = 1. - g.B*rho
	)
	sie = (p+g.Gamma*g.PInf)*cov/(rho*(g.Gamma-1.)) + g.Q
	return
}

func (g *NobleAbelStiffenedGas) EffectiveGamma(rho, sie float64) (gamma float64) {
	gamma = g.Gamma
	return
}

func (g *NobleAbelStiffenedGas) SoundSpeed(rho, p float64) (a float64) {
	var (
		cov = 1. - g.B*rho
	)
	a = math.Sqrt(g.Gamma * (p + g.PInf) / (rho * cov))
	return
}

func (g *NobleAbelStiffenedGas) Covolume() (b float64) { return g.B }

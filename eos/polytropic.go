package eos

import (
	"fmt"
	"math"
)

// PolytropicGas is the calorically perfect (gamma law) gas:
//
//	p = (gamma - 1) rho e
type PolytropicGas struct {
	Gamma float64
}

func NewPolytropicGas(Gamma float64) (g *PolytropicGas, err error) {
	if Gamma <= 1. {
		err = fmt.Errorf("polytropic gas: gamma must be > 1, have %v", Gamma)
		return
	}
	g = &PolytropicGas{Gamma: Gamma}
	return
}

func (g *PolytropicGas) Name() string { return "polytropic gas" }

func (g *PolytropicGas) Pressure(rho, sie float64) (p float64) {
	p = (g.Gamma - 1.) * rho * sie
	return
}

func (g *PolytropicGas) SpecificInternalEnergy(rho, p float64) (sie float64) {
	sie = p / (rho * (g.Gamma - 1.))
	return
}

func (g *PolytropicGas) EffectiveGamma(rho, sie float64) (gamma float64) {
	gamma = g.Gamma
	return
}

func (g *PolytropicGas) SoundSpeed(rho, p float64) (a float64) {
	a = math.Sqrt(g.Gamma * p / rho)
	return
}

func (g *PolytropicGas) Covolume() (b float64) { return 0 }

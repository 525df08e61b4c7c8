package sod_shock_tube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStarRegion(t *testing.T) {
	// Published values for Sod's problem (Toro, Table 4.2)
	pStar, uStar := ExactStarRegion(SodLeft, SodRight, SodGamma)
	assert.InEpsilon(t, 0.30313, pStar, 1.e-4)
	assert.InEpsilon(t, 0.92745, uStar, 1.e-4)
}

func TestExactMaxWaveSpeed(t *testing.T) {
	// The fastest Sod signal is the right-running shock; its speed from the
	// jump conditions must agree with the post-state mass balance
	var (
		gamma        = SodGamma
		mu2          = (gamma - 1.) / (gamma + 1.)
		pPost, vPost = ExactStarRegion(SodLeft, SodRight, gamma)
		rhoPost      = SodRight.Rho * ((pPost / SodRight.P) + mu2) / (1. + mu2*(pPost/SodRight.P))
		vShock       = vPost * (rhoPost / SodRight.Rho) / ((rhoPost / SodRight.Rho) - 1.)
	)
	lambda := ExactMaxWaveSpeed(SodLeft, SodRight, gamma)
	assert.InEpsilon(t, vShock, lambda, 1.e-8)

	// Symmetric expansion: both heads move at |u| + a of the outer states
	l := GasState{Rho: 1, U: -0.1, P: 1}
	r := GasState{Rho: 1, U: 0.1, P: 1}
	a := l.SoundSpeed(gamma)
	assert.InEpsilon(t, 0.1+a, ExactMaxWaveSpeed(l, r, gamma), 1.e-8)
}

func TestSodProfile(t *testing.T) {
	var (
		X, Rho, P, U, E = SOD_calc(0.2)
	)
	// Outer states untouched at t = 0.2
	assert.Equal(t, SodLeft.Rho, Rho[0])
	assert.Equal(t, SodLeft.P, P[0])
	assert.Equal(t, SodRight.Rho, Rho[len(Rho)-1])
	assert.Equal(t, SodRight.P, P[len(P)-1])

	// Density is monotone decreasing left to right for Sod
	for i := 1; i < len(Rho); i++ {
		assert.True(t, Rho[i] <= Rho[i-1]+1.e-10, "density not monotone at %d", i)
	}
	// Velocity is non-negative everywhere and e = p/((gamma-1) rho)
	for i := range X {
		assert.True(t, U[i] >= -1.e-10)
		assert.InDelta(t, P[i]/((SodGamma-1.)*Rho[i]), E[i], 1.e-12)
	}
	// Shock position at t=0.2 is near x = 0.85
	assert.InDelta(t, 0.85, X[len(X)-2], 0.01)
}

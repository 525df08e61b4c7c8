package eos

import (
	"fmt"
	"math"
	"sort"
)

// TabulatedGas is the general oracle gas: pressure is given by a sampled
// table over a (rho, sie) grid and interpolated bilinearly. The inverse
// oracle exploits that interpolated pressure is piecewise linear in sie at
// fixed density, so the round trip is exact up to floating point inside the
// tabulated range.
//
// The table must be strictly increasing in sie at every density sample -
// that monotonicity is what makes the pressure invertible and is checked at
// construction.
type TabulatedGas struct {
	TableName        string
	RhoGrid, SieGrid []float64
	P                [][]float64 // P[i][j] = p(RhoGrid[i], SieGrid[j])
}

func NewTabulatedGas(name string, rhoGrid, sieGrid []float64, p [][]float64) (g *TabulatedGas, err error) {
	if len(rhoGrid) < 2 || len(sieGrid) < 2 {
		err = fmt.Errorf("tabulated gas %s: need at least 2x2 samples, have %dx%d",
			name, len(rhoGrid), len(sieGrid))
		return
	}
	if len(p) != len(rhoGrid) {
		err = fmt.Errorf("tabulated gas %s: table has %d density rows, grid has %d",
			name, len(p), len(rhoGrid))
		return
	}
	for i, rho := range rhoGrid {
		if rho <= 0 {
			err = fmt.Errorf("tabulated gas %s: density sample %d is non-positive: %v", name, i, rho)
			return
		}
		if i > 0 && rhoGrid[i] <= rhoGrid[i-1] {
			err = fmt.Errorf("tabulated gas %s: density grid not strictly increasing at %d", name, i)
			return
		}
		if len(p[i]) != len(sieGrid) {
			err = fmt.Errorf("tabulated gas %s: row %d has %d samples, sie grid has %d",
				name, i, len(p[i]), len(sieGrid))
			return
		}
	}
	for j, sie := range sieGrid {
		if sie < 0 {
			err = fmt.Errorf("tabulated gas %s: sie sample %d is negative: %v", name, j, sie)
			return
		}
		if j > 0 && sieGrid[j] <= sieGrid[j-1] {
			err = fmt.Errorf("tabulated gas %s: sie grid not strictly increasing at %d", name, j)
			return
		}
	}
	for i := range rhoGrid {
		for j := 1; j < len(sieGrid); j++ {
			if p[i][j] <= p[i][j-1] {
				err = fmt.Errorf("tabulated gas %s: pressure not strictly increasing in sie at row %d, col %d",
					name, i, j)
				return
			}
		}
	}
	g = &TabulatedGas{TableName: name, RhoGrid: rhoGrid, SieGrid: sieGrid, P: p}
	return
}

func (g *TabulatedGas) Name() string { return "tabulated gas: " + g.TableName }

// segment returns the interpolation interval [i, i+1] bracketing x, clamped
// to the grid so that out of range queries extrapolate on the edge segment
func segment(grid []float64, x float64) (i int) {
	i = sort.SearchFloat64s(grid, x) - 1
	if i < 0 {
		i = 0
	}
	if i > len(grid)-2 {
		i = len(grid) - 2
	}
	return
}

// pOfSie interpolates the table in the density direction, yielding the
// piecewise linear pressure curve p(sie) at fixed rho evaluated at sie node j
func (g *TabulatedGas) pOfSie(i int, wRho float64, j int) (p float64) {
	p = (1.-wRho)*g.P[i][j] + wRho*g.P[i+1][j]
	return
}

func (g *TabulatedGas) Pressure(rho, sie float64) (p float64) {
	var (
		i    = segment(g.RhoGrid, rho)
		j    = segment(g.SieGrid, sie)
		wRho = (rho - g.RhoGrid[i]) / (g.RhoGrid[i+1] - g.RhoGrid[i])
		wSie = (sie - g.SieGrid[j]) / (g.SieGrid[j+1] - g.SieGrid[j])
	)
	p = (1.-wSie)*g.pOfSie(i, wRho, j) + wSie*g.pOfSie(i, wRho, j+1)
	return
}

func (g *TabulatedGas) SpecificInternalEnergy(rho, p float64) (sie float64) {
	var (
		i    = segment(g.RhoGrid, rho)
		wRho = (rho - g.RhoGrid[i]) / (g.RhoGrid[i+1] - g.RhoGrid[i])
		nSie = len(g.SieGrid)
	)
	// Binary search on the monotone pressure curve, then invert the linear
	// segment exactly
	lo, hi := 0, nSie-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if g.pOfSie(i, wRho, mid) <= p {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	var (
		p0 = g.pOfSie(i, wRho, lo)
		p1 = g.pOfSie(i, wRho, lo+1)
		w  = (p - p0) / (p1 - p0)
	)
	sie = (1.-w)*g.SieGrid[lo] + w*g.SieGrid[lo+1]
	return
}

func (g *TabulatedGas) EffectiveGamma(rho, sie float64) (gamma float64) {
	// Gruneisen-style proxy, consistent with the closed form gases when the
	// table is sampled from one
	var (
		p = g.Pressure(rho, sie)
	)
	gamma = 1. + p/(rho*sie)
	if math.IsNaN(gamma) || gamma <= 1. {
		gamma = 1. + 1.e-14
	}
	return
}

func (g *TabulatedGas) SoundSpeed(rho, p float64) (a float64) {
	var (
		sie   = g.SpecificInternalEnergy(rho, p)
		gamma = g.EffectiveGamma(rho, sie)
	)
	a = math.Sqrt(gamma * p / rho)
	return
}

func (g *TabulatedGas) Covolume() (b float64) { return 0 }

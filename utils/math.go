package utils

import (
	"math"
)

const (
	NODETOL = 1.e-12
)

// POW is an integer power with explicit multiplies for the small exponents
// used in the flux and wavespeed formulas
func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 4 || pp < -4 {
		return math.Pow(x, float64(pp))
	}
	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	}
	if flipped {
		y = 1. / y
	}
	return
}

func PositivePart(x float64) (y float64) {
	y = 0.5 * (math.Abs(x) + x)
	return
}

func NegativePart(x float64) (y float64) {
	y = 0.5 * (math.Abs(x) - x)
	return
}

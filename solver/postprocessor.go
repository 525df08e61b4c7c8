package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/idflow/euler"
)

/*
	Schlieren computes the exponentially scaled density gradient magnitude

		r_i = exp(-beta * (|grad rho|_i - gMin) / (gMax - gMin))

	so that smooth regions map to 1 and the sharpest feature maps to
	exp(-beta). The nodal gradient is recovered from the stencil,

		grad rho_i = 1/m_i * Sum_j c_ij (rho_j - rho_i)
*/
func (hm *HyperbolicModule) Schlieren(U *euler.StateField, beta float64) (r []float64) {
	var (
		g = hm.Graph
	)
	r = make([]float64, g.NumNodes)
	hm.parallel(func(np, iMin, iMax int) {
		var (
			grad = make([]float64, g.Dim)
		)
		for i := iMin; i < iMax; i++ {
			var (
				rhoI = U.At(i)[0]
			)
			for d := range grad {
				grad[d] = 0
			}
			g.ForEachNeighbor(i, func(j int, cij []float64) {
				drho := U.At(j)[0] - rhoI
				for d := range grad {
					grad[d] += cij[d] * drho
				}
			})
			r[i] = floats.Norm(grad, 2) / g.Mass[i]
		}
	})
	var (
		gMin, gMax = floats.Min(r), floats.Max(r)
	)
	if gMax-gMin < 1.e-300 {
		for i := range r {
			r[i] = 1
		}
		return
	}
	for i := range r {
		r[i] = math.Exp(-beta * (r[i] - gMin) / (gMax - gMin))
	}
	return
}

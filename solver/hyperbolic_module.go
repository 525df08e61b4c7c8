package solver

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/idflow/euler"
	"github.com/notargets/idflow/mesh"
	"github.com/notargets/idflow/utils"
)

/*
	HyperbolicModule performs one forward Euler sub-step of the graph
	viscosity discretization

		m_i U_i' = m_i U_i - tau * Sum_j c_ij . (f(U_j) + f(U_i))
		                   + tau * Sum_j d_ij (U_j - U_i)

	where d_ij = lambda_max(U_i, U_j, n_ij) |c_ij| is the low order graph
	viscosity. The high order update replaces d_ij with
	max(alpha_i, alpha_j) d_ij using the entropy commutator indicator, and
	the convex limiter blends the two so the result stays inside the local
	invariant domain bounds.

	The node loops are sharded across goroutines using a PartitionMap, same
	layout in every phase so each worker touches a fixed slab of nodes and
	its adjacency slots without locking.
*/
type HyperbolicModule struct {
	H     *euler.HyperbolicSystem
	RS    *euler.RiemannSolver
	Graph *mesh.Graph

	NPar int
	pm   *utils.PartitionMap

	// Per adjacency slot scratch, symmetrized viscosity in dSym
	dRaw, dSym []float64
	rev        []int // transpose adjacency slot per slot
	alpha      []float64
	dSum       []float64

	workers []*workerScratch

	// Fixed states for dirichlet boundary nodes, captured by Prepare
	dirichlet map[int][]float64
}

type workerScratch struct {
	ind     *euler.Indicator
	lim     *euler.Limiter
	n       []float64 // unit normal
	fi, fj  []float64 // flux contractions
	low, P  []float64
	tauPart float64
	err     error
}

func NewHyperbolicModule(h *euler.HyperbolicSystem, g *mesh.Graph,
	nPar int) (hm *HyperbolicModule, err error) {
	if h.Dim != g.Dim {
		err = fmt.Errorf("system dimension %d does not match mesh dimension %d",
			h.Dim, g.Dim)
		return
	}
	if nPar < 1 {
		nPar = 1
	}
	if nPar > g.NumNodes {
		nPar = g.NumNodes
	}
	hm = &HyperbolicModule{
		H:     h,
		RS:    euler.NewRiemannSolver(h),
		Graph: g,
		NPar:  nPar,
		pm:    utils.NewPartitionMap(nPar, g.NumNodes),
		dRaw:  make([]float64, g.NumEdges()),
		dSym:  make([]float64, g.NumEdges()),
		alpha: make([]float64, g.NumNodes),
		dSum:  make([]float64, g.NumNodes),
	}
	hm.workers = make([]*workerScratch, nPar)
	for np := 0; np < nPar; np++ {
		hm.workers[np] = &workerScratch{
			ind: euler.NewIndicator(h),
			lim: euler.NewLimiter(h),
			n:   make([]float64, g.Dim),
			fi:  make([]float64, h.NumComponents()),
			fj:  make([]float64, h.NumComponents()),
			low: make([]float64, h.NumComponents()),
			P:   make([]float64, h.NumComponents()),
		}
	}
	if err = hm.buildTransposeSlots(); err != nil {
		hm = nil
		return
	}
	return
}

// buildTransposeSlots records, for every adjacency slot (i,j), the slot of
// the reverse edge (j,i). The line between d_ij and d_ji is the max of both
// orientations, which keeps the viscosity flux conservative. The stencil
// must be structurally symmetric, every edge needs its reverse in the
// sparsity pattern, or the pairing would be wrong.
func (hm *HyperbolicModule) buildTransposeSlots() (err error) {
	var (
		g = hm.Graph
	)
	hm.rev = make([]int, g.NumEdges())
	for i := 0; i < g.NumNodes; i++ {
		g.ForEachEdge(i, func(slot, j int, _ []float64) {
			found := false
			g.ForEachEdge(j, func(slotT, jj int, _ []float64) {
				if jj == i {
					hm.rev[slot] = slotT
					found = true
				}
			})
			if !found && err == nil {
				err = fmt.Errorf(
					"stencil not structurally symmetric: node %d lists neighbor %d but not the reverse",
					i, j)
			}
		})
	}
	return
}

// Prepare captures the dirichlet boundary states from the initial condition.
// Must be called once before stepping.
func (hm *HyperbolicModule) Prepare(U0 *euler.StateField) {
	hm.dirichlet = make(map[int][]float64)
	for _, bn := range hm.Graph.BoundaryNodes() {
		if bn.Type == mesh.BC_Dirichlet {
			var (
				fixed = make([]float64, hm.H.NumComponents())
			)
			copy(fixed, U0.At(bn.Index))
			hm.dirichlet[bn.Index] = fixed
		}
	}
}

// parallel runs work(np, iMin, iMax) on every partition concurrently
func (hm *HyperbolicModule) parallel(work func(np, iMin, iMax int)) {
	var (
		wg = sync.WaitGroup{}
	)
	for np := 0; np < hm.NPar; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			iMin, iMax := hm.pm.GetBucketRange(np)
			work(np, iMin, iMax)
		}(np)
	}
	wg.Wait()
}

/*
	EulerStep advances U by one forward Euler sub-step into Unext.

	When tauIn <= 0 the step size is chosen as cfl * tauMax from the
	viscosity assembled on U. When tauIn > 0 that step size is used
	instead, and a CFLViolationError is returned if it exceeds
	cfl * tauMax for the current state. Unext is fully computed even then,
	so the caller's recovery policy decides between discarding the stage
	and proceeding best effort. A CFL violation takes precedence over an
	inadmissible node in the returned error. Either way tau and tauMax are
	reported back so multi stage schemes can reuse the first stage's tau.
*/
func (hm *HyperbolicModule) EulerStep(U, Unext *euler.StateField,
	tauIn, cfl float64, stage int) (tau, tauMax float64, err error) {
	var (
		g = hm.Graph
		h = hm.H
	)

	// Phase (a): wavespeed estimates per edge, indicator per node
	hm.parallel(func(np, iMin, iMax int) {
		var (
			w = hm.workers[np]
		)
		for i := iMin; i < iMax; i++ {
			var (
				Ui = U.At(i)
			)
			w.ind.Reset(Ui)
			g.ForEachEdge(i, func(slot, j int, cij []float64) {
				var (
					Uj   = U.At(j)
					norm = floats.Norm(cij, 2)
				)
				for d := range cij {
					w.n[d] = cij[d] / norm
				}
				lambda := hm.RS.ComputeMaxWaveSpeed(
					h.RiemannData(Ui, w.n), h.RiemannData(Uj, w.n))
				hm.dRaw[slot] = lambda * norm
				w.ind.Accumulate(Uj, cij)
			})
			hm.alpha[i] = w.ind.Alpha()
		}
	})

	// Symmetrize the viscosity and reduce the admissible step size
	hm.parallel(func(np, iMin, iMax int) {
		var (
			w = hm.workers[np]
		)
		w.tauPart = math.MaxFloat64
		for i := iMin; i < iMax; i++ {
			var (
				sum float64
			)
			g.ForEachEdge(i, func(slot, _ int, _ []float64) {
				hm.dSym[slot] = math.Max(hm.dRaw[slot], hm.dRaw[hm.rev[slot]])
				sum += hm.dSym[slot]
			})
			hm.dSum[i] = sum
			if sum > 0 {
				w.tauPart = math.Min(w.tauPart, g.Mass[i]/(2*sum))
			}
		}
	})
	var (
		partials = make([]float64, hm.NPar)
	)
	for np, w := range hm.workers {
		partials[np] = w.tauPart
	}
	tauMax = floats.Min(partials)

	tau = tauIn
	var (
		cflErr error
	)
	if tauIn <= 0 {
		tau = cfl * tauMax
	} else if tauIn > cfl*tauMax*(1+utils.NODETOL) {
		cflErr = &CFLViolationError{Tau: tauIn, TauMax: tauMax, CFL: cfl, Stage: stage}
	}

	// Phase (b): low order update, limited high order correction
	hm.parallel(func(np, iMin, iMax int) {
		var (
			w = hm.workers[np]
		)
		for i := iMin; i < iMax; i++ {
			var (
				Ui       = U.At(i)
				tauOverM = tau / g.Mass[i]
			)
			copy(w.low, Ui)
			for n := range w.P {
				w.P[n] = 0
			}
			b := w.lim.BoundsReset(Ui)
			g.ForEachEdge(i, func(slot, j int, cij []float64) {
				var (
					Uj = U.At(j)
					d  = hm.dSym[slot]
					dH = math.Max(hm.alpha[i], hm.alpha[j]) * d
				)
				h.FluxDot(Ui, cij, w.fi)
				h.FluxDot(Uj, cij, w.fj)
				for n := range w.low {
					w.low[n] += tauOverM * (d*(Uj[n]-Ui[n]) - w.fi[n] - w.fj[n])
					w.P[n] += tauOverM * (dH - d) * (Uj[n] - Ui[n])
				}
				w.lim.BoundsAccumulate(&b, Uj)
			})
			theta := w.lim.Limit(b, w.low, w.P)
			var (
				out = Unext.At(i)
			)
			for n := range w.low {
				out[n] = w.low[n] + theta*w.P[n]
			}
			if ok, quantity, value := h.Admissible(out); !ok && w.err == nil {
				w.err = &InadmissibleStateError{
					Node: i, Quantity: quantity, Value: value, Stage: stage}
			}
		}
	})
	hm.applyBoundaryConditions(Unext)
	err = cflErr
	for _, w := range hm.workers {
		if w.err != nil {
			if err == nil {
				err = w.err
			}
			w.err = nil
		}
	}
	return
}

// applyBoundaryConditions enforces the strong boundary data on a state
// field: dirichlet nodes are reset to their fixed states, reflecting nodes
// have the normal momentum component removed.
func (hm *HyperbolicModule) applyBoundaryConditions(U *euler.StateField) {
	var (
		h = hm.H
	)
	for _, bn := range hm.Graph.BoundaryNodes() {
		switch bn.Type {
		case mesh.BC_Dirichlet:
			if fixed, ok := hm.dirichlet[bn.Index]; ok {
				U.Assign(bn.Index, fixed)
			}
		case mesh.BC_Reflecting:
			var (
				Ui = U.At(bn.Index)
				m  = h.Momentum(Ui)
				mn float64
			)
			for d := range m {
				mn += m[d] * bn.Normal[d]
			}
			// Kinetic energy of the removed component leaves with it
			E := h.Energy(Ui)
			E -= 0.5 * mn * mn / h.Density(Ui)
			for d := range m {
				m[d] -= mn * bn.Normal[d]
			}
			Ui[len(Ui)-1] = E
		}
	}
}

// Validate checks every node of a state field for admissibility. Used after
// Runge Kutta stage combinations with negative weights, which can leave the
// invariant domain even when every sub-step stayed inside.
func (hm *HyperbolicModule) Validate(U *euler.StateField, stage int) (err error) {
	hm.parallel(func(np, iMin, iMax int) {
		var (
			w = hm.workers[np]
		)
		for i := iMin; i < iMax; i++ {
			if ok, quantity, value := hm.H.Admissible(U.At(i)); !ok && w.err == nil {
				w.err = &InadmissibleStateError{
					Node: i, Quantity: quantity, Value: value, Stage: stage}
			}
		}
	})
	for _, w := range hm.workers {
		if w.err != nil {
			err = w.err
			w.err = nil
		}
	}
	return
}

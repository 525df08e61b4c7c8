package solver

import (
	"fmt"

	"github.com/notargets/idflow/euler"
	"github.com/notargets/idflow/mesh"
)

// Simulation marches a state field in time over a mesh graph, reporting
// progress and invoking an optional per-step callback for plotting
type Simulation struct {
	Graph *mesh.Graph
	H     *euler.HyperbolicSystem
	TI    *TimeIntegrator

	U         *euler.StateField
	Time      float64
	StepCount int

	LogEvery int // progress line period in steps, 0 disables
}

func NewSimulation(g *mesh.Graph, h *euler.HyperbolicSystem,
	ti *TimeIntegrator, U0 *euler.StateField) (sim *Simulation) {
	sim = &Simulation{
		Graph:    g,
		H:        h,
		TI:       ti,
		U:        U0,
		LogEvery: 50,
	}
	ti.Prepare(U0)
	return
}

// Run advances to finalTime, capping the last step to land on it exactly
func (sim *Simulation) Run(finalTime float64, frame func(sim *Simulation)) (err error) {
	var (
		tau float64
	)
	for sim.Time < finalTime*(1-1.e-12) {
		if tau, err = sim.TI.Step(sim.U, finalTime-sim.Time); err != nil {
			err = fmt.Errorf("step %d, t = %g: %w", sim.StepCount, sim.Time, err)
			return
		}
		sim.Time += tau
		sim.StepCount++
		if sim.LogEvery > 0 && sim.StepCount%sim.LogEvery == 0 {
			fmt.Printf("time step %6d, t = %8.4f, tau = %10.6g\n",
				sim.StepCount, sim.Time, tau)
		}
		if frame != nil {
			frame(sim)
		}
	}
	return
}

/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"sync"
	"time"

	perf "github.com/hodgesds/perf-utils"
	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/idflow/InputParameters"
	"github.com/notargets/idflow/euler"
	"github.com/notargets/idflow/mesh"
	"github.com/notargets/idflow/sod_shock_tube"
	"github.com/notargets/idflow/solver"
)

// shockTubeCmd represents the shocktube command
var shockTubeCmd = &cobra.Command{
	Use:   "shocktube",
	Short: "One dimensional Sod shock tube",
	Long: `
Runs the invariant domain preserving solver on the 1-D Sod shock tube,
optionally plotting the evolving solution against the analytic profile,

idflow shocktube -k 500 --graph`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			st  = &ShockTubeRun{IP: InputParameters.NewInputParameters()}
			err error
		)
		if inputFile, _ := cmd.Flags().GetString("input"); inputFile != "" {
			var data []byte
			if data, err = os.ReadFile(inputFile); err == nil {
				err = st.IP.Parse(data)
			}
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
		if cmd.Flags().Changed("k") {
			st.IP.K, _ = cmd.Flags().GetInt("k")
		}
		if cmd.Flags().Changed("finalTime") {
			st.IP.FinalTime, _ = cmd.Flags().GetFloat64("finalTime")
		}
		if cmd.Flags().Changed("scheme") {
			st.IP.TimeSteppingScheme, _ = cmd.Flags().GetString("scheme")
		}
		st.Graph, _ = cmd.Flags().GetBool("graph")
		delay, _ := cmd.Flags().GetInt("delay")
		st.Delay = time.Duration(delay) * time.Millisecond
		if doProfile, _ := cmd.Flags().GetBool("profile"); doProfile {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		doPerf, _ := cmd.Flags().GetBool("perf")
		if err = st.Run(doPerf); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(shockTubeCmd)
	shockTubeCmd.Flags().StringP("input", "i", "", "YAML input file with run parameters")
	shockTubeCmd.Flags().IntP("k", "k", 500, "Number of cells in the tube")
	shockTubeCmd.Flags().Float64("finalTime", 0.2, "FinalTime - the target end time for the sim")
	shockTubeCmd.Flags().String("scheme", "ssprk_33", "time stepping scheme: ssprk_33, erk_33, erk_43")
	shockTubeCmd.Flags().BoolP("graph", "g", false, "display a graph while computing solution")
	shockTubeCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	shockTubeCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
	shockTubeCmd.Flags().Bool("perf", false, "report hardware counters for the run (linux)")
}

type ShockTubeRun struct {
	IP    *InputParameters.InputParameters
	Graph bool
	Delay time.Duration

	chart    *chart2d.Chart2D
	colorMap *utils2.ColorMap
	plotOnce sync.Once
}

func (st *ShockTubeRun) Run(doPerf bool) (err error) {
	var (
		ip = st.IP
	)
	if err = ip.Validate(); err != nil {
		return
	}
	ip.Print()

	gas, err := ip.NewEquationOfState()
	if err != nil {
		return
	}
	h, err := euler.NewHyperbolicSystem(1, gas)
	if err != nil {
		return
	}
	g, err := mesh.NewLineMesh(ip.K, 0, ip.XMax, mesh.BC_Dirichlet, mesh.BC_Dirichlet)
	if err != nil {
		return
	}
	var (
		nPar = ip.ProcLimit
	)
	if nPar == 0 {
		nPar = runtime.NumCPU()
	}
	hm, err := solver.NewHyperbolicModule(h, g, nPar)
	if err != nil {
		return
	}
	ti, err := solver.NewTimeIntegrator(hm,
		solver.TimeSteppingScheme(ip.TimeSteppingScheme),
		solver.CFLRecoveryStrategy(ip.RecoveryStrategy),
		ip.CFLMin, ip.CFLUpdate, ip.CFLMax)
	if err != nil {
		return
	}

	// Diaphragm at the middle of the tube
	var (
		U = euler.NewStateField(g.NumNodes, h.NumComponents())
	)
	for i := 0; i < g.NumNodes; i++ {
		s := sod_shock_tube.SodLeft
		if g.X[i][0] >= 0.5*ip.XMax {
			s = sod_shock_tube.SodRight
		}
		U.Assign(i, h.ConservedFromPrimitive(s.Rho, []float64{s.U}, s.P))
	}
	sim := solver.NewSimulation(g, h, ti, U)

	var hwProf perf.HardwareProfiler
	if doPerf {
		if hwProf, err = perf.NewHardwareProfiler(os.Getpid(), -1,
			perf.AllHardwareProfilers); err != nil {
			return
		}
		if err = hwProf.Start(); err != nil {
			return
		}
	}
	start := time.Now()
	if err = sim.Run(ip.FinalTime, func(sim *solver.Simulation) {
		st.Plot(sim)
	}); err != nil {
		return
	}
	fmt.Printf("%d steps to t = %8.4f in %v\n",
		sim.StepCount, sim.Time, time.Since(start))
	if doPerf {
		st.reportPerf(hwProf)
	}
	st.Report(sim)
	if st.Graph {
		// Leave the final frame up
		time.Sleep(10 * time.Second)
	}
	return
}

func (st *ShockTubeRun) Plot(sim *solver.Simulation) {
	if !st.Graph {
		return
	}
	var (
		g          = sim.Graph
		h          = sim.H
		fmin, fmax = float32(-0.1), float32(2.6)
	)
	st.plotOnce.Do(func() {
		st.chart = chart2d.NewChart2D(1920, 1280, float32(g.X[0][0]),
			float32(g.X[g.NumNodes-1][0]), fmin, fmax)
		st.colorMap = utils2.NewColorMap(-1, 1, 1)
		go st.chart.Plot()
	})
	var (
		X    = make([]float64, g.NumNodes)
		Rho  = make([]float64, g.NumNodes)
		RhoU = make([]float64, g.NumNodes)
		Ener = make([]float64, g.NumNodes)
	)
	for i := 0; i < g.NumNodes; i++ {
		X[i] = g.X[i][0]
		Ui := sim.U.At(i)
		Rho[i] = h.Density(Ui)
		RhoU[i] = h.Momentum(Ui)[0]
		Ener[i] = h.Energy(Ui)
	}
	pSeries := func(name string, field []float64, color float32) {
		if err := st.chart.AddSeries(name, X, field,
			chart2d.NoGlyph, chart2d.Solid, st.colorMap.GetRGB(color)); err != nil {
			panic("unable to add graph series")
		}
	}
	pSeries("Rho", Rho, -0.7)
	pSeries("RhoU", RhoU, 0.0)
	pSeries("Ener", Ener, 0.7)
	if st.analyticOverlayValid() && math.Abs(sim.Time-st.IP.FinalTime) < 0.001 {
		st.addAnalyticSod(sim.Time)
	}
	if st.Delay != 0 {
		time.Sleep(st.Delay)
	}
}

// The analytic overlay only matches the standard tube
func (st *ShockTubeRun) analyticOverlayValid() bool {
	return st.IP.XMax == 1 && st.IP.EquationOfState == "polytropic" &&
		st.IP.Gamma == sod_shock_tube.SodGamma
}

func (st *ShockTubeRun) addAnalyticSod(timeT float64) {
	X, Rho, _, U, E := sod_shock_tube.SOD_calc(timeT)
	var (
		RhoU = make([]float64, len(X))
		Ener = make([]float64, len(X))
	)
	for i := range X {
		RhoU[i] = Rho[i] * U[i]
		Ener[i] = Rho[i]*E[i] + 0.5*Rho[i]*U[i]*U[i]
	}
	addExact := func(name string, field []float64, color float32) {
		if err := st.chart.AddSeries(name, X, field,
			chart2d.XGlyph, chart2d.NoLine, st.colorMap.GetRGB(color)); err != nil {
			panic("unable to add exact solution " + name)
		}
	}
	addExact("ExactRho", Rho, -0.7)
	addExact("ExactRhoU", RhoU, 0.0)
	addExact("ExactE", Ener, 0.7)
}

// Report prints the integrated density against the analytic value
func (st *ShockTubeRun) Report(sim *solver.Simulation) {
	var (
		g   = sim.Graph
		X   = make([]float64, g.NumNodes)
		Rho = make([]float64, g.NumNodes)
	)
	for i := 0; i < g.NumNodes; i++ {
		X[i] = g.X[i][0]
		Rho[i] = sim.H.Density(sim.U.At(i))
	}
	iRho := sod_shock_tube.IntegrateTrapezoid(X, Rho)
	fmt.Printf("integrated density = %8.6f\n", iRho)
	if st.analyticOverlayValid() {
		Xe, RhoE, _, _, _ := sod_shock_tube.SOD_calc(sim.Time)
		iExact := sod_shock_tube.IntegrateTrapezoid(Xe, RhoE)
		fmt.Printf("analytic           = %8.6f, error = %8.2e\n",
			iExact, math.Abs(iRho-iExact))
	}
}

func (st *ShockTubeRun) reportPerf(hwProf perf.HardwareProfiler) {
	if err := hwProf.Stop(); err != nil {
		fmt.Println(err)
		return
	}
	hwProfile := &perf.HardwareProfile{}
	if err := hwProf.Profile(hwProfile); err != nil {
		fmt.Println(err)
		return
	}
	if hwProfile.CPUCycles != nil {
		fmt.Printf("CPU cycles:   %d\n", *hwProfile.CPUCycles)
	}
	if hwProfile.Instructions != nil {
		fmt.Printf("instructions: %d\n", *hwProfile.Instructions)
	}
	if hwProfile.CacheMisses != nil {
		fmt.Printf("cache misses: %d\n", *hwProfile.CacheMisses)
	}
	_ = hwProf.Close()
}

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
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/goharm/InputParameters"
	"github.com/notargets/goharm/diag"
	"github.com/notargets/goharm/driver"
	"github.com/notargets/goharm/eos"
	"github.com/notargets/goharm/geometry"
	"github.com/notargets/goharm/grmhd"
	"github.com/notargets/goharm/state"
)

type ModelRun struct {
	ICFile    string
	Graph     bool
	PlotSteps int
	Delay     time.Duration
	Profile   bool
}

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Evolve a relativistic magnetized fluid from a YAML input deck",
	Long:  `Evolve a relativistic magnetized fluid from a YAML input deck`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			mr  = &ModelRun{}
		)
		fmt.Println("run called")
		if mr.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		mr.Graph, _ = cmd.Flags().GetBool("graph")
		mr.PlotSteps, _ = cmd.Flags().GetInt("plotSteps")
		dr, _ := cmd.Flags().GetInt("delay")
		mr.Delay = time.Duration(dr) * time.Millisecond
		mr.Profile, _ = cmd.Flags().GetBool("profile")
		ip := processRunInput(mr)
		Run(mr, ip)
	},
}

func processRunInput(mr *ModelRun) (ip *InputParameters.InputParametersGRMHD) {
	if len(mr.ICFile) == 0 {
		fmt.Printf("error: must supply an input parameters file (-I, --inputConditionsFile)\n")
		exampleFile := `
########################################
Title: "Magnetized Linear Modes"
CFL: 0.9
Gamma: 1.333333333333333
FinalTime: 5.0
N1: 16
N2: 16
N3: 16
NBlocks: 2
X1Max: 1.
X2Max: 1.
X3Max: 1.
Recon: linear
Integrator: rk2
Spacetime: minkowski
Problem: slow
Amplitude: 1.e-4
Periodic: [true, true, true]
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	data, err := os.ReadFile(mr.ICFile)
	if err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParametersGRMHD{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- CFL\n\t- Gamma\n\t- mesh extents")
	RunCmd.Flags().BoolP("graph", "g", false, "display a graph while computing solution")
	RunCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	RunCmd.Flags().IntP("plotSteps", "s", 1, "number of steps before plotting each frame")
	RunCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
}

func newSpacetime(label string) geometry.Spacetime {
	switch label {
	case "", "minkowski":
		return geometry.Minkowski{}
	case "weakfield":
		return &geometry.WeakField{Phi0: 0.05, L: 0.5}
	default:
		panic(fmt.Sprintf("unknown spacetime %q", label))
	}
}

func Run(mr *ModelRun, ip *InputParameters.InputParametersGRMHD) {
	if mr.Profile {
		defer profile.Start(profile.CPUProfile).Stop()
	}
	ip.Print()

	var (
		e      = eos.GammaLaw{Gamma: ip.Gamma}
		st     = newSpacetime(ip.Spacetime)
		np     = ip.NParallel
		blocks = driver.NewMesh(st, driver.MeshConfig{
			N1: ip.N1, N2: ip.N2, N3: ip.N3,
			NBlocks: ip.NBlocks, NG: ip.NGhost,
			X1Min: ip.X1Min, X1Max: ip.X1Max,
			X2Min: ip.X2Min, X2Max: ip.X2Max,
			X3Min: ip.X3Min, X3Max: ip.X3Max,
		})
	)
	if np < 1 {
		np = runtime.NumCPU()
	}

	amp := ip.Amplitude
	if amp == 0 {
		amp = 1.e-4
	}
	switch ip.Problem {
	case "", "uniform":
		var prims [state.NPRIM]float64
		prims[state.RHO], prims[state.UU], prims[state.B1] = 1, 1, 1
		driver.InitUniform(blocks, e, prims, np)
	case "entropy":
		driver.InitMHDModes(blocks, e, driver.ModeEntropy, amp, np)
	case "slow":
		driver.InitMHDModes(blocks, e, driver.ModeSlow, amp, np)
	default:
		panic(fmt.Sprintf("unknown problem %q", ip.Problem))
	}

	dt := ip.InitialDt
	if dt == 0 {
		dt = ip.CFL * blocks[0].Block.Dx3 // refined after the first step
	}
	d := &driver.Driver{
		Blocks:     blocks,
		Ex:         state.NewExchanger(ip.NBlocks, ip.Periodic[2]),
		EOS:        e,
		Recon:      grmhd.NewReconType(ip.Recon),
		Integrator: driver.NewIntegrator(ip.Integrator),
		CFL:        ip.CFL,
		NP:         np,
		Periodic:   ip.Periodic,
		Dt:         dt,
	}

	var (
		pl       = &driver.Plotter{}
		divHist  = diag.NewHistory("max divB")
		massHist = diag.NewHistory("total mass")
		divOps   = make([]*diag.DivBOp, len(blocks))
		scs      = make([]*state.Container, len(blocks))
	)
	for nb, bs := range blocks {
		divOps[nb] = diag.NewDivBOp(bs.Block)
		scs[nb] = bs.Container("base")
	}

	maxSteps := ip.MaxSteps
	if maxSteps == 0 {
		maxSteps = math.MaxInt
	}
	start := time.Now()
	for d.Time < ip.FinalTime && d.Step < maxSteps {
		if err := d.AdvanceStep(); err != nil {
			fmt.Printf("step %d failed: %s\n", d.Step, err)
			os.Exit(1)
		}
		var maxDiv float64
		for nb := range blocks {
			if v := divOps[nb].MaxDivB(scs[nb].Cons); v > maxDiv {
				maxDiv = v
			}
		}
		divHist.Append(maxDiv)
		massHist.Append(diag.SumOverBlocks(scs)[state.RHO])
		if d.Step%50 == 0 || d.Time >= ip.FinalTime {
			fmt.Printf("step %6d  t = %10.6f  dt = %10.3e  divB = %10.3e  pfails = %d\n",
				d.Step, d.Time, d.Dt, maxDiv, d.NFail)
		}
		if mr.Graph && d.Step%mr.PlotSteps == 0 {
			pl.Plot(d, mr.Graph, []time.Duration{mr.Delay}, -0.1, 2.6)
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("simulation complete: %d steps to t = %g in %s\n", d.Step, d.Time, elapsed)
	fmt.Println(divHist.Render(10, 80))
	fmt.Println(massHist.Render(10, 80))
}

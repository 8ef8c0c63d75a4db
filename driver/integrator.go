package driver

import (
	"fmt"
	"strings"
)

// Integrator holds the stage count and blend weights of a strong-stability
// preserving Runge-Kutta scheme. Stage s (1-based) advances
//
//	U_s = A0[s-1]*U_base + As[s-1]*U_{s-1} + Cdt[s-1]*dt*R(U_{s-1})
//
// Stage 0 is the base (step start) container; stage NStages is the accepted
// step end.
type Integrator struct {
	Name    string
	NStages int
	A0      []float64
	As      []float64
	Cdt     []float64
}

func NewIntegrator(label string) (ig *Integrator) {
	switch strings.ToLower(label) {
	case "rk2", "vl2":
		// midpoint predictor-corrector
		ig = &Integrator{
			Name:    "rk2",
			NStages: 2,
			A0:      []float64{1, 1},
			As:      []float64{0, 0},
			Cdt:     []float64{0.5, 1},
		}
	case "rk3", "ssprk3":
		ig = &Integrator{
			Name:    "ssprk3",
			NStages: 3,
			A0:      []float64{1, 3. / 4., 1. / 3.},
			As:      []float64{0, 1. / 4., 2. / 3.},
			Cdt:     []float64{1, 1. / 4., 2. / 3.},
		}
	default:
		panic(fmt.Sprintf("driver: unknown integrator %q", label))
	}
	return
}

// StageName is the container name of stage s: "base" for 0, else the stage
// number.
func StageName(s int) string {
	if s == 0 {
		return "base"
	}
	return fmt.Sprintf("%d", s)
}

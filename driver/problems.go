package driver

import (
	"fmt"
	"math"

	"github.com/notargets/goharm/eos"
	"github.com/notargets/goharm/geometry"
	"github.com/notargets/goharm/grid"
	"github.com/notargets/goharm/grmhd"
	"github.com/notargets/goharm/state"
)

// MeshConfig sizes the global mesh. Blocks are slabs stacked along direction
// 3; N3 must divide evenly over NBlocks.
type MeshConfig struct {
	N1, N2, N3   int
	NBlocks      int
	NG           int
	X1Min, X1Max float64
	X2Min, X2Max float64
	X3Min, X3Max float64
}

// NewMesh decomposes the global extent into direction-3 slabs and builds the
// per-block runtime state over the given spacetime.
func NewMesh(st geometry.Spacetime, cfg MeshConfig) []*BlockState {
	if cfg.NBlocks < 1 || cfg.N3%cfg.NBlocks != 0 {
		panic(fmt.Sprintf("driver: %d direction-3 cells do not split over %d blocks",
			cfg.N3, cfg.NBlocks))
	}
	var (
		n3loc = cfg.N3 / cfg.NBlocks
		dx1   = (cfg.X1Max - cfg.X1Min) / float64(cfg.N1)
		dx2   = (cfg.X2Max - cfg.X2Min) / float64(cfg.N2)
		dx3   = (cfg.X3Max - cfg.X3Min) / float64(cfg.N3)
		out   = make([]*BlockState, cfg.NBlocks)
	)
	for nb := 0; nb < cfg.NBlocks; nb++ {
		x3min := cfg.X3Min + float64(nb*n3loc)*dx3
		b := grid.NewBlock(nb, cfg.N1, cfg.N2, n3loc, cfg.NG,
			cfg.X1Min, cfg.X2Min, x3min, dx1, dx2, dx3)
		b.KOffset = nb * n3loc
		out[nb] = NewBlockState(st, b)
	}
	return out
}

// InitUniform fills every block's base container with one primitive state and
// derives the conservative field, ghosts included.
func InitUniform(blocks []*BlockState, e eos.GammaLaw, prims [state.NPRIM]float64, np int) {
	for _, bs := range blocks {
		sc := bs.Container("base")
		for p := 0; p < state.NPRIM; p++ {
			data := sc.Prims.Data[p]
			for c := range data {
				data[c] = prims[p]
			}
		}
		grmhd.PrimsToCons(bs.Geom, e, sc, bs.Block.Entire(), np)
	}
}

// Linear mode families for the magnetized wave problem.
const (
	ModeEntropy = iota
	ModeSlow
)

// mhdModeEigenvector is the right eigenvector of the chosen family for the
// standing background rho=1, u=1, B=(1,0,0) with the oblique wavevector
// k=(2pi,2pi,2pi), ordered as the primitive components.
func mhdModeEigenvector(mode int) (dvar [state.NPRIM]float64) {
	switch mode {
	case ModeEntropy:
		dvar[state.RHO] = 1
	case ModeSlow:
		dvar[state.RHO] = 0.556500332363
		dvar[state.UU] = 0.742000443151
		dvar[state.U1] = -0.282334999306
		dvar[state.U2] = 0.0367010491491
		dvar[state.U3] = 0.0367010491491
		dvar[state.B1] = -0.195509141461
		dvar[state.B2] = 0.0977545707307
		dvar[state.B3] = 0.0977545707307
	default:
		panic(fmt.Sprintf("driver: unknown linear mode %d", mode))
	}
	return
}

// InitMHDModes seeds a small-amplitude magnetized linear wave on the periodic
// unit cube: background plus amp times the family eigenvector, modulated by
// cos(k.x). Amplitude is small enough that the evolution stays in the linear
// regime and the analytic dispersion applies.
func InitMHDModes(blocks []*BlockState, e eos.GammaLaw, mode int, amp float64, np int) {
	var (
		dvar = mhdModeEigenvector(mode)
		kw   = 2 * math.Pi
	)
	for _, bs := range blocks {
		var (
			b  = bs.Block
			en = b.Entire()
			sc = bs.Container("base")
			P  [state.NPRIM]float64
		)
		for k := en.Ks; k <= en.Ke; k++ {
			for j := en.Js; j <= en.Je; j++ {
				for i := en.Is; i <= en.Ie; i++ {
					x := b.X(i, j, k, grid.CellCenter)
					osc := amp * math.Cos(kw*(x[1]+x[2]+x[3]))
					P[state.RHO] = 1 + dvar[state.RHO]*osc
					P[state.UU] = 1 + dvar[state.UU]*osc
					P[state.U1] = dvar[state.U1] * osc
					P[state.U2] = dvar[state.U2] * osc
					P[state.U3] = dvar[state.U3] * osc
					P[state.B1] = 1 + dvar[state.B1]*osc
					P[state.B2] = dvar[state.B2] * osc
					P[state.B3] = dvar[state.B3] * osc
					sc.Prims.Set(b.Index(i, j, k), &P)
				}
			}
		}
		grmhd.PrimsToCons(bs.Geom, e, sc, en, np)
	}
}

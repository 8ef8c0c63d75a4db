package grmhd

import (
	"math"

	"github.com/notargets/goharm/eos"
	"github.com/notargets/goharm/geometry"
	"github.com/notargets/goharm/grid"
	"github.com/notargets/goharm/state"
	"github.com/notargets/goharm/utils"
)

// CalculateFlux reconstructs face states and computes the local Lax-Friedrichs
// flux and blending speed ctop for one direction, writing sc.Flux[dir] and
// sc.Ctop[dir]. Runs on the interior plus a one-cell halo so the constrained
// transport edge average downstream has valid fluxes one cell beyond the
// faces the state update strictly needs. The three directions are mutually
// independent and may run concurrently.
func CalculateFlux(geom *geometry.Cache, e eos.GammaLaw, rt ReconType, sc *state.Container, dir int, np int) {
	var (
		b      = sc.Block
		bounds = b.Halo(1)
		loc    = grid.Locus(dir) // Face1..Face3
		pl     = state.NewField(b)
		pr     = state.NewField(b)
		flux   = sc.Flux[dir]
		ctop   = sc.Ctop[dir]
	)
	ReconstructLR(rt, sc.Prims, dir, bounds, pl, pr)

	kspan := bounds.Ke - bounds.Ks + 1
	utils.ParFor(np, kspan, func(kMin, kMax int) {
		var (
			qL, qR FourVectors
			sL, sR [state.NPRIM]float64
			uL, uR [state.NPRIM]float64
			fL, fR [state.NPRIM]float64
		)
		for kk := kMin; kk < kMax; kk++ {
			k := bounds.Ks + kk
			for j := bounds.Js; j <= bounds.Je; j++ {
				for i := bounds.Is; i <= bounds.Ie; i++ {
					f := b.Index(i, j, k)
					g := geom.At(i, j, k, loc)

					pl.Get(f, &sL)
					pr.Get(f, &sR)

					GetState(g, &sL, &qL)
					PrimToFlux(g, &sL, &qL, e, 0, &uL)
					PrimToFlux(g, &sL, &qL, e, dir, &fL)
					cmaxL, cminL := MhdVchar(g, &sL, &qL, e, dir)

					GetState(g, &sR, &qR)
					PrimToFlux(g, &sR, &qR, e, 0, &uR)
					PrimToFlux(g, &sR, &qR, e, dir, &fR)
					cmaxR, cminR := MhdVchar(g, &sR, &qR, e, dir)

					cmax := math.Abs(math.Max(math.Max(0, cmaxL), cmaxR))
					cmin := math.Abs(math.Max(math.Max(0, -cminL), -cminR))
					ctopLoc := math.Max(cmax, cmin)

					ctop.Data[f] = ctopLoc
					for p := 0; p < state.NPRIM; p++ {
						flux.Data[p][f] = 0.5 * (fL[p] + fR[p] - ctopLoc*(uR[p]-uL[p]))
					}
				}
			}
		}
	})
}

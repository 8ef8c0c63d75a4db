package grmhd

import (
	"github.com/notargets/goharm/eos"
	"github.com/notargets/goharm/geometry"
	"github.com/notargets/goharm/grid"
	"github.com/notargets/goharm/state"
	"github.com/notargets/goharm/utils"
)

// PrimsToCons runs the forward transform over bounds, bringing the
// conservative state into lockstep with the primitives.
func PrimsToCons(geom *geometry.Cache, e eos.GammaLaw, sc *state.Container, bounds grid.Bounds, np int) {
	b := sc.Block
	utils.ParFor(np, bounds.Ke-bounds.Ks+1, func(kMin, kMax int) {
		var (
			P, U [state.NPRIM]float64
			D    FourVectors
		)
		for kk := kMin; kk < kMax; kk++ {
			k := bounds.Ks + kk
			for j := bounds.Js; j <= bounds.Je; j++ {
				for i := bounds.Is; i <= bounds.Ie; i++ {
					c := b.Index(i, j, k)
					g := geom.At(i, j, k, grid.CellCenter)
					sc.Prims.Get(c, &P)
					GetState(g, &P, &D)
					PrimToFlux(g, &P, &D, e, 0, &U)
					sc.Cons.Set(c, &U)
				}
			}
		}
	})
}

package grmhd

import (
	"github.com/notargets/goharm/eos"
	"github.com/notargets/goharm/geometry"
	"github.com/notargets/goharm/state"
	"github.com/notargets/goharm/utils"
)

// FluxDivergence applies the (corrected) directional fluxes as a conservative
// rate over the block interior: dudt = -div F. Fluxes already carry the
// sqrt(-g) face weighting, so the divergence is a plain difference over the
// coordinate spacing.
func FluxDivergence(sc *state.Container, dudt *state.Field, np int) {
	var (
		b   = sc.Block
		in  = b.Interior()
		s1  = dirStride(b, 1)
		s2  = dirStride(b, 2)
		s3  = dirStride(b, 3)
		od1 = 1 / b.Dx1
		od2 = 1 / b.Dx2
		od3 = 1 / b.Dx3
	)
	utils.ParFor(np, in.Ke-in.Ks+1, func(kMin, kMax int) {
		for kk := kMin; kk < kMax; kk++ {
			k := in.Ks + kk
			for j := in.Js; j <= in.Je; j++ {
				for i := in.Is; i <= in.Ie; i++ {
					c := b.Index(i, j, k)
					for p := 0; p < state.NPRIM; p++ {
						var (
							f1 = sc.Flux[1].Data[p]
							f2 = sc.Flux[2].Data[p]
							f3 = sc.Flux[3].Data[p]
						)
						dudt.Data[p][c] = -((f1[c+s1]-f1[c])*od1 +
							(f2[c+s2]-f2[c])*od2 +
							(f3[c+s3]-f3[c])*od3)
					}
				}
			}
		}
	})
}

// SourceTerm adds the geometric source, the connection contraction against
// the mixed stress-energy tensor, to the energy and momentum rates at cell
// centers. Vanishes identically on a flat patch.
func SourceTerm(geom *geometry.Cache, e eos.GammaLaw, sc *state.Container, dudt *state.Field, np int) {
	var (
		b  = sc.Block
		in = b.Interior()
	)
	utils.ParFor(np, in.Ke-in.Ks+1, func(kMin, kMax int) {
		var (
			p  [state.NPRIM]float64
			D  FourVectors
			T  [4][4]float64 // T[kap][lam] mixed
			dU [4]float64
		)
		for kk := kMin; kk < kMax; kk++ {
			k := in.Ks + kk
			for j := in.Js; j <= in.Je; j++ {
				for i := in.Is; i <= in.Ie; i++ {
					var (
						c    = b.Index(i, j, k)
						g    = geom.At(i, j, k, 0)
						conn = geom.Conn(i, j, k)
					)
					sc.Prims.Get(c, &p)
					GetState(g, &p, &D)
					for kap := 0; kap < 4; kap++ {
						T[kap] = mhdStress(&p, &D, e, kap)
					}
					for nu := 0; nu < 4; nu++ {
						var sum float64
						for kap := 0; kap < 4; kap++ {
							for lam := 0; lam < 4; lam++ {
								sum += T[kap][lam] * conn[lam][nu][kap]
							}
						}
						dU[nu] = g.Gdet * sum
					}
					dudt.Data[state.UU][c] += dU[0]
					dudt.Data[state.U1][c] += dU[1]
					dudt.Data[state.U2][c] += dU[2]
					dudt.Data[state.U3][c] += dU[3]
				}
			}
		}
	})
}

// UpdateStage advances the conservative state of the target container over
// the block interior:
//
//	target = a0*base + as*stage + cdt*dt*dudt
//
// per the active Runge-Kutta stage's blend weights. Only the conservative
// part is written; primitives fall out of lockstep until recovery.
func UpdateStage(target, base, stage *state.Container, dudt *state.Field, a0, as, cdt, dt float64, np int) {
	var (
		b  = target.Block
		in = b.Interior()
	)
	utils.ParFor(np, in.Ke-in.Ks+1, func(kMin, kMax int) {
		for kk := kMin; kk < kMax; kk++ {
			k := in.Ks + kk
			for j := in.Js; j <= in.Je; j++ {
				for i := in.Is; i <= in.Ie; i++ {
					c := b.Index(i, j, k)
					for p := 0; p < state.NPRIM; p++ {
						target.Cons.Data[p][c] = a0*base.Cons.Data[p][c] +
							as*stage.Cons.Data[p][c] +
							cdt*dt*dudt.Data[p][c]
					}
				}
			}
		}
	})
}

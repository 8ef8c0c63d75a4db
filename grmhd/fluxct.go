package grmhd

import (
	"github.com/notargets/goharm/state"
	"github.com/notargets/goharm/utils"
)

// FluxCT rewrites the magnetic-field components of the three directional flux
// fields so the conservative update preserves the corner-centered divergence
// of B to machine precision (Toth's flux-CT scheme).
//
// Pass one averages the four adjacent face fluxes around each cell edge into
// edge-centered EMFs, with signs per the cyclic orientation. Pass two
// discards the original magnetic fluxes and rebuilds each one as the signed
// difference of the two EMF components orthogonal to the face, which makes
// the set an exact discrete curl: the parallel component is identically zero
// and the signed sum around any cell telescopes.
//
// Must run after all three directional fluxes exist and before the flux
// divergence is applied.
func FluxCT(sc *state.Container, np int) {
	var (
		b    = sc.Block
		e    = b.Entire()
		F1   = sc.Flux[1]
		F2   = sc.Flux[2]
		F3   = sc.Flux[3]
		emf1 = make([]float64, b.NCells())
		emf2 = make([]float64, b.NCells())
		emf3 = make([]float64, b.NCells())

		f1B1, f1B2, f1B3 = F1.Data[state.B1], F1.Data[state.B2], F1.Data[state.B3]
		f2B1, f2B2, f2B3 = F2.Data[state.B1], F2.Data[state.B2], F2.Data[state.B3]
		f3B1, f3B2, f3B3 = F3.Data[state.B1], F3.Data[state.B2], F3.Data[state.B3]
	)

	// EMF assembly at cell edges
	utils.ParFor(np, e.Ke-e.Ks, func(kMin, kMax int) {
		for kk := kMin; kk < kMax; kk++ {
			k := e.Ks + 1 + kk
			for j := e.Js + 1; j <= e.Je; j++ {
				for i := e.Is + 1; i <= e.Ie; i++ {
					var (
						c   = b.Index(i, j, k)
						im1 = b.Index(i-1, j, k)
						jm1 = b.Index(i, j-1, k)
						km1 = b.Index(i, j, k-1)
					)
					emf3[c] = 0.25 * (f1B2[c] + f1B2[jm1] - f2B1[c] - f2B1[im1])
					emf2[c] = -0.25 * (f1B3[c] + f1B3[km1] - f3B1[c] - f3B1[im1])
					emf1[c] = 0.25 * (f2B3[c] + f2B3[km1] - f3B2[c] - f3B2[jm1])
				}
			}
		}
	})

	// Rewrite magnetic fluxes as EMF differences
	utils.ParFor(np, e.Ke-e.Ks, func(kMin, kMax int) {
		for kk := kMin; kk < kMax; kk++ {
			k := e.Ks + kk
			for j := e.Js; j <= e.Je-1; j++ {
				for i := e.Is; i <= e.Ie-1; i++ {
					var (
						c   = b.Index(i, j, k)
						ip1 = b.Index(i+1, j, k)
						jp1 = b.Index(i, j+1, k)
						kp1 = b.Index(i, j, k+1)
					)
					f1B1[c] = 0
					f1B2[c] = 0.5 * (emf3[c] + emf3[jp1])
					f1B3[c] = -0.5 * (emf2[c] + emf2[kp1])

					f2B1[c] = -0.5 * (emf3[c] + emf3[ip1])
					f2B2[c] = 0
					f2B3[c] = 0.5 * (emf1[c] + emf1[kp1])

					f3B1[c] = 0.5 * (emf2[c] + emf2[ip1])
					f3B2[c] = -0.5 * (emf1[c] + emf1[jp1])
					f3B3[c] = 0
				}
			}
		}
	})
}

// Package grmhd holds the per-cell kernels of the solver core: the local
// 4-velocity decomposition, primitive-to-flux transforms, characteristic
// speeds, face reconstruction, the local Lax-Friedrichs flux, constrained
// transport, the stage update, and primitive recovery.
package grmhd

import (
	"fmt"
	"math"

	"github.com/notargets/goharm/eos"
	"github.com/notargets/goharm/geometry"
	"github.com/notargets/goharm/state"
)

// FourVectors is the local frame decomposition of one fluid state: the
// contravariant/covariant 4-velocity and magnetic 4-vector.
type FourVectors struct {
	Ucon, Ucov [4]float64
	Bcon, Bcov [4]float64
}

func lower(g *geometry.Geom, vcon *[4]float64, vcov *[4]float64) {
	for mu := 0; mu < 4; mu++ {
		var sum float64
		for nu := 0; nu < 4; nu++ {
			sum += g.Gcov[mu][nu] * vcon[nu]
		}
		vcov[mu] = sum
	}
}

// GetState builds the 4-velocity decomposition from the primitive vector p at
// a location with metric g. The velocity primitives are the normal-observer
// projected 4-velocity, so the Lorentz factor is sqrt(1 + q^2) with
// q^2 = g_ij u~^i u~^j, always well defined.
func GetState(g *geometry.Geom, p *[state.NPRIM]float64, D *FourVectors) {
	var qsq float64
	for i := 1; i < 4; i++ {
		for j := 1; j < 4; j++ {
			qsq += g.Gcov[i][j] * p[state.U1+i-1] * p[state.U1+j-1]
		}
	}
	gamma := math.Sqrt(1 + qsq)
	alpha := 1 / math.Sqrt(-g.Gcon[0][0])

	D.Ucon[0] = gamma / alpha
	for i := 1; i < 4; i++ {
		D.Ucon[i] = p[state.U1+i-1] - gamma*alpha*g.Gcon[0][i]
	}
	lower(g, &D.Ucon, &D.Ucov)

	D.Bcon[0] = 0
	for i := 1; i < 4; i++ {
		D.Bcon[0] += p[state.B1+i-1] * D.Ucov[i]
	}
	for i := 1; i < 4; i++ {
		D.Bcon[i] = (p[state.B1+i-1] + D.Bcon[0]*D.Ucon[i]) / D.Ucon[0]
	}
	lower(g, &D.Bcon, &D.Bcov)
}

func (D *FourVectors) Bsq() (bsq float64) {
	for mu := 0; mu < 4; mu++ {
		bsq += D.Bcon[mu] * D.Bcov[mu]
	}
	return
}

// mhdStress computes the mixed stress-energy components T^dir_mu of the
// magnetized fluid.
func mhdStress(p *[state.NPRIM]float64, D *FourVectors, e eos.GammaLaw, dir int) (T [4]float64) {
	var (
		rho  = p[state.RHO]
		u    = p[state.UU]
		pgas = e.Pressure(rho, u)
		bsq  = D.Bsq()
		eta  = rho + u + pgas + bsq
		ptot = pgas + 0.5*bsq
	)
	for mu := 0; mu < 4; mu++ {
		T[mu] = eta*D.Ucon[dir]*D.Ucov[mu] - D.Bcon[dir]*D.Bcov[mu]
	}
	T[dir] += ptot
	return
}

// PrimToFlux computes the gdet-weighted conservative vector (dir == 0) or the
// physical flux vector in direction dir (1..3). The energy component carries
// the rest-mass subtraction T^dir_0 + rho u^dir of the original scheme.
func PrimToFlux(g *geometry.Geom, p *[state.NPRIM]float64, D *FourVectors, e eos.GammaLaw, dir int, flux *[state.NPRIM]float64) {
	if dir < 0 || dir > 3 {
		panic(fmt.Sprintf("grmhd: invalid direction %d in PrimToFlux", dir))
	}
	T := mhdStress(p, D, e, dir)
	flux[state.RHO] = p[state.RHO] * D.Ucon[dir] * g.Gdet
	flux[state.UU] = T[0]*g.Gdet + flux[state.RHO]
	for i := 1; i < 4; i++ {
		flux[state.U1+i-1] = T[i] * g.Gdet
	}
	if dir == 0 {
		for i := 1; i < 4; i++ {
			flux[state.B1+i-1] = p[state.B1+i-1] * g.Gdet
		}
	} else {
		for i := 1; i < 4; i++ {
			flux[state.B1+i-1] = (D.Bcon[i]*D.Ucon[dir] - D.Bcon[dir]*D.Ucon[i]) * g.Gdet
		}
	}
}

// MhdVchar returns the extremal coordinate-frame signal speeds (cmax, cmin)
// in direction dir from the quadratic approximation to the magnetosonic
// dispersion relation, evaluated against the local metric.
func MhdVchar(g *geometry.Geom, p *[state.NPRIM]float64, D *FourVectors, e eos.GammaLaw, dir int) (cmax, cmin float64) {
	if dir < 1 || dir > 3 {
		panic(fmt.Sprintf("grmhd: invalid direction %d in MhdVchar", dir))
	}
	var (
		rho = p[state.RHO]
		u   = p[state.UU]
		bsq = D.Bsq()
		w   = e.Enthalpy(rho, u)
		ee  = bsq + w
	)
	vasq := bsq / ee
	cssq := e.SoundSpeedSq(rho, u)
	cmsq := cssq + vasq - cssq*vasq
	if cmsq < 0 {
		cmsq = 0
	}
	if cmsq > 1 {
		cmsq = 1
	}

	var Acov, Bcov, Acon, Bcon [4]float64
	Acov[dir] = 1
	Bcov[0] = 1
	for mu := 0; mu < 4; mu++ {
		for nu := 0; nu < 4; nu++ {
			Acon[mu] += g.Gcon[mu][nu] * Acov[nu]
			Bcon[mu] += g.Gcon[mu][nu] * Bcov[nu]
		}
	}

	var Asq, Bsq_, Au, Bu, AB float64
	for mu := 0; mu < 4; mu++ {
		Asq += Acon[mu] * Acov[mu]
		Bsq_ += Bcon[mu] * Bcov[mu]
		Au += Acov[mu] * D.Ucon[mu]
		Bu += Bcov[mu] * D.Ucon[mu]
		AB += Acon[mu] * Bcov[mu]
	}
	var (
		Au2  = Au * Au
		Bu2  = Bu * Bu
		AuBu = Au * Bu
	)
	A := Bu2 - (Bsq_+Bu2)*cmsq
	B := 2 * (AuBu - (AB+AuBu)*cmsq)
	C := Au2 - (Asq+Au2)*cmsq

	discr := B*B - 4*A*C
	if discr < 0 {
		discr = 0
	}
	discr = math.Sqrt(discr)

	vp := -(-B + discr) / (2 * A)
	vm := -(-B - discr) / (2 * A)
	if vp > vm {
		cmax, cmin = vp, vm
	} else {
		cmax, cmin = vm, vp
	}
	return
}

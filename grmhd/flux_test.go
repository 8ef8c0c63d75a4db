package grmhd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/goharm/eos"
	"github.com/notargets/goharm/geometry"
	"github.com/notargets/goharm/grid"
	"github.com/notargets/goharm/state"
)

func uniformContainer(b *grid.Block, ca *geometry.Cache, e eos.GammaLaw, p [state.NPRIM]float64) *state.Container {
	sc := state.NewContainer(b)
	en := b.Entire()
	for k := en.Ks; k <= en.Ke; k++ {
		for j := en.Js; j <= en.Je; j++ {
			for i := en.Is; i <= en.Ie; i++ {
				sc.Prims.Set(b.Index(i, j, k), &p)
			}
		}
	}
	PrimsToCons(ca, e, sc, en, 4)
	return sc
}

func TestCalculateFluxUniformState(t *testing.T) {
	var (
		b  = grid.NewBlock(0, 8, 8, 8, 3, 0, 0, 0, 0.125, 0.125, 0.125)
		ca = geometry.NewCache(geometry.Minkowski{}, b)
		e  = eos.NewGammaLaw(4. / 3.)
		p  [state.NPRIM]float64
	)
	p[state.RHO], p[state.UU], p[state.B1] = 1, 1, 1
	sc := uniformContainer(b, ca, e, p)

	for dir := 1; dir <= 3; dir++ {
		CalculateFlux(ca, e, ReconLinearMC, sc, dir, 4)
	}

	var (
		in = b.Interior()
		c0 = b.Index(in.Is, in.Js, in.Ks)
		c1 = b.Index(in.Ie, in.Je, in.Ke)
	)
	for dir := 1; dir <= 3; dir++ {
		// a uniform state yields spatially constant fluxes and positive
		// blending speeds
		for p := 0; p < state.NPRIM; p++ {
			assert.InDelta(t, sc.Flux[dir].Data[p][c0], sc.Flux[dir].Data[p][c1], 1.e-13)
		}
		assert.Greater(t, sc.Ctop[dir].Data[c0], 0.0)
		assert.LessOrEqual(t, sc.Ctop[dir].Data[c0], 1.0)
	}
	// no mass moves anywhere
	assert.InDelta(t, 0.0, sc.Flux[1].Data[state.RHO][c0], 1.e-13)

	// consistency: identical left/right states collapse to the single-state
	// physical flux
	var (
		D FourVectors
		F [state.NPRIM]float64
		g = ca.At(in.Is, in.Js, in.Ks, grid.Face1)
	)
	GetState(g, &p, &D)
	PrimToFlux(g, &p, &D, e, 1, &F)
	for pc := 0; pc < state.NPRIM; pc++ {
		assert.InDelta(t, F[pc], sc.Flux[1].Data[pc][c0], 1.e-13, state.ComponentNames[pc])
	}
}

func TestDensityJumpFluxDecomposition(t *testing.T) {
	// a single density jump: the face flux splits into the mean of the two
	// physical fluxes and a dissipative part proportional to ctop*(UR-UL)
	var (
		b  = grid.NewBlock(0, 8, 4, 4, 3, 0, 0, 0, 0.125, 0.25, 0.25)
		ca = geometry.NewCache(geometry.Minkowski{}, b)
		e  = eos.NewGammaLaw(4. / 3.)
		sc = state.NewContainer(b)
		en = b.Entire()
		in = b.Interior()
		// jump at the lower face of cell iJump
		iJump = in.Is + 4
	)
	var lo, hi [state.NPRIM]float64
	lo[state.RHO], lo[state.UU], lo[state.B2] = 1, 1, 0.3
	hi = lo
	hi[state.RHO] = 2
	for k := en.Ks; k <= en.Ke; k++ {
		for j := en.Js; j <= en.Je; j++ {
			for i := en.Is; i <= en.Ie; i++ {
				if i < iJump {
					sc.Prims.Set(b.Index(i, j, k), &lo)
				} else {
					sc.Prims.Set(b.Index(i, j, k), &hi)
				}
			}
		}
	}
	PrimsToCons(ca, e, sc, en, 4)
	CalculateFlux(ca, e, ReconDonorCell, sc, 1, 4)

	var (
		f            = b.Index(iJump, in.Js+1, in.Ks+1)
		g            = ca.At(iJump, in.Js+1, in.Ks+1, grid.Face1)
		DL, DR       FourVectors
		UL, UR       [state.NPRIM]float64
		FL, FR, want [state.NPRIM]float64
	)
	GetState(g, &lo, &DL)
	PrimToFlux(g, &lo, &DL, e, 0, &UL)
	PrimToFlux(g, &lo, &DL, e, 1, &FL)
	GetState(g, &hi, &DR)
	PrimToFlux(g, &hi, &DR, e, 0, &UR)
	PrimToFlux(g, &hi, &DR, e, 1, &FR)

	ctop := sc.Ctop[1].Data[f]
	assert.Greater(t, ctop, 0.0)
	// ctop dominates both sides' extremal speeds
	cmaxL, cminL := MhdVchar(g, &lo, &DL, e, 1)
	cmaxR, cminR := MhdVchar(g, &hi, &DR, e, 1)
	for _, c := range []float64{cmaxL, -cminL, cmaxR, -cminR} {
		assert.LessOrEqual(t, c, ctop+1.e-14)
	}

	for pc := 0; pc < state.NPRIM; pc++ {
		want[pc] = 0.5*(FL[pc]+FR[pc]) - 0.5*ctop*(UR[pc]-UL[pc])
		assert.InDelta(t, want[pc], sc.Flux[1].Data[pc][f], 1.e-13, state.ComponentNames[pc])
	}
	// the static jump carries a purely dissipative mass flux
	assert.InDelta(t, -0.5*ctop*(UR[state.RHO]-UL[state.RHO]),
		sc.Flux[1].Data[state.RHO][f], 1.e-13)
}

func TestUniformStateIsSteady(t *testing.T) {
	// flux divergence and geometric source of a uniform state on a flat patch
	// cancel to roundoff: the full stage pipeline leaves it unchanged
	var (
		b    = grid.NewBlock(0, 8, 8, 8, 3, 0, 0, 0, 0.125, 0.125, 0.125)
		ca   = geometry.NewCache(geometry.Minkowski{}, b)
		e    = eos.NewGammaLaw(4. / 3.)
		dudt = state.NewField(b)
	)
	var p [state.NPRIM]float64
	p[state.RHO], p[state.UU], p[state.B1], p[state.B2] = 1, 1, 1, 0.5
	sc := uniformContainer(b, ca, e, p)

	for dir := 1; dir <= 3; dir++ {
		CalculateFlux(ca, e, ReconLinearMC, sc, dir, 4)
	}
	FluxCT(sc, 4)
	FluxDivergence(sc, dudt, 4)
	SourceTerm(ca, e, sc, dudt, 4)

	in := b.Interior()
	for pc := 0; pc < state.NPRIM; pc++ {
		assert.InDelta(t, 0.0, dudt.Data[pc][b.Index(in.Is, in.Js, in.Ks)], 1.e-9)
		assert.InDelta(t, 0.0, dudt.Data[pc][b.Index(in.Ie, in.Je, in.Ke)], 1.e-9)
	}

	// advancing with these rates reproduces the state
	target := state.NewContainer(b)
	UpdateStage(target, sc, sc, dudt, 1, 0, 0.5, 1.e-2, 4)
	var U0, U1 [state.NPRIM]float64
	c := b.Index(in.Is+2, in.Js+2, in.Ks+2)
	sc.Cons.Get(c, &U0)
	target.Cons.Get(c, &U1)
	for pc := 0; pc < state.NPRIM; pc++ {
		assert.InDelta(t, U0[pc], U1[pc], 1.e-10)
	}
}

func TestUpdateStageBlend(t *testing.T) {
	var (
		b      = grid.NewBlock(0, 4, 4, 4, 3, 0, 0, 0, 0.25, 0.25, 0.25)
		base   = state.NewContainer(b)
		stage  = state.NewContainer(b)
		target = state.NewContainer(b)
		dudt   = state.NewField(b)
		in     = b.Interior()
		c      = b.Index(in.Is, in.Js, in.Ks)
	)
	base.Cons.Data[state.RHO][c] = 2
	stage.Cons.Data[state.RHO][c] = 4
	dudt.Data[state.RHO][c] = 10

	// third stage of the SSP scheme: 1/3 base + 2/3 stage + 2/3 dt rate
	UpdateStage(target, base, stage, dudt, 1./3., 2./3., 2./3., 0.1, 4)
	assert.InDelta(t, 2./3.+8./3.+2./3.*0.1*10, target.Cons.Data[state.RHO][c], 1.e-14)

	// ghost cells are never touched by the stage update
	g := b.Index(0, 0, 0)
	base.Cons.Data[state.RHO][g] = 5
	UpdateStage(target, base, stage, dudt, 1, 0, 1, 0.1, 4)
	assert.Equal(t, 0.0, target.Cons.Data[state.RHO][g])
}

func TestSourceTermCurved(t *testing.T) {
	// in a potential well a static fluid feels a momentum source toward
	// pressure support: nonzero rate along the gradient direction
	var (
		w    = geometry.WeakField{Phi0: 0.05, L: 0.5}
		b    = grid.NewBlock(0, 4, 4, 4, 3, -0.5, -0.5, -0.5, 0.25, 0.25, 0.25)
		ca   = geometry.NewCache(w, b)
		e    = eos.NewGammaLaw(4. / 3.)
		dudt = state.NewField(b)
	)
	var p [state.NPRIM]float64
	p[state.RHO], p[state.UU] = 1, 1
	sc := uniformContainer(b, ca, e, p)

	SourceTerm(ca, e, sc, dudt, 4)
	in := b.Interior()
	// off-center cell: the well gradient has a direction-1 component
	c := b.Index(in.Is, in.Js+1, in.Ks+1)
	assert.NotEqual(t, 0.0, dudt.Data[state.U1][c])
	// mass never sources
	assert.Equal(t, 0.0, dudt.Data[state.RHO][c])
}

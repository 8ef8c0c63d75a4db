package grmhd

import (
	"math"
	"sync/atomic"

	"github.com/notargets/goharm/eos"
	"github.com/notargets/goharm/geometry"
	"github.com/notargets/goharm/grid"
	"github.com/notargets/goharm/state"
	"github.com/notargets/goharm/utils"
)

// RecoveryFlag is the per-cell outcome of conservative-to-primitive
// inversion. Nonzero flags mark non-physical states; policy for fixing them
// (floors, neighbor averaging, abort) belongs to an external fix-up phase,
// never to this kernel.
type RecoveryFlag uint8

const (
	RecoveryOK RecoveryFlag = iota
	RecoveryNegInput
	RecoveryNoBracket
	RecoveryMaxIter
	RecoveryNegRho
	RecoveryNegU
)

var recoveryFlagNames = []string{"ok", "neg_input", "no_bracket", "max_iter", "neg_rho", "neg_u"}

func (f RecoveryFlag) String() string {
	return recoveryFlagNames[f]
}

const (
	utopTol     = 1.e-13
	utopMaxIter = 200
)

// utop carries the fixed scalars of one inversion.
type utop struct {
	gam  float64
	D    float64
	Ep   float64
	Bsq  float64
	QdB  float64
	Qtsq float64
}

// err is the residual of the energy equation as a function of Wp = W - D,
// where W = (rho+u+p) gamma^2. Its root gives the recovered state.
func (s *utop) err(Wp float64) float64 {
	var (
		W     = Wp + s.D
		WB    = W + s.Bsq
		QdBsq = s.QdB * s.QdB
	)
	utsq := s.utsq(W)
	gamma := math.Sqrt(1 + math.Abs(utsq))
	var (
		w    = W / (gamma * gamma)
		rho  = s.D / gamma
		pgas = (s.gam - 1) / s.gam * (w - rho)
	)
	return -s.Ep + Wp - pgas + 0.5*s.Bsq + 0.5*(s.Bsq*s.Qtsq-QdBsq)/(WB*WB)
}

func (s *utop) utsq(W float64) float64 {
	var (
		QdBsq = s.QdB * s.QdB
		W2    = W * W
		WB    = W + s.Bsq
	)
	return -((W+WB)*QdBsq + W2*s.Qtsq) /
		(QdBsq*(W+WB) + W2*(s.Qtsq-WB*WB))
}

// UtoP inverts one gdet-weighted conservative vector U to primitives p,
// using the current contents of p as the initial guess. On failure p is left
// untouched except for the magnetic field, which is algebraic.
func UtoP(g *geometry.Geom, U *[state.NPRIM]float64, e eos.GammaLaw, p *[state.NPRIM]float64) RecoveryFlag {
	var (
		alpha  = 1 / math.Sqrt(-g.Gcon[0][0])
		aOverG = alpha / g.Gdet
	)

	// The field primitives are algebraic in the conserved field
	for i := 0; i < 3; i++ {
		p[state.B1+i] = U[state.B1+i] / g.Gdet
	}

	D := U[state.RHO] * aOverG
	if !(D > 0) || !isFinite(U) {
		return RecoveryNegInput
	}

	var Bcon, Bcov, Qcov, Qcon [4]float64
	for i := 1; i < 4; i++ {
		Bcon[i] = U[state.B1+i-1] * aOverG
	}
	Qcov[0] = (U[state.UU] - U[state.RHO]) * aOverG
	for i := 1; i < 4; i++ {
		Qcov[i] = U[state.U1+i-1] * aOverG
	}
	for mu := 0; mu < 4; mu++ {
		for nu := 0; nu < 4; nu++ {
			Qcon[mu] += g.Gcon[mu][nu] * Qcov[nu]
			Bcov[mu] += g.Gcov[mu][nu] * Bcon[nu]
		}
	}

	var Bsq, QdB, Qsq float64
	for mu := 0; mu < 4; mu++ {
		Bsq += Bcon[mu] * Bcov[mu]
		QdB += Qcov[mu] * Bcon[mu]
		Qsq += Qcov[mu] * Qcon[mu]
	}
	Qdotn := Qcon[0] * (-alpha)
	Qtsq := Qsq + Qdotn*Qdotn

	s := utop{
		gam:  e.Gamma,
		D:    D,
		Ep:   -Qdotn - D,
		Bsq:  Bsq,
		QdB:  QdB,
		Qtsq: Qtsq,
	}

	// Initial guess from the incoming primitives
	Wp := wpGuess(g, p, e, D)

	// Bracket the root by geometric expansion, then bisect. Slower than a
	// tuned Newton but unconditionally convergent inside the bracket.
	a, b := Wp, Wp
	fa, fb := s.err(a), s.err(b)
	for iter := 0; fa*fb > 0; iter++ {
		if iter >= 40 {
			return RecoveryNoBracket
		}
		a *= 0.5
		b *= 2
		fa, fb = s.err(a), s.err(b)
		if fa*fb <= 0 {
			break
		}
		// tighten to the half interval containing the sign change if any
		if fm := s.err(math.Sqrt(a * b)); fa*fm <= 0 {
			b, fb = math.Sqrt(a*b), fm
		}
	}
	var iter int
	for iter = 0; iter < utopMaxIter; iter++ {
		mid := 0.5 * (a + b)
		fm := s.err(mid)
		if fa*fm <= 0 {
			b, fb = mid, fm
		} else {
			a, fa = mid, fm
		}
		if b-a < utopTol*math.Abs(b) {
			break
		}
	}
	if iter == utopMaxIter {
		return RecoveryMaxIter
	}
	Wp = 0.5 * (a + b)

	var (
		W     = Wp + D
		WB    = W + Bsq
		utsq  = s.utsq(W)
		gamma = math.Sqrt(1 + math.Abs(utsq))
		w     = W / (gamma * gamma)
		rho   = D / gamma
		u     = (w - rho) / e.Gamma
	)
	if !(rho > 0) {
		return RecoveryNegRho
	}
	if u < 0 {
		return RecoveryNegU
	}

	var ncon [4]float64
	for mu := 0; mu < 4; mu++ {
		ncon[mu] = -alpha * g.Gcon[0][mu]
	}
	p[state.RHO] = rho
	p[state.UU] = u
	for i := 1; i < 4; i++ {
		Qtcon := Qcon[i] + ncon[i]*Qdotn
		p[state.U1+i-1] = gamma / WB * (Qtcon + QdB*Bcon[i]/W)
	}
	return RecoveryOK
}

func wpGuess(g *geometry.Geom, p *[state.NPRIM]float64, e eos.GammaLaw, D float64) float64 {
	var qsq float64
	for i := 1; i < 4; i++ {
		for j := 1; j < 4; j++ {
			qsq += g.Gcov[i][j] * p[state.U1+i-1] * p[state.U1+j-1]
		}
	}
	gsq := 1 + qsq
	Wp := e.Enthalpy(p[state.RHO], p[state.UU])*gsq - D
	if !(Wp > 0) || math.IsNaN(Wp) {
		Wp = D
	}
	return Wp
}

func isFinite(U *[state.NPRIM]float64) bool {
	for p := 0; p < state.NPRIM; p++ {
		if math.IsNaN(U[p]) || math.IsInf(U[p], 0) {
			return false
		}
	}
	return true
}

// RecoverPrimitives re-derives primitives from conservatives over bounds,
// restoring lockstep after a conservative update. Failures are recorded
// per-cell in flags (sized NCells, may be nil) and counted; the step itself
// is never aborted here.
func RecoverPrimitives(geom *geometry.Cache, e eos.GammaLaw, sc *state.Container, bounds grid.Bounds, flags []RecoveryFlag, np int) (nFail int) {
	var (
		b     = sc.Block
		fails int64
	)
	utils.ParFor(np, bounds.Ke-bounds.Ks+1, func(kMin, kMax int) {
		var U, P [state.NPRIM]float64
		for kk := kMin; kk < kMax; kk++ {
			k := bounds.Ks + kk
			for j := bounds.Js; j <= bounds.Je; j++ {
				for i := bounds.Is; i <= bounds.Ie; i++ {
					c := b.Index(i, j, k)
					g := geom.At(i, j, k, grid.CellCenter)
					sc.Cons.Get(c, &U)
					sc.Prims.Get(c, &P)
					flag := UtoP(g, &U, e, &P)
					sc.Prims.Set(c, &P)
					if flags != nil {
						flags[c] = flag
					}
					if flag != RecoveryOK {
						atomic.AddInt64(&fails, 1)
					}
				}
			}
		}
	})
	nFail = int(fails)
	return
}

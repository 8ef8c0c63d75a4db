package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Geom bundles the metric quantities the per-cell kernels consume at one
// location: the covariant metric, its inverse, and sqrt(-det g).
type Geom struct {
	Gcov [4][4]float64
	Gcon [4][4]float64
	Gdet float64
}

// Spacetime supplies the covariant metric as a pure function of position.
// Implementations must be safe for unsynchronized concurrent calls.
type Spacetime interface {
	Gcov(x [4]float64) [4][4]float64
}

// Evaluate computes the full metric bundle at x. The 4x4 inverse and
// determinant go through gonum rather than hand-unrolled cofactors.
func Evaluate(st Spacetime, x [4]float64) (g Geom) {
	g.Gcov = st.Gcov(x)
	data := make([]float64, 16)
	for mu := 0; mu < 4; mu++ {
		for nu := 0; nu < 4; nu++ {
			data[mu*4+nu] = g.Gcov[mu][nu]
		}
	}
	m := mat.NewDense(4, 4, data)
	det := mat.Det(m)
	g.Gdet = math.Sqrt(-det)
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		panic("geometry: singular metric: " + err.Error())
	}
	for mu := 0; mu < 4; mu++ {
		for nu := 0; nu < 4; nu++ {
			g.Gcon[mu][nu] = inv.At(mu, nu)
		}
	}
	return
}

// connDelta is the step for numerical metric derivatives in the connection.
const connDelta = 1.e-5

// Connection computes the coefficients conn[lam][nu][kap] = Gamma^lam_{nu kap}
// at x by central-differencing the metric.
func Connection(st Spacetime, x [4]float64) (conn [4][4][4]float64) {
	var dg [4][4][4]float64 // dg[mu][nu][lam] = d_lam g_{mu nu}
	for lam := 0; lam < 4; lam++ {
		xp, xm := x, x
		xp[lam] += connDelta
		xm[lam] -= connDelta
		gp := st.Gcov(xp)
		gm := st.Gcov(xm)
		for mu := 0; mu < 4; mu++ {
			for nu := 0; nu < 4; nu++ {
				dg[mu][nu][lam] = (gp[mu][nu] - gm[mu][nu]) / (2 * connDelta)
			}
		}
	}
	var low [4][4][4]float64 // Gamma_{lam nu kap}
	for lam := 0; lam < 4; lam++ {
		for nu := 0; nu < 4; nu++ {
			for kap := 0; kap < 4; kap++ {
				low[lam][nu][kap] = 0.5 * (dg[lam][nu][kap] + dg[lam][kap][nu] - dg[nu][kap][lam])
			}
		}
	}
	g := Evaluate(st, x)
	for lam := 0; lam < 4; lam++ {
		for nu := 0; nu < 4; nu++ {
			for kap := 0; kap < 4; kap++ {
				var sum float64
				for sig := 0; sig < 4; sig++ {
					sum += g.Gcon[lam][sig] * low[sig][nu][kap]
				}
				conn[lam][nu][kap] = sum
			}
		}
	}
	return
}

// Minkowski is the flat spacetime patch.
type Minkowski struct{}

func (Minkowski) Gcov(x [4]float64) (g [4][4]float64) {
	g[0][0] = -1
	g[1][1] = 1
	g[2][2] = 1
	g[3][3] = 1
	return
}

// WeakField is a static diagonal metric with a smooth potential well centered
// at the origin, used to exercise the curved-geometry paths without
// coordinate singularities.
type WeakField struct {
	Phi0 float64 // well depth, |Phi0| << 1
	L    float64 // well width
}

func (w WeakField) Gcov(x [4]float64) (g [4][4]float64) {
	r2 := x[1]*x[1] + x[2]*x[2] + x[3]*x[3]
	phi := -w.Phi0 * math.Exp(-r2/(w.L*w.L))
	g[0][0] = -(1 + 2*phi)
	g[1][1] = 1 - 2*phi
	g[2][2] = 1 - 2*phi
	g[3][3] = 1 - 2*phi
	return
}

package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/goharm/grid"
)

func TestMinkowskiEvaluate(t *testing.T) {
	g := Evaluate(Minkowski{}, [4]float64{0, 0.3, -0.1, 0.7})
	assert.InDelta(t, 1.0, g.Gdet, 1.e-14)
	assert.InDelta(t, -1.0, g.Gcon[0][0], 1.e-14)
	for i := 1; i < 4; i++ {
		assert.InDelta(t, 1.0, g.Gcon[i][i], 1.e-14)
	}
	for mu := 0; mu < 4; mu++ {
		for nu := 0; nu < 4; nu++ {
			if mu != nu {
				assert.InDelta(t, 0.0, g.Gcon[mu][nu], 1.e-14)
			}
		}
	}
}

func TestMinkowskiConnection(t *testing.T) {
	conn := Connection(Minkowski{}, [4]float64{0, 0.5, 0.5, 0.5})
	for lam := 0; lam < 4; lam++ {
		for nu := 0; nu < 4; nu++ {
			for kap := 0; kap < 4; kap++ {
				assert.InDelta(t, 0.0, conn[lam][nu][kap], 1.e-9)
			}
		}
	}
}

func TestWeakField(t *testing.T) {
	w := WeakField{Phi0: 0.05, L: 0.5}
	g := Evaluate(w, [4]float64{0, 0.1, 0.0, -0.2})

	// timelike signature preserved, finite determinant
	assert.Less(t, g.Gcov[0][0], 0.0)
	assert.Greater(t, g.Gdet, 0.0)
	assert.False(t, math.IsNaN(g.Gdet))

	// inverse really inverts
	for mu := 0; mu < 4; mu++ {
		for nu := 0; nu < 4; nu++ {
			var sum float64
			for sig := 0; sig < 4; sig++ {
				sum += g.Gcon[mu][sig] * g.Gcov[sig][nu]
			}
			want := 0.0
			if mu == nu {
				want = 1.0
			}
			assert.InDelta(t, want, sum, 1.e-12)
		}
	}

	// connection symmetric in the lower index pair
	conn := Connection(w, [4]float64{0, 0.1, 0.0, -0.2})
	for lam := 0; lam < 4; lam++ {
		for nu := 0; nu < 4; nu++ {
			for kap := 0; kap < 4; kap++ {
				assert.InDelta(t, conn[lam][kap][nu], conn[lam][nu][kap], 1.e-10)
			}
		}
	}
	// far from the well the metric is flat and the connection vanishes
	connFar := Connection(w, [4]float64{0, 50, 50, 50})
	assert.InDelta(t, 0.0, connFar[1][0][0], 1.e-9)
}

func TestCache(t *testing.T) {
	b := grid.NewBlock(0, 4, 4, 4, 3, 0, 0, 0, 0.25, 0.25, 0.25)
	ca := NewCache(Minkowski{}, b)
	in := b.Interior()

	gc := ca.At(in.Is, in.Js, in.Ks, grid.CellCenter)
	gf := ca.At(in.Is, in.Js, in.Ks, grid.Face1)
	assert.InDelta(t, 1.0, gc.Gdet, 1.e-14)
	assert.InDelta(t, 1.0, gf.Gdet, 1.e-14)

	conn := ca.Conn(in.Is, in.Js, in.Ks)
	assert.InDelta(t, 0.0, conn[1][0][0], 1.e-9)
}

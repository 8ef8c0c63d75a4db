// Package diag computes run diagnostics: the corner-centered divergence of
// the magnetic field, domain conservation sums, and terminal history plots.
package diag

import (
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/goharm/grid"
	"github.com/notargets/goharm/state"
)

// DivBOp is the corner-centered divergence stencil of one block, assembled
// once as a sparse matrix over the stacked (B1,B2,B3) conservative magnetic
// components. The constrained-transport flux rewrite preserves exactly this
// divergence, so applied to an evolved field it should return values at the
// floating-point roundoff of the initial data.
type DivBOp struct {
	Block    *grid.Block
	D        *sparse.CSR
	nCorners int
}

// corner (i,j,k) is the lower corner of cell (i,j,k); its stencil averages
// the two four-cell planes straddling each direction.
func NewDivBOp(b *grid.Block) *DivBOp {
	var (
		in  = b.Interior()
		nc  = b.NCells()
		ni  = in.Ie - in.Is
		nj  = in.Je - in.Js
		nk  = in.Ke - in.Ks
		dok = sparse.NewDOK(ni*nj*nk, 3*nc)
		row int
	)
	for k := in.Ks + 1; k <= in.Ke; k++ {
		for j := in.Js + 1; j <= in.Je; j++ {
			for i := in.Is + 1; i <= in.Ie; i++ {
				for oi := -1; oi <= 0; oi++ {
					for oj := -1; oj <= 0; oj++ {
						for ok := -1; ok <= 0; ok++ {
							c := b.Index(i+oi, j+oj, k+ok)
							s1, s2, s3 := 1., 1., 1.
							if oi == -1 {
								s1 = -1
							}
							if oj == -1 {
								s2 = -1
							}
							if ok == -1 {
								s3 = -1
							}
							dok.Set(row, 0*nc+c, s1*0.25/b.Dx1)
							dok.Set(row, 1*nc+c, s2*0.25/b.Dx2)
							dok.Set(row, 2*nc+c, s3*0.25/b.Dx3)
						}
					}
				}
				row++
			}
		}
	}
	return &DivBOp{Block: b, D: dok.ToCSR(), nCorners: row}
}

// Apply evaluates the divergence at every interior corner of the block's
// conservative field.
func (op *DivBOp) Apply(cons *state.Field) []float64 {
	var (
		nc = op.Block.NCells()
		bv = mat.NewVecDense(3*nc, nil)
	)
	for d := 0; d < 3; d++ {
		data := cons.Data[state.B1+d]
		for c := 0; c < nc; c++ {
			bv.SetVec(d*nc+c, data[c])
		}
	}
	out := mat.NewVecDense(op.nCorners, nil)
	out.MulVec(op.D, bv)
	return out.RawVector().Data
}

// MaxDivB is the largest absolute corner divergence on the block.
func (op *DivBOp) MaxDivB(cons *state.Field) (max float64) {
	for _, v := range op.Apply(cons) {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	return
}

package driver

import (
	"github.com/notargets/goharm/eos"
	"github.com/notargets/goharm/grmhd"
	"github.com/notargets/goharm/state"
)

// BoundaryOverride is a problem-specific callback invoked after the generic
// boundary fill. It may overwrite ghost-region conservative values for its
// chosen boundary and must never touch interior cells; primitives there are
// restored by the recovery phase that follows.
type BoundaryOverride func(bs *BlockState, sc *state.Container)

// applyGenericBoundaries fills the physical ghost regions of the
// conservative field: periodic wrap or zero-gradient outflow in directions 1
// and 2, and outflow at the direction-3 ends of the stack when the mesh is
// not periodic there. Direction-3 interior interfaces were already filled by
// the ghost exchange.
func (d *Driver) applyGenericBoundaries(bs *BlockState, sc *state.Container) {
	var (
		b  = bs.Block
		in = b.Interior()
		f  = sc.Cons
	)
	// direction 1
	for p := 0; p < state.NPRIM; p++ {
		data := f.Data[p]
		for k := 0; k < b.Ntot3(); k++ {
			for j := 0; j < b.Ntot2(); j++ {
				for g := 0; g < b.NG; g++ {
					var loSrc, hiSrc int
					if d.Periodic[0] {
						loSrc = b.Index(in.Ie-b.NG+1+g, j, k)
						hiSrc = b.Index(in.Is+g, j, k)
					} else {
						loSrc = b.Index(in.Is, j, k)
						hiSrc = b.Index(in.Ie, j, k)
					}
					data[b.Index(g, j, k)] = data[loSrc]
					data[b.Index(in.Ie+1+g, j, k)] = data[hiSrc]
				}
			}
		}
	}
	// direction 2
	for p := 0; p < state.NPRIM; p++ {
		data := f.Data[p]
		for k := 0; k < b.Ntot3(); k++ {
			for i := 0; i < b.Ntot1(); i++ {
				for g := 0; g < b.NG; g++ {
					var loSrc, hiSrc int
					if d.Periodic[1] {
						loSrc = b.Index(i, in.Je-b.NG+1+g, k)
						hiSrc = b.Index(i, in.Js+g, k)
					} else {
						loSrc = b.Index(i, in.Js, k)
						hiSrc = b.Index(i, in.Je, k)
					}
					data[b.Index(i, g, k)] = data[loSrc]
					data[b.Index(i, in.Je+1+g, k)] = data[hiSrc]
				}
			}
		}
	}
	// direction 3 physical ends (outflow); periodic wrap went through the
	// exchanger
	if !d.Periodic[2] {
		isBottom := bs.Block.ID == 0
		isTop := bs.Block.ID == len(d.Blocks)-1
		for p := 0; p < state.NPRIM; p++ {
			data := f.Data[p]
			for j := 0; j < b.Ntot2(); j++ {
				for i := 0; i < b.Ntot1(); i++ {
					for g := 0; g < b.NG; g++ {
						if isBottom {
							data[b.Index(i, j, g)] = data[b.Index(i, j, in.Ks)]
						}
						if isTop {
							data[b.Index(i, j, in.Ke+1+g)] = data[b.Index(i, j, in.Ke)]
						}
					}
				}
			}
		}
	}
}

// NewFixedInflow returns an override pinning the outer direction-1 ghost
// cells to the conservative transform of a fixed primitive state, in the
// manner of an analytic inflow solution held at an outer boundary.
func NewFixedInflow(e eos.GammaLaw, prims [state.NPRIM]float64) BoundaryOverride {
	return func(bs *BlockState, sc *state.Container) {
		var (
			b  = bs.Block
			in = b.Interior()
			P  = prims
			U  [state.NPRIM]float64
			D  grmhd.FourVectors
		)
		for k := 0; k < b.Ntot3(); k++ {
			for j := 0; j < b.Ntot2(); j++ {
				for i := in.Ie + 1; i < b.Ntot1(); i++ {
					g := bs.Geom.At(i, j, k, 0)
					grmhd.GetState(g, &P, &D)
					grmhd.PrimToFlux(g, &P, &D, e, 0, &U)
					sc.Cons.Set(b.Index(i, j, k), &U)
				}
			}
		}
	}
}

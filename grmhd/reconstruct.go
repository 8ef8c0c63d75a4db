package grmhd

import (
	"fmt"
	"strings"

	"github.com/notargets/goharm/grid"
	"github.com/notargets/goharm/state"
)

type ReconType uint

const (
	ReconDonorCell ReconType = iota
	ReconLinearMC
)

var (
	ReconNames = map[string]ReconType{
		"donor":  ReconDonorCell,
		"linear": ReconLinearMC,
	}
	ReconPrintNames = []string{"Donor Cell", "Linear MC"}
)

func (rt ReconType) Print() (txt string) {
	txt = ReconPrintNames[rt]
	return
}

func NewReconType(label string) (rt ReconType) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(label)
	if rt, ok = ReconNames[label]; !ok {
		err = fmt.Errorf("unable to use reconstruction named %s", label)
		panic(err)
	}
	return
}

// dirStride returns the linear-index stride of one cell step in direction dir.
func dirStride(b *grid.Block, dir int) int {
	switch dir {
	case 1:
		return 1
	case 2:
		return b.Ntot1()
	case 3:
		return b.Ntot1() * b.Ntot2()
	}
	panic(fmt.Sprintf("grmhd: invalid direction %d", dir))
}

// mcSlope is the monotonized-central limited slope: second order in smooth
// regions, zero at extrema, never steeper than twice a one-sided difference.
func mcSlope(pm, pc, pp float64) float64 {
	var (
		dl = 2 * (pc - pm)
		dr = 2 * (pp - pc)
		dc = 0.5 * (pp - pm)
	)
	if dl*dr <= 0 {
		return 0
	}
	s := dc
	if dl < 0 {
		if dl > s {
			s = dl
		}
		if dr > s {
			s = dr
		}
	} else {
		if dl < s {
			s = dl
		}
		if dr < s {
			s = dr
		}
	}
	return s
}

// ReconstructLR extrapolates cell-centered primitives to the faces of
// direction dir over the face range bounds. The face tagged (i,j,k) is the
// lower face of cell (i,j,k): pl holds the state extrapolated from the cell
// below it, pr the state extrapolated from the cell itself. Pure per-face
// computation, no side effects.
func ReconstructLR(rt ReconType, prims *state.Field, dir int, bounds grid.Bounds, pl, pr *state.Field) {
	var (
		b  = prims.Block
		s  = dirStride(b, dir)
		in = bounds
	)
	for p := 0; p < state.NPRIM; p++ {
		var (
			src = prims.Data[p]
			dl  = pl.Data[p]
			dr  = pr.Data[p]
		)
		for k := in.Ks; k <= in.Ke; k++ {
			for j := in.Js; j <= in.Je; j++ {
				for i := in.Is; i <= in.Ie; i++ {
					f := b.Index(i, j, k)
					var slopeL, slopeR float64
					if rt == ReconLinearMC {
						slopeL = mcSlope(src[f-2*s], src[f-s], src[f])
						slopeR = mcSlope(src[f-s], src[f], src[f+s])
					}
					dl[f] = src[f-s] + 0.5*slopeL
					dr[f] = src[f] - 0.5*slopeR
				}
			}
		}
	}
}

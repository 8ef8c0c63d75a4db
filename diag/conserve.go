package diag

import (
	"github.com/notargets/goharm/state"
)

// TotalConserved sums every conservative component over a block's interior,
// weighted by the coordinate cell volume. On a periodic mesh the flux-form
// update changes these sums only by the geometric source, so the mass total
// in particular is exactly conserved up to roundoff.
func TotalConserved(sc *state.Container) (totals [state.NPRIM]float64) {
	var (
		b   = sc.Block
		in  = b.Interior()
		vol = b.CellVolume()
	)
	for p := 0; p < state.NPRIM; p++ {
		data := sc.Cons.Data[p]
		var sum float64
		for k := in.Ks; k <= in.Ke; k++ {
			for j := in.Js; j <= in.Je; j++ {
				for i := in.Is; i <= in.Ie; i++ {
					sum += data[b.Index(i, j, k)]
				}
			}
		}
		totals[p] = sum * vol
	}
	return
}

// SumOverBlocks accumulates per-block totals into mesh-wide totals.
func SumOverBlocks(scs []*state.Container) (totals [state.NPRIM]float64) {
	for _, sc := range scs {
		t := TotalConserved(sc)
		for p := 0; p < state.NPRIM; p++ {
			totals[p] += t[p]
		}
	}
	return
}

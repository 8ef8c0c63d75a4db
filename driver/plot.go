package driver

import (
	"sync"
	"time"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/goharm/grid"
	"github.com/notargets/goharm/state"
)

// Plotter draws live line profiles of the primitive state along the
// direction-3 axis of the block stack, sampled at the transverse midline.
type Plotter struct {
	plotOnce   sync.Once
	chart      *chart2d.Chart2D
	colorMap   *utils2.ColorMap
	frameCount int
}

// profile gathers x3 positions and one primitive component over every
// block's interior at the midline.
func profile(blocks []*BlockState, p int) (x, y []float64) {
	for _, bs := range blocks {
		var (
			b    = bs.Block
			in   = b.Interior()
			imid = (in.Is + in.Ie) / 2
			jmid = (in.Js + in.Je) / 2
			data = bs.Container("base").Prims.Data[p]
		)
		for k := in.Ks; k <= in.Ke; k++ {
			x = append(x, b.X(imid, jmid, k, grid.CellCenter)[3])
			y = append(y, data[b.Index(imid, jmid, k)])
		}
	}
	return
}

func (pl *Plotter) Plot(d *Driver, showGraph bool, graphDelay []time.Duration, fmin, fmax float64) {
	if !showGraph {
		return
	}
	pl.plotOnce.Do(func() {
		var (
			first = d.Blocks[0].Block
			last  = d.Blocks[len(d.Blocks)-1].Block
			xmin  = float32(first.X3Min)
			xmax  = float32(last.X3Min + float64(last.N3)*last.Dx3)
		)
		pl.chart = chart2d.NewChart2D(1920, 1280, xmin, xmax, float32(fmin), float32(fmax))
		pl.colorMap = utils2.NewColorMap(-1, 1, 1)
		go pl.chart.Plot()
	})
	pSeries := func(p int, name string, color float32) {
		x, y := profile(d.Blocks, p)
		if err := pl.chart.AddSeries(name, x, y,
			chart2d.NoGlyph, chart2d.Solid, pl.colorMap.GetRGB(color)); err != nil {
			panic("unable to add graph series")
		}
	}
	pSeries(state.RHO, "Rho", -0.7)
	pSeries(state.UU, "UU", 0.0)
	pSeries(state.B2, "B2", 0.7)
	pl.frameCount++
	if len(graphDelay) != 0 {
		time.Sleep(graphDelay[0])
	}
}

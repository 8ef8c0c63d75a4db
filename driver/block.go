package driver

import (
	"github.com/notargets/goharm/geometry"
	"github.com/notargets/goharm/grid"
	"github.com/notargets/goharm/grmhd"
	"github.com/notargets/goharm/state"
)

// BlockState is the per-block runtime: the geometry cache, the stage
// containers, the rate accumulator, and the per-cell recovery flags. Owned
// exclusively by the block advancing the step.
type BlockState struct {
	Block      *grid.Block
	Geom       *geometry.Cache
	Containers map[string]*state.Container
	DUdt       *state.Field
	Flags      []grmhd.RecoveryFlag

	NewDt      float64
	RefineFlag bool
}

func NewBlockState(st geometry.Spacetime, b *grid.Block) (bs *BlockState) {
	bs = &BlockState{
		Block:      b,
		Geom:       geometry.NewCache(st, b),
		Containers: map[string]*state.Container{"base": state.NewContainer(b)},
		Flags:      make([]grmhd.RecoveryFlag, b.NCells()),
	}
	return
}

// Container returns the named stage container; missing names are programmer
// errors.
func (bs *BlockState) Container(name string) *state.Container {
	c, ok := bs.Containers[name]
	if !ok {
		panic("driver: no container named " + name)
	}
	return c
}

// ensureStageContainers lazily creates the per-stage containers and the rate
// accumulator at the first stage of the first step, seeded from base; they
// are reused every following step.
func (bs *BlockState) ensureStageContainers(nstages int) {
	if bs.DUdt != nil {
		return
	}
	bs.DUdt = state.NewField(bs.Block)
	base := bs.Container("base")
	for s := 1; s <= nstages; s++ {
		c := state.NewContainer(bs.Block)
		c.CopyStateFrom(base)
		bs.Containers[StageName(s)] = c
	}
}

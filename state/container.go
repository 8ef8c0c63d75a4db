package state

import (
	"fmt"

	"github.com/notargets/goharm/grid"
)

// Stable field keys, exposed only at the debug/diagnostic boundary for
// interoperability with external boundary and EOS tooling. The layout is
// {role}.{variant}.{physical-set}.{kind}: cell-centered bulk state vs
// face-centered flux quantities.
const (
	KeyPrims = "c.c.bulk.prims"
	KeyCons  = "c.c.bulk.cons"
	KeyFlux  = "f.f.bulk.flux"
	KeyCtop  = "f.f.bulk.ctop"
)

// Container bundles one full copy of the block state for one integrator
// stage: primitives and conservatives in lockstep, plus the transient
// directional flux fields and face wave speeds rebuilt every stage.
// Ownership is exclusive to the block advancing the step.
type Container struct {
	Block *grid.Block
	Prims *Field
	Cons  *Field
	Flux  [4]*Field  // directions 1..3; index 0 unused
	Ctop  [4]*Scalar // directions 1..3; index 0 unused
}

func NewContainer(b *grid.Block) (c *Container) {
	c = &Container{
		Block: b,
		Prims: NewField(b),
		Cons:  NewField(b),
	}
	for dir := 1; dir <= 3; dir++ {
		c.Flux[dir] = NewField(b)
		c.Ctop[dir] = NewScalar(b)
	}
	return
}

// CopyStateFrom copies primitives and conservatives (not the transient flux
// fields) from src.
func (c *Container) CopyStateFrom(src *Container) {
	c.Prims.CopyFrom(src.Prims)
	c.Cons.CopyFrom(src.Cons)
}

// Lookup resolves a stable string key to the underlying storage. Flux and
// ctop keys take a direction suffix, e.g. "f.f.bulk.flux.2".
func (c *Container) Lookup(key string) (interface{}, error) {
	switch key {
	case KeyPrims:
		return c.Prims, nil
	case KeyCons:
		return c.Cons, nil
	}
	for dir := 1; dir <= 3; dir++ {
		if key == fmt.Sprintf("%s.%d", KeyFlux, dir) {
			return c.Flux[dir], nil
		}
		if key == fmt.Sprintf("%s.%d", KeyCtop, dir) {
			return c.Ctop[dir], nil
		}
	}
	return nil, fmt.Errorf("state: unknown field key %q", key)
}

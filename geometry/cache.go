package geometry

import "github.com/notargets/goharm/grid"

// Cache holds the metric bundle at every cell center and face center of a
// block, plus connection coefficients at centers. Built once per block before
// stepping begins; read-only afterward, so it is shared across all concurrent
// kernels without locking.
type Cache struct {
	Block *grid.Block
	geoms [4][]Geom // indexed by grid.Locus
	conn  [][4][4][4]float64
}

func NewCache(st Spacetime, b *grid.Block) (c *Cache) {
	c = &Cache{Block: b}
	n := b.NCells()
	for loc := grid.CellCenter; loc <= grid.Face3; loc++ {
		c.geoms[loc] = make([]Geom, n)
	}
	c.conn = make([][4][4][4]float64, n)
	e := b.Entire()
	for k := e.Ks; k <= e.Ke; k++ {
		for j := e.Js; j <= e.Je; j++ {
			for i := e.Is; i <= e.Ie; i++ {
				idx := b.Index(i, j, k)
				for loc := grid.CellCenter; loc <= grid.Face3; loc++ {
					c.geoms[loc][idx] = Evaluate(st, b.X(i, j, k, loc))
				}
				c.conn[idx] = Connection(st, b.X(i, j, k, grid.CellCenter))
			}
		}
	}
	return
}

func (c *Cache) At(i, j, k int, loc grid.Locus) *Geom {
	return &c.geoms[loc][c.Block.Index(i, j, k)]
}

func (c *Cache) Conn(i, j, k int) *[4][4][4]float64 {
	return &c.conn[c.Block.Index(i, j, k)]
}

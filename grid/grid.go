package grid

// Locus tags the staggered location of a value within a cell: the cell center
// or one of the three face centers (the direction-N face at the lower side of
// the cell in that direction).
type Locus int

const (
	CellCenter Locus = iota
	Face1
	Face2
	Face3
)

var locusNames = []string{"center", "face1", "face2", "face3"}

func (l Locus) String() string {
	return locusNames[l]
}

// Bounds is an inclusive index range in the three grid directions.
type Bounds struct {
	Is, Ie int
	Js, Je int
	Ks, Ke int
}

// Grow expands the bounds by n cells on every side.
func (b Bounds) Grow(n int) Bounds {
	return Bounds{b.Is - n, b.Ie + n, b.Js - n, b.Je + n, b.Ks - n, b.Ke + n}
}

// Block is one rectangular patch of the mesh: an interior region of
// N1 x N2 x N3 cells surrounded by NG ghost cells on every side. Storage is
// i-fastest. A mesh is a sequence of blocks stacked along direction 3; KOffset
// places this block's interior in the global direction-3 index space.
type Block struct {
	ID         int
	N1, N2, N3 int
	NG         int
	KOffset    int

	// Interior lower-corner coordinates and uniform cell spacing, native
	// (coordinate-basis) units
	X1Min, X2Min, X3Min float64
	Dx1, Dx2, Dx3       float64
}

func NewBlock(id, n1, n2, n3, ng int, x1min, x2min, x3min, dx1, dx2, dx3 float64) *Block {
	return &Block{
		ID: id,
		N1: n1, N2: n2, N3: n3,
		NG:    ng,
		X1Min: x1min, X2Min: x2min, X3Min: x3min,
		Dx1: dx1, Dx2: dx2, Dx3: dx3,
	}
}

func (b *Block) Ntot1() int { return b.N1 + 2*b.NG }
func (b *Block) Ntot2() int { return b.N2 + 2*b.NG }
func (b *Block) Ntot3() int { return b.N3 + 2*b.NG }

// NCells is the allocation size of one scalar field on this block, ghosts included.
func (b *Block) NCells() int { return b.Ntot1() * b.Ntot2() * b.Ntot3() }

func (b *Block) Index(i, j, k int) int {
	return i + b.Ntot1()*(j+b.Ntot2()*k)
}

func (b *Block) Interior() Bounds {
	return Bounds{
		b.NG, b.NG + b.N1 - 1,
		b.NG, b.NG + b.N2 - 1,
		b.NG, b.NG + b.N3 - 1,
	}
}

func (b *Block) Entire() Bounds {
	return Bounds{
		0, b.Ntot1() - 1,
		0, b.Ntot2() - 1,
		0, b.Ntot3() - 1,
	}
}

// Halo is the interior grown by n cells; the flux kernels run on Halo(1) so
// the constrained-transport edge average has valid fluxes one cell beyond the
// faces needed for the interior update.
func (b *Block) Halo(n int) Bounds {
	return b.Interior().Grow(n)
}

// X returns the spacetime position (t, x1, x2, x3) of the given locus of cell
// (i,j,k). Face loci sit half a cell below the center in their direction.
func (b *Block) X(i, j, k int, loc Locus) (x [4]float64) {
	x[1] = b.X1Min + (float64(i-b.NG)+0.5)*b.Dx1
	x[2] = b.X2Min + (float64(j-b.NG)+0.5)*b.Dx2
	x[3] = b.X3Min + (float64(k-b.NG)+0.5)*b.Dx3
	switch loc {
	case CellCenter:
	case Face1:
		x[1] -= 0.5 * b.Dx1
	case Face2:
		x[2] -= 0.5 * b.Dx2
	case Face3:
		x[3] -= 0.5 * b.Dx3
	}
	return
}

// CellVolume is the coordinate volume of one cell; metric weighting enters
// through the sqrt(-g) factors folded into fluxes and sources.
func (b *Block) CellVolume() float64 {
	return b.Dx1 * b.Dx2 * b.Dx3
}

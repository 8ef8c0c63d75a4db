// Package state owns the per-block field storage: primitive and conservative
// vectors, directional flux fields and face wave speeds, bundled into stage
// containers for the multistage integrator.
//
// Fields are a record of arrays indexed by the component constants below;
// string keys exist only at the debug/diagnostic boundary (Container.Lookup).
package state

import "github.com/notargets/goharm/grid"

// Primitive / conservative component indices. The two vectors share
// cardinality and ordering.
const (
	RHO = iota // rest-mass density
	UU         // internal energy
	U1         // velocity (normal-observer projected 4-velocity)
	U2
	U3
	B1 // magnetic field
	B2
	B3
	NPRIM
)

var ComponentNames = [NPRIM]string{"rho", "u", "u1", "u2", "u3", "B1", "B2", "B3"}

// Field is one NPRIM-component vector field over a block, ghosts included.
type Field struct {
	Block *grid.Block
	Data  [NPRIM][]float64
}

func NewField(b *grid.Block) (f *Field) {
	f = &Field{Block: b}
	n := b.NCells()
	for p := 0; p < NPRIM; p++ {
		f.Data[p] = make([]float64, n)
	}
	return
}

func (f *Field) CopyFrom(src *Field) {
	for p := 0; p < NPRIM; p++ {
		copy(f.Data[p], src.Data[p])
	}
}

func (f *Field) Zero() {
	for p := 0; p < NPRIM; p++ {
		for i := range f.Data[p] {
			f.Data[p][i] = 0
		}
	}
}

// Get loads the component vector at cell index idx into out.
func (f *Field) Get(idx int, out *[NPRIM]float64) {
	for p := 0; p < NPRIM; p++ {
		out[p] = f.Data[p][idx]
	}
}

// Set stores the component vector v at cell index idx.
func (f *Field) Set(idx int, v *[NPRIM]float64) {
	for p := 0; p < NPRIM; p++ {
		f.Data[p][idx] = v[p]
	}
}

// Scalar is a single-component field over a block.
type Scalar struct {
	Block *grid.Block
	Data  []float64
}

func NewScalar(b *grid.Block) *Scalar {
	return &Scalar{Block: b, Data: make([]float64, b.NCells())}
}

func (s *Scalar) Zero() {
	for i := range s.Data {
		s.Data[i] = 0
	}
}

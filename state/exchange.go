package state

import "github.com/notargets/goharm/utils"

// Exchanger moves ghost-cell slabs and interface flux corrections between the
// blocks of a direction-3 stacked mesh. Sends are posted immediately after
// local compute; receives block only at the point of first use, so exchange
// overlaps with computation on other blocks.
type Exchanger struct {
	NB       int
	Periodic bool // direction-3 periodicity across the block stack
	ghost    *utils.MailBox[slabMsg]
	flux     *utils.MailBox[slabMsg]
}

type slabMsg struct {
	From int
	Low  bool // receiver fills its low-k region when true
	Data []float64
}

func NewExchanger(nb int, periodic bool) *Exchanger {
	return &Exchanger{
		NB:       nb,
		Periodic: periodic,
		ghost:    utils.NewMailBox[slabMsg](nb),
		flux:     utils.NewMailBox[slabMsg](nb),
	}
}

// upper/lower neighbor in the stack, or -1 at a physical end.
func (ex *Exchanger) upper(id int) int {
	if id == ex.NB-1 {
		if ex.Periodic {
			return 0
		}
		return -1
	}
	return id + 1
}

func (ex *Exchanger) lower(id int) int {
	if id == 0 {
		if ex.Periodic {
			return ex.NB - 1
		}
		return -1
	}
	return id - 1
}

// NeighborCount is the number of messages a block expects per exchange.
func (ex *Exchanger) NeighborCount(id int) (n int) {
	if ex.upper(id) >= 0 {
		n++
	}
	if ex.lower(id) >= 0 {
		n++
	}
	return
}

func packSlab(f *Field, kLo, kHi int) (data []float64) {
	var (
		b     = f.Block
		n1    = b.Ntot1()
		n2    = b.Ntot2()
		layer = n1 * n2
	)
	data = make([]float64, 0, NPRIM*(kHi-kLo+1)*layer)
	for p := 0; p < NPRIM; p++ {
		for k := kLo; k <= kHi; k++ {
			base := b.Index(0, 0, k)
			data = append(data, f.Data[p][base:base+layer]...)
		}
	}
	return
}

func unpackSlab(f *Field, kLo, kHi int, data []float64) {
	var (
		b     = f.Block
		n1    = b.Ntot1()
		n2    = b.Ntot2()
		layer = n1 * n2
		pos   int
	)
	for p := 0; p < NPRIM; p++ {
		for k := kLo; k <= kHi; k++ {
			base := b.Index(0, 0, k)
			copy(f.Data[p][base:base+layer], data[pos:pos+layer])
			pos += layer
		}
	}
}

// SendGhosts posts this block's boundary-adjacent interior slabs to its
// direction-3 neighbors. Non-blocking.
func (ex *Exchanger) SendGhosts(id int, f *Field) {
	var (
		b  = f.Block
		in = b.Interior()
	)
	if up := ex.upper(id); up >= 0 {
		// my top interior layers fill the upper neighbor's low ghosts
		ex.ghost.Post(up, slabMsg{From: id, Low: true, Data: packSlab(f, in.Ke-b.NG+1, in.Ke)})
	}
	if lo := ex.lower(id); lo >= 0 {
		ex.ghost.Post(lo, slabMsg{From: id, Low: false, Data: packSlab(f, in.Ks, in.Ks+b.NG-1)})
	}
}

// RecvGhosts blocks until both neighbor slabs arrive and fills this block's
// direction-3 ghost regions.
func (ex *Exchanger) RecvGhosts(id int, f *Field) {
	var (
		b  = f.Block
		in = b.Interior()
	)
	for _, msg := range ex.ghost.Receive(id, ex.NeighborCount(id)) {
		if msg.Low {
			unpackSlab(f, 0, b.NG-1, msg.Data)
		} else {
			unpackSlab(f, in.Ke+1, in.Ke+b.NG, msg.Data)
		}
	}
}

// SendFluxCorrection posts this block's direction-3 flux at the shared
// interface faces. Face k of F3 sits at the lower face of cell k, so the top
// interface face is one past the interior.
func (ex *Exchanger) SendFluxCorrection(id int, f3 *Field) {
	in := f3.Block.Interior()
	if up := ex.upper(id); up >= 0 {
		ex.flux.Post(up, slabMsg{From: id, Low: true, Data: packSlab(f3, in.Ke+1, in.Ke+1)})
	}
	if lo := ex.lower(id); lo >= 0 {
		ex.flux.Post(lo, slabMsg{From: id, Low: false, Data: packSlab(f3, in.Ks, in.Ks)})
	}
}

// RecvFluxCorrection reconciles the shared interface faces to the mean of the
// two blocks' values, so the conservative updates on either side of the
// interface see identical fluxes.
func (ex *Exchanger) RecvFluxCorrection(id int, f3 *Field) {
	var (
		b     = f3.Block
		in    = b.Interior()
		n1    = b.Ntot1()
		layer = n1 * b.Ntot2()
	)
	average := func(k int, data []float64) {
		var pos int
		for p := 0; p < NPRIM; p++ {
			base := b.Index(0, 0, k)
			for c := 0; c < layer; c++ {
				f3.Data[p][base+c] = 0.5 * (f3.Data[p][base+c] + data[pos])
				pos++
			}
		}
	}
	for _, msg := range ex.flux.Receive(id, ex.NeighborCount(id)) {
		if msg.Low {
			average(in.Ks, msg.Data)
		} else {
			average(in.Ke+1, msg.Data)
		}
	}
}

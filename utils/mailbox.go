package utils

// MailBox carries typed messages between a fixed set of peers over buffered
// channels. Sends are non-blocking (posted immediately after local compute),
// receives block until the expected message count arrives, so communication
// overlaps with computation on other peers.
type MailBox[T any] struct {
	NP    int
	Chans []chan T // one inbox per peer
}

func NewMailBox[T any](NP int) *MailBox[T] {
	mb := &MailBox[T]{
		NP:    NP,
		Chans: make([]chan T, NP),
	}
	for n := 0; n < NP; n++ {
		mb.Chans[n] = make(chan T, 2*NP) // worst case is all-to-all, both sides
	}
	return mb
}

func (mb *MailBox[T]) Post(targetPeer int, msg T) {
	mb.Chans[targetPeer] <- msg
}

// Receive blocks until count messages addressed to myPeer have arrived.
func (mb *MailBox[T]) Receive(myPeer, count int) (msgs []T) {
	msgs = make([]T, 0, count)
	for len(msgs) < count {
		msgs = append(msgs, <-mb.Chans[myPeer])
	}
	return
}

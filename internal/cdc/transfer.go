package cdc

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/danmuck/resetctl/internal/domain"
)

var ErrSlotBusy = errors.New("cdc: transfer slot busy")

// Pair is the fixed dual-item payload of one transfer slot.
type Pair struct {
	A uint32
	B uint32
}

// Side is one end of a Transfer, owned by exactly one domain. It
// drives a Producer toward the peer and a Consumer from the peer, plus
// the domain-local storage both directions need.
//
// Outbound rule: a published pair is latched into the output wires and
// never changes until the peer's ack round trip completes. Publish
// rejects a new pair while one is still unacknowledged (single slot).
type Side struct {
	name string
	prod *Producer
	cons *Consumer

	// outbound data wires owned by this side
	outA, outB *domain.WireU32
	// peer's outbound data wires, sampled only on an accepted take
	peerA, peerB *domain.WireU32

	mu        sync.Mutex
	staged    Pair
	stagedSet bool

	latch   Pair
	doLatch bool
	out     Pair

	inNext  Pair
	inLatch bool
	in      atomic.Uint64
}

func (s *Side) Name() string { return s.name }

// Publish stages a pair for transfer toward the peer. Safe from any
// goroutine; fails while a previous pair is staged or unacknowledged.
func (s *Side) Publish(a, b uint32) error {
	if s.prod.Busy() {
		return fmt.Errorf("%w: %s", ErrSlotBusy, s.name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stagedSet {
		return fmt.Errorf("%w: %s", ErrSlotBusy, s.name)
	}
	s.staged = Pair{A: a, B: b}
	s.stagedSet = true
	return nil
}

// Peek returns the last pair accepted from the peer. The two items are
// read as one unit, so a caller can never observe a torn pair. Safe
// from any goroutine.
func (s *Side) Peek() Pair {
	packed := s.in.Load()
	return Pair{A: uint32(packed >> 32), B: uint32(packed)}
}

// Out is the pair currently held on the outbound wires.
func (s *Side) Out() Pair { return s.out }

// InFlight reports whether a published pair is still awaiting its ack
// round trip. Safe from any goroutine.
func (s *Side) InFlight() bool {
	if s.prod.Busy() {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stagedSet
}

// SetHold defers acceptance of inbound pairs from the peer.
func (s *Side) SetHold(v bool) { s.cons.SetHold(v) }

func (s *Side) Eval() {
	s.doLatch = false
	if !s.prod.Busy() {
		s.mu.Lock()
		if s.stagedSet {
			s.latch = s.staged
			s.doLatch = true
		}
		s.mu.Unlock()
	}
	// Took is the committed strobe from the previous tick, so the peer
	// pair sampled here has been stable for at least one full
	// synchronizer round since it was published.
	s.inLatch = false
	if s.cons.Took() {
		s.inNext = Pair{A: s.peerA.Sample(), B: s.peerB.Sample()}
		s.inLatch = true
	}
}

func (s *Side) Commit() {
	if s.doLatch {
		s.out = s.latch
		s.outA.Set(s.out.A)
		s.outB.Set(s.out.B)
		// Raise cannot fail here: doLatch was only set with the
		// producer idle and nothing else raises this producer.
		_ = s.prod.Raise()
		s.mu.Lock()
		s.stagedSet = false
		s.mu.Unlock()
	}
	if s.inLatch {
		s.in.Store(uint64(s.inNext.A)<<32 | uint64(s.inNext.B))
	}
}

func (s *Side) Reset() {
	s.mu.Lock()
	s.stagedSet = false
	s.mu.Unlock()
	s.doLatch = false
	s.inLatch = false
	s.out = Pair{}
	s.outA.Set(0)
	s.outB.Set(0)
	s.in.Store(0)
}

// Transfer moves two fixed-width items bidirectionally between two
// independently-ticking domains. Each direction is a fully decoupled
// handshake, so simultaneous publishes from both sides are legal.
type Transfer struct {
	A *Side
	B *Side
}

// NewTransfer wires a dual-item transfer between domains a and b with
// the given synchronizer depth and registers all clocked units.
func NewTransfer(a, b *domain.Domain, depth int) (*Transfer, error) {
	linkAB, err := NewLink(a.Name() + "->" + b.Name())
	if err != nil {
		return nil, err
	}
	linkBA, err := NewLink(b.Name() + "->" + a.Name())
	if err != nil {
		return nil, err
	}

	var aDataA, aDataB, bDataA, bDataB domain.WireU32

	sideA := &Side{
		name:  a.Name(),
		outA:  &aDataA,
		outB:  &aDataB,
		peerA: &bDataA,
		peerB: &bDataB,
	}
	sideB := &Side{
		name:  b.Name(),
		outA:  &bDataA,
		outB:  &bDataB,
		peerA: &aDataA,
		peerB: &aDataB,
	}

	if sideA.prod, err = NewProducer(a, linkAB, depth); err != nil {
		return nil, err
	}
	if sideA.cons, err = NewConsumer(a, linkBA, depth); err != nil {
		return nil, err
	}
	if sideB.prod, err = NewProducer(b, linkBA, depth); err != nil {
		return nil, err
	}
	if sideB.cons, err = NewConsumer(b, linkAB, depth); err != nil {
		return nil, err
	}

	a.Register(sideA)
	b.Register(sideB)
	return &Transfer{A: sideA, B: sideB}, nil
}

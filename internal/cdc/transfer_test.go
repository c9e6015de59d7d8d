package cdc

import (
	"errors"
	"testing"

	"github.com/danmuck/resetctl/internal/domain"
	"github.com/danmuck/resetctl/internal/testutil/testlog"
)

func newTransferPair(t *testing.T, depth int) (*domain.Domain, *domain.Domain, *Transfer) {
	t.Helper()
	a, err := domain.New("alpha")
	if err != nil {
		t.Fatalf("new domain: %v", err)
	}
	b, err := domain.New("beta")
	if err != nil {
		t.Fatalf("new domain: %v", err)
	}
	x, err := NewTransfer(a, b, depth)
	if err != nil {
		t.Fatalf("new transfer: %v", err)
	}
	return a, b, x
}

// settle interleaves ticks of both domains until the pair is idle or
// the bound is hit.
func settle(a, b *domain.Domain, x *Transfer, bound int) {
	for i := 0; i < bound; i++ {
		a.Step()
		b.Step()
		if !x.A.InFlight() && !x.B.InFlight() {
			return
		}
	}
}

func TestTransferDeliversPair(t *testing.T) {
	testlog.Start(t)
	a, b, x := newTransferPair(t, 3)

	if err := x.A.Publish(0xCAFE0001, 0xCAFE0002); err != nil {
		t.Fatalf("publish: %v", err)
	}
	settle(a, b, x, 40)

	got := x.B.Peek()
	if got.A != 0xCAFE0001 || got.B != 0xCAFE0002 {
		t.Fatalf("pair not delivered: %+v", got)
	}
	if x.A.InFlight() {
		t.Fatalf("slot still in flight after settle")
	}
}

func TestTransferNoTearingWhileUnacknowledged(t *testing.T) {
	testlog.Start(t)
	a, b, x := newTransferPair(t, 2)
	x.B.SetHold(true)

	if err := x.A.Publish(0x11112222, 0x33334444); err != nil {
		t.Fatalf("publish: %v", err)
	}
	// let the pair reach the wires
	a.Step()
	a.Step()
	want := x.A.Out()
	if (want != Pair{A: 0x11112222, B: 0x33334444}) {
		t.Fatalf("published pair not latched: %+v", want)
	}

	// the consumer never acknowledges; every intermediate view of the
	// slot must be exactly the published pair
	for i := 0; i < 60; i++ {
		a.Step()
		b.Step()
		if got := x.A.Out(); got != want {
			t.Fatalf("slot torn at step %d: %+v", i, got)
		}
		if !x.A.InFlight() {
			t.Fatalf("slot released without acknowledgment at step %d", i)
		}
	}

	x.B.SetHold(false)
	settle(a, b, x, 40)
	if got := x.B.Peek(); got != want {
		t.Fatalf("pair lost after late ack: %+v", got)
	}
}

func TestTransferSingleSlotBackPressure(t *testing.T) {
	testlog.Start(t)
	a, b, x := newTransferPair(t, 2)

	if err := x.A.Publish(1, 2); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := x.A.Publish(3, 4); !errors.Is(err, ErrSlotBusy) {
		t.Fatalf("expected ErrSlotBusy, got %v", err)
	}
	a.Step()
	if err := x.A.Publish(3, 4); !errors.Is(err, ErrSlotBusy) {
		t.Fatalf("expected ErrSlotBusy mid-flight, got %v", err)
	}

	settle(a, b, x, 40)
	if err := x.A.Publish(3, 4); err != nil {
		t.Fatalf("publish after settle: %v", err)
	}
	settle(a, b, x, 40)
	if got := x.B.Peek(); (got != Pair{A: 3, B: 4}) {
		t.Fatalf("second pair not delivered: %+v", got)
	}
}

func TestTransferBidirectionalIndependent(t *testing.T) {
	testlog.Start(t)
	a, b, x := newTransferPair(t, 3)

	if err := x.A.Publish(10, 20); err != nil {
		t.Fatalf("publish a: %v", err)
	}
	if err := x.B.Publish(30, 40); err != nil {
		t.Fatalf("publish b: %v", err)
	}
	settle(a, b, x, 60)

	if got := x.B.Peek(); (got != Pair{A: 10, B: 20}) {
		t.Fatalf("a->b pair wrong: %+v", got)
	}
	if got := x.A.Peek(); (got != Pair{A: 30, B: 40}) {
		t.Fatalf("b->a pair wrong: %+v", got)
	}
}

func TestTransferPeekNeverTorn(t *testing.T) {
	testlog.Start(t)
	a, b, x := newTransferPair(t, 2)

	// A always publishes matching halves; any observed pair whose
	// halves disagree was torn.
	words := []uint32{0x01010101, 0x02020202, 0x03030303, 0x04040404}
	for _, w := range words {
		if err := x.A.Publish(w, ^w); err != nil {
			t.Fatalf("publish %#x: %v", w, err)
		}
		for i := 0; i < 40; i++ {
			a.Step()
			b.Step()
			got := x.B.Peek()
			if got != (Pair{}) && got.B != ^got.A {
				t.Fatalf("torn pair observed: %+v", got)
			}
			if !x.A.InFlight() {
				break
			}
		}
	}
	if got := x.B.Peek(); got.A != words[len(words)-1] {
		t.Fatalf("last pair not delivered: %+v", got)
	}
}

func TestTransferReset(t *testing.T) {
	testlog.Start(t)
	a, b, x := newTransferPair(t, 2)
	if err := x.A.Publish(7, 8); err != nil {
		t.Fatalf("publish: %v", err)
	}
	settle(a, b, x, 40)

	a.Reset()
	b.Reset()
	if x.A.InFlight() || x.B.InFlight() {
		t.Fatalf("reset left a slot in flight")
	}
	if got := x.B.Peek(); got != (Pair{}) {
		t.Fatalf("reset did not clear accepted pair: %+v", got)
	}

	if err := x.A.Publish(9, 10); err != nil {
		t.Fatalf("publish after reset: %v", err)
	}
	settle(a, b, x, 40)
	if got := x.B.Peek(); (got != Pair{A: 9, B: 10}) {
		t.Fatalf("transfer dead after reset: %+v", got)
	}
}

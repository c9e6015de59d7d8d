package runctl

import (
	"errors"
	"sync/atomic"

	"github.com/danmuck/resetctl/internal/domain"
	"github.com/danmuck/resetctl/internal/observability"
)

var ErrInvalidLaneCount = errors.New("runctl: invalid lane count")

// Issuer derives the reset line from the decoder state and fans it out
// to N identical lanes. The line is registered once per tick so
// combinational glitches never reach the fan-out: lane values change
// one tick after the state does, and all lanes always carry the same
// value.
type Issuer struct {
	dec   *Decoder
	lanes []bool
	next  bool
	pub   atomic.Bool
	wire  *domain.Wire
}

func NewIssuer(dec *Decoder, lanes int) (*Issuer, error) {
	if lanes < 1 {
		return nil, ErrInvalidLaneCount
	}
	return &Issuer{dec: dec, lanes: make([]bool, lanes)}, nil
}

// Drive additionally mirrors the registered line onto a cross-domain
// wire so a reset-consuming domain can synchronize it.
func (i *Issuer) Drive(w *domain.Wire) { i.wire = w }

// Line is the committed reset level, for logic in the same domain.
func (i *Issuer) Line() bool { return i.lanes[0] }

// Observe is the committed reset level, safe from any goroutine.
func (i *Issuer) Observe() bool { return i.pub.Load() }

// Lanes returns a copy of the fan-out values.
func (i *Issuer) Lanes() []bool {
	out := make([]bool, len(i.lanes))
	copy(out, i.lanes)
	return out
}

func (i *Issuer) Eval() {
	i.next = i.dec.State() == StateSync
}

func (i *Issuer) Commit() {
	if i.next != i.lanes[0] {
		observability.RecordResetTransition(i.next)
	}
	for n := range i.lanes {
		i.lanes[n] = i.next
	}
	i.pub.Store(i.next)
	if i.wire != nil {
		i.wire.Set(i.next)
	}
}

func (i *Issuer) Reset() {
	i.next = false
	for n := range i.lanes {
		i.lanes[n] = false
	}
	i.pub.Store(false)
	if i.wire != nil {
		i.wire.Set(false)
	}
}

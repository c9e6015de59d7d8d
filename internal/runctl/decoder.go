package runctl

import (
	"sync"
	"sync/atomic"

	"github.com/danmuck/resetctl/internal/observability"
)

// Command is one ingress stream sample: a 9-bit code plus its valid
// flag.
type Command struct {
	Code  uint16
	Valid bool
}

// Decoder latches the run state from the command stream. On a tick
// with valid asserted the decoded state is latched; otherwise the
// state holds. Asynchronous domain reset forces StateIdle without
// waiting for a tick.
type Decoder struct {
	state RunState
	next  RunState
	cur   Command
	pub   atomic.Uint32

	mu      sync.Mutex
	pending Command
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Offer stages one stream sample to be consumed on the next tick. Safe
// from any goroutine; a later Offer before the tick overwrites an
// earlier one, matching a stream re-driving its lines.
func (d *Decoder) Offer(cmd Command) {
	d.mu.Lock()
	d.pending = cmd
	d.mu.Unlock()
}

// StreamReady is the back-pressure output toward the command stream.
// It is a fixed-true stub: the decoder always accepts.
// TODO: derive from the state machine once the intended back-pressure
// behavior is specified.
func (d *Decoder) StreamReady() bool { return true }

// State is the committed run state, for logic in the same domain.
func (d *Decoder) State() RunState { return d.state }

// Observe is the committed run state, safe from any goroutine.
func (d *Decoder) Observe() RunState { return RunState(d.pub.Load()) }

func (d *Decoder) Eval() {
	// consume the staged sample; an Offer racing this tick lands on
	// the next one instead of being lost
	d.mu.Lock()
	d.cur = d.pending
	d.pending = Command{}
	d.mu.Unlock()
	d.next = d.state
	if d.cur.Valid {
		d.next = DecodeCommand(d.cur.Code)
	}
}

func (d *Decoder) Commit() {
	if d.cur.Valid {
		if d.next == StateError {
			observability.RecordInvalidCommand()
		}
		observability.RecordCommandDecoded(d.next.String())
	}
	d.state = d.next
	d.pub.Store(uint32(d.state))
}

func (d *Decoder) Reset() {
	d.state = StateIdle
	d.next = StateIdle
	d.cur = Command{}
	d.pub.Store(uint32(StateIdle))
	d.mu.Lock()
	d.pending = Command{}
	d.mu.Unlock()
}

package cdc

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/danmuck/resetctl/internal/domain"
	"github.com/danmuck/resetctl/internal/observability"
)

var (
	ErrInvalidLinkName   = errors.New("cdc: invalid link name")
	ErrHandshakeInFlight = errors.New("cdc: handshake already in flight")
)

// Link is the wire pair of one handshake direction: a ready wire owned
// by the producer domain and an ack wire owned by the consumer domain.
type Link struct {
	name  string
	ready domain.Wire
	ack   domain.Wire
}

func NewLink(name string) (*Link, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidLinkName
	}
	return &Link{name: name}, nil
}

func (l *Link) Name() string { return l.name }

// ProducerState tracks one direction's 4-phase progress in the
// producer domain.
type ProducerState uint8

const (
	ProducerIdle ProducerState = iota
	ProducerReadyAsserted
	ProducerAckObserved
)

func (s ProducerState) String() string {
	switch s {
	case ProducerIdle:
		return "idle"
	case ProducerReadyAsserted:
		return "ready_asserted"
	case ProducerAckObserved:
		return "ack_observed"
	default:
		return "unknown"
	}
}

// Producer drives the ready wire of a Link and watches the ack wire
// through its own synchronizer chain. Ready is held until the
// synchronized ack is observed, then dropped; the producer is not
// reusable until the synchronized ack has returned low, completing all
// four phases.
type Producer struct {
	link    *Link
	ackSync *Synchronizer

	state ProducerState
	next  ProducerState
	pub   atomic.Uint32

	mu    sync.Mutex
	raise bool
}

// NewProducer builds the producer half of link inside d and registers
// its clocked units with d.
func NewProducer(d *domain.Domain, link *Link, depth int) (*Producer, error) {
	chain, err := NewSynchronizer(&link.ack, depth)
	if err != nil {
		return nil, err
	}
	p := &Producer{link: link, ackSync: chain}
	d.Register(chain, p)
	return p, nil
}

// Raise requests one handshake cycle. It fails if a previous cycle has
// not completed its ack round trip.
func (p *Producer) Raise() error {
	if p.Busy() {
		return ErrHandshakeInFlight
	}
	p.mu.Lock()
	p.raise = true
	p.mu.Unlock()
	return nil
}

// Busy reports whether a raise is staged or a cycle is in flight. Safe
// from any goroutine.
func (p *Producer) Busy() bool {
	p.mu.Lock()
	raise := p.raise
	p.mu.Unlock()
	return raise || p.State() != ProducerIdle
}

// State is the committed producer state. Safe from any goroutine.
func (p *Producer) State() ProducerState {
	return ProducerState(p.pub.Load())
}

func (p *Producer) Eval() {
	ack := p.ackSync.Out()
	p.next = p.state
	switch p.state {
	case ProducerIdle:
		p.mu.Lock()
		raise := p.raise
		p.mu.Unlock()
		if raise {
			p.next = ProducerReadyAsserted
		}
	case ProducerReadyAsserted:
		if ack {
			p.next = ProducerAckObserved
		}
	case ProducerAckObserved:
		if !ack {
			p.next = ProducerIdle
		}
	}
}

func (p *Producer) Commit() {
	if p.state == ProducerIdle && p.next == ProducerReadyAsserted {
		p.mu.Lock()
		p.raise = false
		p.mu.Unlock()
	}
	if p.state == ProducerReadyAsserted && p.next == ProducerAckObserved {
		observability.RecordHandshakeRoundTrip(p.link.name)
	}
	p.state = p.next
	p.pub.Store(uint32(p.state))
	p.link.ready.Set(p.state == ProducerReadyAsserted)
}

func (p *Producer) Reset() {
	p.state = ProducerIdle
	p.next = ProducerIdle
	p.pub.Store(uint32(ProducerIdle))
	p.link.ready.Set(false)
	p.mu.Lock()
	p.raise = false
	p.mu.Unlock()
}

// Consumer drives the ack wire of a Link and watches the ready wire
// through its own synchronizer chain. Ack follows the synchronized
// ready level: asserted while ready is observed high, dropped when it
// falls. Took strobes for exactly one tick when a new ready is first
// accepted.
type Consumer struct {
	link      *Link
	readySync *Synchronizer

	acking     bool
	nextAcking bool
	take       bool
	nextTake   bool

	hold atomic.Bool
}

// NewConsumer builds the consumer half of link inside d and registers
// its clocked units with d.
func NewConsumer(d *domain.Domain, link *Link, depth int) (*Consumer, error) {
	chain, err := NewSynchronizer(&link.ready, depth)
	if err != nil {
		return nil, err
	}
	c := &Consumer{link: link, readySync: chain}
	d.Register(chain, c)
	return c, nil
}

// SetHold defers acceptance of new handshakes. A cycle already being
// acknowledged still completes; only the start of the next one is
// gated.
func (c *Consumer) SetHold(v bool) { c.hold.Store(v) }

// Took reports whether a new pair of phases was accepted on the last
// committed tick.
func (c *Consumer) Took() bool { return c.take }

// Acking is the committed ack level.
func (c *Consumer) Acking() bool { return c.acking }

func (c *Consumer) Eval() {
	ready := c.readySync.Out()
	held := c.hold.Load()
	c.nextTake = ready && !c.acking && !held
	c.nextAcking = ready && (c.acking || !held)
}

func (c *Consumer) Commit() {
	c.take = c.nextTake
	c.acking = c.nextAcking
	c.link.ack.Set(c.acking)
}

func (c *Consumer) Reset() {
	c.acking = false
	c.nextAcking = false
	c.take = false
	c.nextTake = false
	c.link.ack.Set(false)
}

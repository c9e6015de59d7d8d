package sequencer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/resetctl/internal/cdc"
	"github.com/danmuck/resetctl/internal/domain"
	"github.com/danmuck/resetctl/internal/mgmt"
	"github.com/danmuck/resetctl/internal/runctl"
)

var (
	ErrInvalidLaneCount = errors.New("sequencer: invalid lane count")
	ErrInvalidSyncDepth = errors.New("sequencer: invalid synchronizer depth")
	ErrInvalidPeriod    = errors.New("sequencer: invalid tick period")
)

// Config sets the structural knobs of one sequencer instance. The
// three periods are deliberately unrelated by default: the domains
// share no phase or frequency relationship.
type Config struct {
	Lanes     int
	SyncDepth int

	CommandPeriod time.Duration
	ResetPeriod   time.Duration
	BusPeriod     time.Duration
}

func DefaultConfig() Config {
	return Config{
		Lanes:         4,
		SyncDepth:     cdc.DefaultDepth,
		CommandPeriod: time.Millisecond,
		ResetPeriod:   1700 * time.Microsecond,
		BusPeriod:     1300 * time.Microsecond,
	}
}

func (c Config) validate() error {
	if c.Lanes < 1 {
		return ErrInvalidLaneCount
	}
	if c.SyncDepth < cdc.MinDepth {
		return ErrInvalidSyncDepth
	}
	if c.CommandPeriod <= 0 || c.ResetPeriod <= 0 || c.BusPeriod <= 0 {
		return ErrInvalidPeriod
	}
	return nil
}

// Sequencer is the assembled subsystem: the command/issuing domain
// hosting decoder and issuer, a reset-consuming domain observing the
// line through a synchronizer, and the management bus domain exchanging
// synthesizer configuration words with the issuing domain over a
// dual-item transfer.
type Sequencer struct {
	cfg Config

	command *domain.Domain
	reset   *domain.Domain
	bus     *domain.Domain

	dec *runctl.Decoder
	iss *runctl.Issuer

	resetWire domain.Wire
	resetTap  *cdc.Synchronizer

	xfer    *cdc.Transfer
	adapter *mgmt.Adapter
}

// New assembles a sequencer. dev is the register device behind the
// management bus; nil terminates the bus with the stub.
func New(cfg Config, dev mgmt.Device) (*Sequencer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	command, err := domain.New("command")
	if err != nil {
		return nil, err
	}
	reset, err := domain.New("reset")
	if err != nil {
		return nil, err
	}
	bus, err := domain.New("bus")
	if err != nil {
		return nil, err
	}

	s := &Sequencer{cfg: cfg, command: command, reset: reset, bus: bus}

	s.dec = runctl.NewDecoder()
	s.iss, err = runctl.NewIssuer(s.dec, cfg.Lanes)
	if err != nil {
		return nil, err
	}
	s.iss.Drive(&s.resetWire)
	command.Register(s.dec, s.iss)

	s.resetTap, err = cdc.NewSynchronizer(&s.resetWire, cfg.SyncDepth)
	if err != nil {
		return nil, err
	}
	reset.Register(s.resetTap)

	s.xfer, err = cdc.NewTransfer(bus, command, cfg.SyncDepth)
	if err != nil {
		return nil, err
	}
	s.adapter = mgmt.NewAdapter(s.xfer.A, dev)
	command.Register(&readback{side: s.xfer.B})

	return s, nil
}

// OfferCommand presents one 9-bit code with the valid flag asserted
// for the next command-domain tick.
func (s *Sequencer) OfferCommand(code uint16) {
	s.dec.Offer(runctl.Command{Code: code, Valid: true})
}

// PulseReset asserts the asynchronous domain reset: every register is
// forced to its initial state immediately, RunState to idle, all lanes
// low, without waiting for a tick.
func (s *Sequencer) PulseReset() {
	s.command.Reset()
	s.reset.Reset()
	s.bus.Reset()
	log.Info().Msg("domain_reset")
}

// ApplyBusRequest services one management bus access in the bus
// domain's context.
func (s *Sequencer) ApplyBusRequest(req mgmt.BusRequest) mgmt.BusReply {
	return s.adapter.Apply(req)
}

// ConfigReadback is the last configuration word echoed back by the
// issuing domain.
func (s *Sequencer) ConfigReadback() mgmt.ConfigWord {
	return s.adapter.Reply()
}

// LatestConfig is the last configuration word the issuing domain
// accepted from the bus.
func (s *Sequencer) LatestConfig() mgmt.ConfigWord {
	return mgmt.WordFromPair(s.xfer.B.Peek())
}

// StepCommand, StepReset and StepBus advance one domain by one tick
// for deterministic, externally-scheduled use.
func (s *Sequencer) StepCommand() { s.command.Step() }
func (s *Sequencer) StepReset()   { s.reset.Step() }
func (s *Sequencer) StepBus()     { s.bus.Step() }

// Start free-runs all three domains until ctx is done.
func (s *Sequencer) Start(ctx context.Context) error {
	log.Info().
		Int("lanes", s.cfg.Lanes).
		Int("sync_depth", s.cfg.SyncDepth).
		Dur("command_period", s.cfg.CommandPeriod).
		Dur("reset_period", s.cfg.ResetPeriod).
		Dur("bus_period", s.cfg.BusPeriod).
		Msg("sequencer_start")

	var wg sync.WaitGroup
	run := func(d *domain.Domain, period time.Duration) {
		defer wg.Done()
		_ = d.Run(ctx, period)
	}
	wg.Add(3)
	go run(s.command, s.cfg.CommandPeriod)
	go run(s.reset, s.cfg.ResetPeriod)
	go run(s.bus, s.cfg.BusPeriod)
	wg.Wait()
	return ctx.Err()
}

// Snapshot is a point-in-time external view of the subsystem.
type Snapshot struct {
	RunState      string          `json:"run_state"`
	ResetLine     bool            `json:"reset_line"`
	ObservedReset bool            `json:"observed_reset"`
	Lanes         int             `json:"lanes"`
	StreamReady   bool            `json:"stream_ready"`
	CommandTicks  uint64          `json:"command_ticks"`
	ResetTicks    uint64          `json:"reset_ticks"`
	BusTicks      uint64          `json:"bus_ticks"`
	BusInFlight   bool            `json:"bus_in_flight"`
	IssueInFlight bool            `json:"issue_in_flight"`
	LatestConfig  mgmt.ConfigWord `json:"latest_config"`
	Readback      mgmt.ConfigWord `json:"readback"`
}

func (s *Sequencer) Status() Snapshot {
	return Snapshot{
		RunState:      s.dec.Observe().String(),
		ResetLine:     s.iss.Observe(),
		ObservedReset: s.resetTap.Observe(),
		Lanes:         s.cfg.Lanes,
		StreamReady:   s.dec.StreamReady(),
		CommandTicks:  s.command.Ticks(),
		ResetTicks:    s.reset.Ticks(),
		BusTicks:      s.bus.Ticks(),
		BusInFlight:   s.xfer.A.InFlight(),
		IssueInFlight: s.xfer.B.InFlight(),
		LatestConfig:  s.LatestConfig(),
		Readback:      s.ConfigReadback(),
	}
}

// readback echoes each configuration word the issuing domain accepts
// back toward the bus domain, giving bus reads a round-trip
// confirmation path.
type readback struct {
	side    *cdc.Side
	last    cdc.Pair
	staged  cdc.Pair
	doStage bool
}

func (r *readback) Eval() {
	r.doStage = false
	p := r.side.Peek()
	if p != r.last && !r.side.InFlight() {
		r.staged = p
		r.doStage = true
	}
}

func (r *readback) Commit() {
	if !r.doStage {
		return
	}
	if err := r.side.Publish(r.staged.A, r.staged.B); err == nil {
		r.last = r.staged
	}
}

func (r *readback) Reset() {
	r.last = cdc.Pair{}
	r.staged = cdc.Pair{}
	r.doStage = false
}

package domain

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/resetctl/internal/observability"
)

var (
	ErrInvalidDomainName = errors.New("domain: invalid domain name")
	ErrInvalidTickPeriod = errors.New("domain: invalid tick period")
)

// Logic is one clocked unit inside a domain. Eval computes next state
// from committed state; Commit publishes it. Within one tick every
// registered unit's Eval runs before any unit's Commit, so all Eval
// reads observe pre-tick values.
type Logic interface {
	Eval()
	Commit()
}

// Resettable units are forced to their initial state by Domain.Reset,
// outside the normal tick sequence.
type Resettable interface {
	Reset()
}

// Domain is a named execution context advancing on its own ticks. It
// has no phase or frequency relationship to any other Domain.
type Domain struct {
	name  string
	mu    sync.Mutex
	units []Logic
	ticks atomic.Uint64
}

func New(name string) (*Domain, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidDomainName
	}
	return &Domain{name: name}, nil
}

func (d *Domain) Name() string { return d.name }

// Register adds a clocked unit. Registration order does not affect
// results: Step runs all Evals before all Commits.
func (d *Domain) Register(units ...Logic) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.units = append(d.units, units...)
}

// Step advances the domain by one tick.
func (d *Domain) Step() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.units {
		u.Eval()
	}
	for _, u := range d.units {
		u.Commit()
	}
	d.ticks.Add(1)
}

// Ticks reports how many ticks have elapsed since construction.
func (d *Domain) Ticks() uint64 { return d.ticks.Load() }

// Reset forces every Resettable unit to its initial state immediately,
// without waiting for a tick.
func (d *Domain) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.units {
		if r, ok := u.(Resettable); ok {
			r.Reset()
		}
	}
}

// Run free-runs the domain at the given period until ctx is done.
func (d *Domain) Run(ctx context.Context, period time.Duration) error {
	if period <= 0 {
		return ErrInvalidTickPeriod
	}
	log.Debug().Str("domain", d.name).Dur("period", period).Msg("domain_run")
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("domain", d.name).Uint64("ticks", d.Ticks()).Msg("domain_stop")
			return ctx.Err()
		case <-ticker.C:
			d.Step()
			observability.RecordDomainTick(d.name)
		}
	}
}

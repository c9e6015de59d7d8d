package cdc

import (
	"errors"
	"sync/atomic"

	"github.com/danmuck/resetctl/internal/domain"
)

const (
	// MinDepth is the smallest chain giving a metastable first stage
	// one full destination tick to settle before logic consumes it.
	MinDepth = 2
	// DefaultDepth matches the reference three-stage chain.
	DefaultDepth = 3
)

var ErrDepthTooShallow = errors.New("cdc: synchronizer depth below minimum")

// Synchronizer re-samples a wire produced in another domain through a
// fixed chain of stages clocked by the destination domain. Out changes
// only on destination ticks. Source toggles faster than roughly one
// destination tick may be coalesced; callers must hold levels, not
// pulse.
type Synchronizer struct {
	src    *domain.Wire
	stages []bool
	next   []bool
	pub    atomic.Bool
}

func NewSynchronizer(src *domain.Wire, depth int) (*Synchronizer, error) {
	if depth < MinDepth {
		return nil, ErrDepthTooShallow
	}
	return &Synchronizer{
		src:    src,
		stages: make([]bool, depth),
		next:   make([]bool, depth),
	}, nil
}

func (s *Synchronizer) Depth() int { return len(s.stages) }

// Out is the settled copy of the source bit, valid in the destination
// domain.
func (s *Synchronizer) Out() bool { return s.stages[len(s.stages)-1] }

// Observe is the committed output, safe from any goroutine.
func (s *Synchronizer) Observe() bool { return s.pub.Load() }

func (s *Synchronizer) Eval() {
	s.next[0] = s.src.Sample()
	for i := 1; i < len(s.stages); i++ {
		s.next[i] = s.stages[i-1]
	}
}

func (s *Synchronizer) Commit() {
	copy(s.stages, s.next)
	s.pub.Store(s.Out())
}

func (s *Synchronizer) Reset() {
	for i := range s.stages {
		s.stages[i] = false
		s.next[i] = false
	}
	s.pub.Store(false)
}

package domain

import "sync/atomic"

// Reg is a clocked register: Get returns the committed value, Set
// stages the next one. Without a Set the register holds. Reg is only
// safe within its owning domain; use a Wire to cross domains.
type Reg[T any] struct {
	initial T
	cur     T
	next    T
	pending bool
}

func NewReg[T any](initial T) *Reg[T] {
	return &Reg[T]{initial: initial, cur: initial}
}

func (r *Reg[T]) Get() T { return r.cur }

func (r *Reg[T]) Set(v T) {
	r.next = v
	r.pending = true
}

func (r *Reg[T]) Eval() {}

func (r *Reg[T]) Commit() {
	if r.pending {
		r.cur = r.next
		r.pending = false
	}
}

func (r *Reg[T]) Reset() {
	r.cur = r.initial
	r.pending = false
}

// Wire is a single-bit cross-domain carrier. Exactly one domain writes
// it; other domains may only sample it through a synchronizer chain.
type Wire struct {
	v atomic.Bool
}

func (w *Wire) Set(v bool)   { w.v.Store(v) }
func (w *Wire) Sample() bool { return w.v.Load() }

// WireU32 carries one 32-bit word across domains. Same ownership rule
// as Wire: one writer, synchronized observation only.
type WireU32 struct {
	v atomic.Uint32
}

func (w *WireU32) Set(v uint32)   { w.v.Store(v) }
func (w *WireU32) Sample() uint32 { return w.v.Load() }

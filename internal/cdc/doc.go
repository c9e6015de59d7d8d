// Package cdc owns clock-domain-crossing primitives.
//
// Ownership boundary:
// - multi-stage synchronizer chains
// - level-based 4-phase ready/ack handshake halves
// - dual-item single-slot cross-domain transfer
//
// All signaling is level-held, never pulsed: a synchronizer chain may
// coalesce toggles faster than the destination tick, so a pulse can be
// lost but a held level cannot.
package cdc

// Package admin owns the operator-facing HTTP surface.
//
// Ownership boundary:
// - health/status/metrics routes
// - command injection and domain-reset endpoints
//
// admin only observes and strobes the sequencer; it holds no
// subsystem state of its own.
package admin

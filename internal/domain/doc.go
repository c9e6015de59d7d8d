// Package domain owns tick-domain execution primitives.
//
// Ownership boundary:
// - independently-progressing tick domains
// - two-phase (eval/commit) register update discipline
// - atomic cross-domain wire cells
//
// A domain never reads another domain's registers directly; the only
// legal carrier between domains is a Wire sampled through a
// synchronizer chain (see internal/cdc).
package domain

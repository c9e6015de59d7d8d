// Package sequencer owns subsystem assembly.
//
// Ownership boundary:
// - the three tick domains and their wiring
// - decoder, issuer, reset crossing, config transfer, bus adapter
// - the asynchronous domain-reset input
// - status snapshots for the admin surface
//
// sequencer does not own any crossing primitive; those live in cdc.
package sequencer

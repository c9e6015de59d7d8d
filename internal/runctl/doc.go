// Package runctl owns run-control decode and reset issue concerns.
//
// Ownership boundary:
// - run state enumeration and one-hot command decode
// - valid-gated state latch for the ingress command stream
// - registered reset line derivation and lane fan-out
//
// runctl does not own the ingress transport or the reset receivers.
package runctl

// Package mgmt owns the management register-access bus boundary.
//
// Ownership boundary:
// - bus request/reply shapes (address, strobes, data, wait-request)
// - pluggable register device interface with a stub termination
// - staging of configuration words across the bus/issuing domain
//   boundary
//
// The frequency synthesizer behind the bus is an external device;
// mgmt only forwards words to and from it.
package mgmt

// Package provider defines the identity-provider port consumed by authcore.
//
// A [Provider] performs credential verification, session issuance, and
// session-change notification. authcore treats the wire protocol behind a
// Provider as opaque: implementations may wrap a remote identity service or
// run fully in-process (see provider/memory).
//
// # What this package must NOT do
//
//   - Import authcore or any sibling package (no import cycles).
//   - Prescribe token formats; Session carries opaque strings.
package provider

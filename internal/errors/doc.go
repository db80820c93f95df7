// Package errors provides structured, coded errors for configuration and
// CLI failures. Each code maps to a registered template carrying the
// message, detail and a fix suggestion, so the CLI can print actionable
// diagnostics instead of bare strings.
//
// Engine invariant violations are not errors: the reconciler and host
// adapters panic on programmer mistakes. This package covers the
// recoverable surface, things a user can fix by editing reflow.json or a
// command line.
package errors

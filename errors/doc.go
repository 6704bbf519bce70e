// Package errors provides the structured error type shared by the container
// and its supporting packages. Every error carries a machine-readable code so
// callers can branch on the failure kind without string matching.
package errors

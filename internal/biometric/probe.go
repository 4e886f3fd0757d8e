// Package biometric abstracts device biometric authentication. The server
// never sees biometric data; it only coordinates challenge outcomes that
// the client device reports back.
package biometric

import "context"

// Result is the outcome of a biometric challenge.
type Result struct {
	// Success reports whether the device verified the user.
	Success bool
	// FallbackRequested is set when the user chose to enter their PIN
	// instead of completing the biometric prompt.
	FallbackRequested bool
}

// Probe runs a biometric challenge against the user's device.
type Probe interface {
	// Authenticate blocks until the device reports an outcome or ctx is
	// done. A ctx error means no outcome was received in time.
	Authenticate(ctx context.Context) (Result, error)
}

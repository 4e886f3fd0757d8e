package biometric

import (
	"context"
	"sync"
)

// AsyncProbe is a Probe fed by out-of-band reports. The HTTP layer calls
// Report when the device posts its challenge outcome; a concurrent
// Authenticate call receives it.
type AsyncProbe struct {
	mu      sync.Mutex
	pending chan Result
}

// NewAsyncProbe creates an AsyncProbe with no challenge in flight.
func NewAsyncProbe() *AsyncProbe {
	return &AsyncProbe{}
}

// Authenticate waits for the next reported outcome. Only one challenge can
// be in flight at a time; a second concurrent call waits on the same
// outcome channel created by the first.
func (p *AsyncProbe) Authenticate(ctx context.Context) (Result, error) {
	p.mu.Lock()
	if p.pending == nil {
		p.pending = make(chan Result, 1)
	}
	ch := p.pending
	p.mu.Unlock()

	select {
	case res := <-ch:
		p.mu.Lock()
		if p.pending == ch {
			p.pending = nil
		}
		p.mu.Unlock()
		return res, nil
	case <-ctx.Done():
		p.mu.Lock()
		if p.pending == ch {
			p.pending = nil
		}
		p.mu.Unlock()
		return Result{}, ctx.Err()
	}
}

// Report delivers a device outcome to a waiting Authenticate call. It
// returns false when no challenge is waiting for a result.
func (p *AsyncProbe) Report(res Result) bool {
	p.mu.Lock()
	ch := p.pending
	p.mu.Unlock()
	if ch == nil {
		return false
	}
	select {
	case ch <- res:
		return true
	default:
		// Outcome already delivered for this challenge.
		return false
	}
}

// Package authgate implements the app lock state machine. Each client
// session owns one Gate that starts locked and transitions to unlocked
// only through a successful PIN or biometric challenge.
package authgate

import (
	"context"
	"sync"
	"time"

	"fintrack/internal/biometric"
	"fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/services"
)

// State is the gate's current lock state.
type State string

const (
	// StateLocked is the initial state before Init has decided which
	// challenge to run.
	StateLocked State = "locked"
	// StateChallengingBiometric means a biometric prompt is in flight.
	StateChallengingBiometric State = "challenging_biometric"
	// StateChallengingPin means the gate is waiting for a PIN attempt.
	StateChallengingPin State = "challenging_pin"
	// StateUnlocked grants access to the protected API.
	StateUnlocked State = "unlocked"
)

// Gate is a single session's lock state machine. All methods are safe
// for concurrent use.
type Gate struct {
	credentials services.CredentialServicer
	settings    services.SettingsServicer
	probe       biometric.Probe
	// probeTimeout bounds how long a biometric challenge may stay in
	// flight before falling back to the PIN challenge.
	probeTimeout time.Duration

	mu       sync.Mutex
	state    State
	lastErr  error
	probing  bool
	initDone bool
	// gen identifies the current biometric challenge so an outcome from
	// an abandoned probe cannot apply to a later one.
	gen uint64
}

// New creates a locked Gate. Call Init to start the first challenge.
func New(credentials services.CredentialServicer, settings services.SettingsServicer, probe biometric.Probe, probeTimeout time.Duration) *Gate {
	return &Gate{
		credentials:  credentials,
		settings:     settings,
		probe:        probe,
		probeTimeout: probeTimeout,
		state:        StateLocked,
	}
}

// Init decides the initial challenge. With no PIN configured the gate
// unlocks immediately. With a PIN and biometrics enabled it starts a
// biometric challenge; otherwise it waits for a PIN. When credential
// presence cannot be determined the gate fails closed into the PIN
// challenge.
func (g *Gate) Init(ctx context.Context) State {
	g.mu.Lock()
	if g.initDone {
		state := g.state
		g.mu.Unlock()
		return state
	}
	g.initDone = true

	enabled, err := g.credentials.Enabled()
	if err != nil {
		logger.Get().Errorw("credential check failed, failing closed", "error", err)
		g.state = StateChallengingPin
		g.lastErr = err
		g.mu.Unlock()
		return StateChallengingPin
	}
	if !enabled {
		g.state = StateUnlocked
		g.mu.Unlock()
		return StateUnlocked
	}

	useBiometric := false
	if g.probe != nil {
		settings, err := g.settings.Load()
		if err != nil {
			logger.Get().Errorw("settings load failed during init", "error", err)
		} else {
			useBiometric = settings.BiometricEnabled
		}
	}

	if !useBiometric {
		g.state = StateChallengingPin
		g.mu.Unlock()
		return StateChallengingPin
	}

	g.state = StateChallengingBiometric
	g.probing = true
	g.gen++
	gen := g.gen
	g.mu.Unlock()

	go g.runProbe(ctx, gen)
	return StateChallengingBiometric
}

// runProbe waits for the biometric outcome and transitions the gate.
func (g *Gate) runProbe(ctx context.Context, gen uint64) {
	probeCtx, cancel := context.WithTimeout(ctx, g.probeTimeout)
	defer cancel()

	result, err := g.probe.Authenticate(probeCtx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen != gen {
		return
	}
	g.probing = false

	// The gate may have been unlocked by a PIN, or the outcome already
	// delivered synchronously, while the probe was in flight; a stale
	// outcome must not regress the state.
	if g.state != StateChallengingBiometric {
		return
	}
	g.applyOutcomeLocked(result, err)
}

// applyOutcomeLocked transitions out of the biometric challenge. Any
// outcome other than success lands in the PIN challenge. The caller
// holds g.mu and has verified the challenge is still in flight.
func (g *Gate) applyOutcomeLocked(result biometric.Result, err error) {
	switch {
	case err != nil:
		logger.Get().Infow("biometric challenge expired", "error", err)
		g.state = StateChallengingPin
	case result.Success:
		g.state = StateUnlocked
		g.lastErr = nil
		logger.Get().Info("unlocked via biometric")
	case result.FallbackRequested:
		g.state = StateChallengingPin
	default:
		g.state = StateChallengingPin
		g.lastErr = errors.WithMessage(errors.ErrAppLocked, "Biometric authentication failed")
	}
}

// DeliverBiometric applies a device biometric outcome synchronously, so
// the state read after it returns already reflects the outcome. It
// returns false when no biometric challenge is in flight.
func (g *Gate) DeliverBiometric(result biometric.Result) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateChallengingBiometric {
		return false
	}
	g.probing = false
	g.applyOutcomeLocked(result, nil)
	return true
}

// SubmitPIN attempts to unlock with a PIN. Valid from either challenge
// state; a submission during a biometric challenge abandons the probe.
func (g *Gate) SubmitPIN(pin string) error {
	g.mu.Lock()
	state := g.state
	g.mu.Unlock()

	if state == StateUnlocked {
		return nil
	}
	if state == StateLocked {
		return errors.WithMessage(errors.ErrAppLocked, "Gate has not been initialized")
	}

	// Credential verification runs outside the lock; bcrypt comparison
	// is slow and must not block State readers.
	err := g.credentials.Verify(pin)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateUnlocked {
		return nil
	}
	if err != nil {
		g.state = StateChallengingPin
		g.lastErr = err
		return err
	}

	g.state = StateUnlocked
	g.lastErr = nil
	logger.Get().Info("unlocked via PIN")
	return nil
}

// RetryBiometric restarts the biometric challenge from the PIN
// challenge state. Only one challenge may be in flight at a time.
func (g *Gate) RetryBiometric(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateUnlocked {
		return nil
	}
	if g.probing || g.state == StateChallengingBiometric {
		return errors.ErrChallengeBusy
	}
	if g.probe == nil {
		return errors.WithMessage(errors.ErrInvalidInput, "Biometric authentication is not available")
	}

	settings, err := g.settings.Load()
	if err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}
	if !settings.BiometricEnabled {
		return errors.WithMessage(errors.ErrInvalidInput, "Biometric authentication is disabled")
	}

	g.state = StateChallengingBiometric
	g.probing = true
	g.gen++
	go g.runProbe(ctx, g.gen)
	return nil
}

// State returns the current lock state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// LastError returns the most recent challenge error, if any.
func (g *Gate) LastError() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// Unlocked reports whether the gate grants access.
func (g *Gate) Unlocked() bool {
	return g.State() == StateUnlocked
}

// Lock returns the gate to the PIN challenge, requiring a fresh unlock.
func (g *Gate) Lock() {
	g.mu.Lock()
	defer g.mu.Unlock()
	// An in-flight probe outcome is discarded by runProbe's state check.
	g.state = StateChallengingPin
	g.lastErr = nil
}

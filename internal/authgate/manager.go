package authgate

import (
	"context"
	"sync"
	"time"

	"fintrack/internal/biometric"
	"fintrack/internal/services"
	"fintrack/internal/uuid"
)

// Manager tracks one Gate per client session.
type Manager struct {
	credentials  services.CredentialServicer
	settings     services.SettingsServicer
	probeTimeout time.Duration

	mu    sync.Mutex
	gates map[string]*session
}

type session struct {
	gate  *Gate
	probe *biometric.AsyncProbe
}

// NewManager creates a session manager.
func NewManager(credentials services.CredentialServicer, settings services.SettingsServicer, probeTimeout time.Duration) *Manager {
	return &Manager{
		credentials:  credentials,
		settings:     settings,
		probeTimeout: probeTimeout,
		gates:        make(map[string]*session),
	}
}

// Open creates a new session, initializes its gate and returns the
// session ID together with the gate's initial state.
func (m *Manager) Open(ctx context.Context) (string, State) {
	probe := biometric.NewAsyncProbe()
	gate := New(m.credentials, m.settings, probe, m.probeTimeout)

	id := uuid.New()
	m.mu.Lock()
	m.gates[id] = &session{gate: gate, probe: probe}
	m.mu.Unlock()

	// The probe goroutine outlives the opening request.
	state := gate.Init(context.WithoutCancel(ctx))
	return id, state
}

// Gate returns the gate for a session, or false when the session does
// not exist.
func (m *Manager) Gate(id string) (*Gate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.gates[id]
	if !ok {
		return nil, false
	}
	return s.gate, true
}

// ReportBiometric delivers a device biometric outcome to the session's
// in-flight challenge. The gate transition is applied before this
// returns, so a state read immediately after reflects the outcome. It
// returns false when the session does not exist or no challenge is
// waiting.
func (m *Manager) ReportBiometric(id string, result biometric.Result) bool {
	m.mu.Lock()
	s, ok := m.gates[id]
	m.mu.Unlock()
	if !ok {
		return false
	}
	if !s.gate.DeliverBiometric(result) {
		return false
	}
	// Wake the probe goroutine; its late outcome is discarded.
	s.probe.Report(result)
	return true
}

// Close removes a session.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.gates, id)
	m.mu.Unlock()
}

package authgate

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/biometric"
	"fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

// fakeCredentials implements services.CredentialServicer in memory.
type fakeCredentials struct {
	pin        string
	enabledErr error
}

func (f *fakeCredentials) Enabled() (bool, error) {
	if f.enabledErr != nil {
		return false, f.enabledErr
	}
	return f.pin != "", nil
}

func (f *fakeCredentials) Set(pin, confirm string) error {
	f.pin = pin
	return nil
}

func (f *fakeCredentials) Change(current, newPin, confirm string) error {
	if err := f.Verify(current); err != nil {
		return err
	}
	f.pin = newPin
	return nil
}

func (f *fakeCredentials) Disable(current string) error {
	if err := f.Verify(current); err != nil {
		return err
	}
	f.pin = ""
	return nil
}

func (f *fakeCredentials) Verify(pin string) error {
	if f.pin == "" {
		return errors.ErrPinNotSet
	}
	if pin != f.pin {
		return errors.ErrIncorrectPin
	}
	return nil
}

// fakeSettings implements services.SettingsServicer in memory.
type fakeSettings struct {
	settings models.UserSettings
}

func (f *fakeSettings) Load() (models.UserSettings, error) { return f.settings, nil }
func (f *fakeSettings) Save(s models.UserSettings) error   { f.settings = s; return nil }

func waitForState(t *testing.T, gate *Gate, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if gate.State() == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("gate never reached state %q, stuck at %q", want, gate.State())
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestGateInit(t *testing.T) {
	t.Run("no_pin_unlocks_immediately", func(t *testing.T) {
		gate := New(&fakeCredentials{}, &fakeSettings{settings: models.DefaultSettings()}, nil, time.Second)

		state := gate.Init(context.Background())
		if state != StateUnlocked {
			t.Errorf("expected unlocked, got %q", state)
		}
	})

	t.Run("pin_without_biometric_challenges_pin", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		gate := New(creds, &fakeSettings{settings: models.DefaultSettings()}, nil, time.Second)

		state := gate.Init(context.Background())
		if state != StateChallengingPin {
			t.Errorf("expected challenging_pin, got %q", state)
		}
	})

	t.Run("biometric_enabled_challenges_biometric", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		settings := models.DefaultSettings()
		settings.BiometricEnabled = true
		gate := New(creds, &fakeSettings{settings: settings}, biometric.NewAsyncProbe(), time.Second)

		state := gate.Init(context.Background())
		if state != StateChallengingBiometric {
			t.Errorf("expected challenging_biometric, got %q", state)
		}
	})

	t.Run("fails_closed_when_credential_check_errors", func(t *testing.T) {
		creds := &fakeCredentials{enabledErr: errors.ErrInternalServer}
		gate := New(creds, &fakeSettings{settings: models.DefaultSettings()}, nil, time.Second)

		state := gate.Init(context.Background())
		if state != StateChallengingPin {
			t.Errorf("expected fail-closed challenging_pin, got %q", state)
		}
	})

	t.Run("init_is_idempotent", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		gate := New(creds, &fakeSettings{settings: models.DefaultSettings()}, nil, time.Second)

		first := gate.Init(context.Background())
		second := gate.Init(context.Background())
		if first != second {
			t.Errorf("expected same state on repeat init, got %q then %q", first, second)
		}
	})
}

func TestGateSubmitPIN(t *testing.T) {
	t.Run("correct_pin_unlocks", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		gate := New(creds, &fakeSettings{settings: models.DefaultSettings()}, nil, time.Second)
		gate.Init(context.Background())

		testutil.AssertNoError(t, gate.SubmitPIN("1234"))
		if !gate.Unlocked() {
			t.Error("expected unlocked after correct PIN")
		}
	})

	t.Run("incorrect_pin_stays_challenging", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		gate := New(creds, &fakeSettings{settings: models.DefaultSettings()}, nil, time.Second)
		gate.Init(context.Background())

		err := gate.SubmitPIN("9999")
		testutil.AssertAppError(t, err, "INCORRECT_PIN")
		if gate.State() != StateChallengingPin {
			t.Errorf("expected challenging_pin after wrong PIN, got %q", gate.State())
		}
		if gate.LastError() == nil {
			t.Error("expected LastError to be set")
		}

		// A correct attempt afterwards still unlocks.
		testutil.AssertNoError(t, gate.SubmitPIN("1234"))
		if !gate.Unlocked() {
			t.Error("expected unlocked after retry with correct PIN")
		}
	})

	t.Run("rejects_before_init", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		gate := New(creds, &fakeSettings{settings: models.DefaultSettings()}, nil, time.Second)

		err := gate.SubmitPIN("1234")
		testutil.AssertAppError(t, err, "APP_LOCKED")
	})
}

func TestGateBiometric(t *testing.T) {
	biometricSettings := func() models.UserSettings {
		s := models.DefaultSettings()
		s.BiometricEnabled = true
		return s
	}

	t.Run("success_unlocks", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		probe := biometric.NewAsyncProbe()
		gate := New(creds, &fakeSettings{settings: biometricSettings()}, probe, time.Second)
		gate.Init(context.Background())

		deadline := time.Now().Add(time.Second)
		for !probe.Report(biometric.Result{Success: true}) {
			if time.Now().After(deadline) {
				t.Fatal("probe never accepted the result")
			}
			time.Sleep(time.Millisecond)
		}
		waitForState(t, gate, StateUnlocked)
	})

	t.Run("failure_falls_back_to_pin", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		probe := biometric.NewAsyncProbe()
		gate := New(creds, &fakeSettings{settings: biometricSettings()}, probe, time.Second)
		gate.Init(context.Background())

		deadline := time.Now().Add(time.Second)
		for !probe.Report(biometric.Result{Success: false}) {
			if time.Now().After(deadline) {
				t.Fatal("probe never accepted the result")
			}
			time.Sleep(time.Millisecond)
		}
		waitForState(t, gate, StateChallengingPin)
		if gate.LastError() == nil {
			t.Error("expected LastError after biometric failure")
		}
	})

	t.Run("fallback_request_goes_to_pin_without_error", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		probe := biometric.NewAsyncProbe()
		gate := New(creds, &fakeSettings{settings: biometricSettings()}, probe, time.Second)
		gate.Init(context.Background())

		deadline := time.Now().Add(time.Second)
		for !probe.Report(biometric.Result{FallbackRequested: true}) {
			if time.Now().After(deadline) {
				t.Fatal("probe never accepted the result")
			}
			time.Sleep(time.Millisecond)
		}
		waitForState(t, gate, StateChallengingPin)
		if gate.LastError() != nil {
			t.Errorf("expected no error for user-requested fallback, got %v", gate.LastError())
		}
	})

	t.Run("timeout_falls_back_to_pin", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		probe := biometric.NewAsyncProbe()
		gate := New(creds, &fakeSettings{settings: biometricSettings()}, probe, 30*time.Millisecond)
		gate.Init(context.Background())

		waitForState(t, gate, StateChallengingPin)
	})

	t.Run("pin_during_biometric_challenge_wins", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		probe := biometric.NewAsyncProbe()
		gate := New(creds, &fakeSettings{settings: biometricSettings()}, probe, time.Second)
		gate.Init(context.Background())

		testutil.AssertNoError(t, gate.SubmitPIN("1234"))
		if !gate.Unlocked() {
			t.Fatal("expected unlocked via PIN")
		}

		// A stale biometric failure must not re-lock the gate.
		probe.Report(biometric.Result{Success: false})
		time.Sleep(20 * time.Millisecond)
		if !gate.Unlocked() {
			t.Error("stale biometric outcome regressed the gate state")
		}
	})

	t.Run("delivered_outcome_applies_synchronously", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		probe := biometric.NewAsyncProbe()
		gate := New(creds, &fakeSettings{settings: biometricSettings()}, probe, time.Second)
		gate.Init(context.Background())

		if !gate.DeliverBiometric(biometric.Result{Success: true}) {
			t.Fatal("expected delivery during the challenge to be accepted")
		}
		if !gate.Unlocked() {
			t.Error("expected unlocked immediately after delivery")
		}

		// Nothing is in flight anymore.
		if gate.DeliverBiometric(biometric.Result{Success: false}) {
			t.Error("expected delivery after unlock to be rejected")
		}
	})

	t.Run("retry_while_challenge_in_flight_is_rejected", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		probe := biometric.NewAsyncProbe()
		gate := New(creds, &fakeSettings{settings: biometricSettings()}, probe, time.Second)
		gate.Init(context.Background())

		err := gate.RetryBiometric(context.Background())
		testutil.AssertAppError(t, err, "CHALLENGE_BUSY")
	})

	t.Run("retry_from_pin_challenge_restarts_probe", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		probe := biometric.NewAsyncProbe()
		gate := New(creds, &fakeSettings{settings: biometricSettings()}, probe, 30*time.Millisecond)
		gate.Init(context.Background())
		waitForState(t, gate, StateChallengingPin)

		testutil.AssertNoError(t, gate.RetryBiometric(context.Background()))
		if gate.State() != StateChallengingBiometric {
			t.Errorf("expected challenging_biometric after retry, got %q", gate.State())
		}
	})

	t.Run("retry_rejected_when_biometric_disabled", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		probe := biometric.NewAsyncProbe()
		gate := New(creds, &fakeSettings{settings: models.DefaultSettings()}, probe, time.Second)
		gate.Init(context.Background())

		err := gate.RetryBiometric(context.Background())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestManager(t *testing.T) {
	t.Run("open_and_lookup", func(t *testing.T) {
		creds := &fakeCredentials{}
		manager := NewManager(creds, &fakeSettings{settings: models.DefaultSettings()}, time.Second)

		id, state := manager.Open(context.Background())
		if state != StateUnlocked {
			t.Errorf("expected unlocked with no PIN, got %q", state)
		}

		gate, ok := manager.Gate(id)
		if !ok || gate == nil {
			t.Fatal("expected to find the opened session")
		}
	})

	t.Run("unknown_session", func(t *testing.T) {
		manager := NewManager(&fakeCredentials{}, &fakeSettings{settings: models.DefaultSettings()}, time.Second)

		if _, ok := manager.Gate("nope"); ok {
			t.Error("expected lookup miss for unknown session")
		}
	})

	t.Run("report_applies_before_returning", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		settings := models.DefaultSettings()
		settings.BiometricEnabled = true
		manager := NewManager(creds, &fakeSettings{settings: settings}, time.Second)

		id, state := manager.Open(context.Background())
		if state != StateChallengingBiometric {
			t.Fatalf("expected challenging_biometric, got %q", state)
		}

		if !manager.ReportBiometric(id, biometric.Result{Success: true}) {
			t.Fatal("expected the report to be accepted")
		}

		// No settling: the transition is visible as soon as the report
		// call returns.
		gate, _ := manager.Gate(id)
		if gate.State() != StateUnlocked {
			t.Errorf("expected unlocked right after report, got %q", gate.State())
		}
	})

	t.Run("report_without_challenge_rejected", func(t *testing.T) {
		creds := &fakeCredentials{pin: "1234"}
		settings := models.DefaultSettings()
		settings.BiometricEnabled = true
		manager := NewManager(creds, &fakeSettings{settings: settings}, time.Second)

		id, _ := manager.Open(context.Background())
		if !manager.ReportBiometric(id, biometric.Result{Success: true}) {
			t.Fatal("expected the first report to be accepted")
		}
		if manager.ReportBiometric(id, biometric.Result{Success: false}) {
			t.Error("expected a report after unlock to be rejected")
		}
		if manager.ReportBiometric("nope", biometric.Result{Success: true}) {
			t.Error("expected a report for an unknown session to be rejected")
		}
	})

	t.Run("close_removes_session", func(t *testing.T) {
		manager := NewManager(&fakeCredentials{}, &fakeSettings{settings: models.DefaultSettings()}, time.Second)
		id, _ := manager.Open(context.Background())

		manager.Close(id)
		if _, ok := manager.Gate(id); ok {
			t.Error("expected session to be gone after close")
		}
	})
}

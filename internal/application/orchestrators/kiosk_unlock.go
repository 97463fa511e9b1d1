package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// ErrWrongPIN is the single error surfaced for a failed PIN check. The PIN
// is a convenience gate against accidental access, not a security boundary;
// failed attempts are silently retryable.
var ErrWrongPIN = errors.New("wrong access PIN")

// KioskUnlockInput carries input for the kiosk PIN gate.
type KioskUnlockInput struct {
	PIN string
}

// KioskUnlockDeps holds dependencies for KioskUnlock.
type KioskUnlockDeps struct {
	State InfoState
}

// ExecuteKioskUnlock checks the entered PIN against the current session's
// access code. Evaluated fresh on every kiosk session; nothing is remembered
// across reloads.
// POST: Returns nil on an exact (trimmed) match, ErrWrongPIN otherwise
func ExecuteKioskUnlock(_ context.Context, input KioskUnlockInput, deps KioskUnlockDeps) error {
	entered := strings.TrimSpace(input.PIN)
	expected := strings.TrimSpace(deps.State.Info().AccessCode)
	if entered == "" || entered != expected {
		slog.Info("auth_event", "event", "kiosk_unlock_failed")
		return ErrWrongPIN
	}
	slog.Info("auth_event", "event", "kiosk_unlocked")
	return nil
}

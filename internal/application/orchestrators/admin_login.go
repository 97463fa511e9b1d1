package orchestrators

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"signsheet/internal/domain/audit"
)

// ErrInvalidCredentials is the single error surfaced for any admin login
// failure. It never indicates which field was wrong.
var ErrInvalidCredentials = errors.New("invalid admin ID or password")

// AdminCredentials holds the configured static admin credential pair.
// The password is kept only as a bcrypt hash.
type AdminCredentials struct {
	ID           string
	PasswordHash []byte
}

// NewAdminCredentials hashes the configured password for later comparison.
// PRE: id and password are non-empty
func NewAdminCredentials(id, password string) (AdminCredentials, error) {
	if id == "" || password == "" {
		return AdminCredentials{}, errors.New("admin ID and password must be configured")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AdminCredentials{}, err
	}
	return AdminCredentials{ID: id, PasswordHash: hash}, nil
}

// AdminLoginInput carries input for the admin login orchestrator.
type AdminLoginInput struct {
	ID       string
	Password string
}

// AdminLoginDeps holds dependencies for AdminLogin.
type AdminLoginDeps struct {
	Credentials AdminCredentials
	AuditStore  AuditStore
}

// ExecuteAdminLogin checks the credential pair against the configured pair.
// Failed attempts are silently retryable; there is no lockout.
// PRE: Credentials have been configured
// POST: Returns nil on an exact match, ErrInvalidCredentials otherwise
func ExecuteAdminLogin(ctx context.Context, input AdminLoginInput, deps AdminLoginDeps) error {
	idOK := subtle.ConstantTimeCompare([]byte(input.ID), []byte(deps.Credentials.ID)) == 1
	passOK := bcrypt.CompareHashAndPassword(deps.Credentials.PasswordHash, []byte(input.Password)) == nil
	if !idOK || !passOK {
		slog.Info("auth_event", "event", "admin_login_failed")
		return ErrInvalidCredentials
	}

	recordAudit(ctx, deps.AuditStore, audit.NewEvent(input.ID, audit.ActionLogin))
	slog.Info("auth_event", "event", "admin_login_success")
	return nil
}

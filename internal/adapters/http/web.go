package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"signsheet/internal/adapters/email"
	"signsheet/internal/adapters/http/middleware"
	auditStore "signsheet/internal/adapters/storage/audit"
	"signsheet/internal/application/orchestrators"
	appstate "signsheet/internal/application/state"
)

// Deps holds everything the HTTP surface needs.
type Deps struct {
	State       *appstate.State
	AuditStore  auditStore.Store
	Credentials orchestrators.AdminCredentials
	Sender      email.Sender
	Renderer    orchestrators.SheetRenderer

	// BaseURL overrides request-derived origins when building shareable
	// links. Leave empty to derive from each request.
	BaseURL   string
	EmailFrom string

	// CSRFKey is the 32-byte CSRF secret (hex-decoded from config). Empty
	// means generate a random per-startup key, which is a development-only
	// behaviour.
	CSRFKey    []byte
	Production bool
}

// Global deps instance (set by NewMux)
var deps *Deps

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// csrfKey validates the configured CSRF secret, or generates a throwaway one
// for development.
func csrfKey(d *Deps) []byte {
	if len(d.CSRFKey) > 0 {
		if len(d.CSRFKey) != 32 {
			log.Fatal("csrf_key must be 32 bytes (64 hex characters)")
		}
		return d.CSRFKey
	}
	if d.Production {
		log.Fatal("csrf_key is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set SIGNSHEET_CSRF_KEY for production.")
	return key
}

// DecodeCSRFKey parses a hex-encoded CSRF secret from config.
func DecodeCSRFKey(keyHex string) []byte {
	if keyHex == "" {
		return nil
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != 32 {
		log.Fatal("csrf_key must be 64 hex characters (32 bytes)")
	}
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, d *Deps) http.Handler {
	deps = d
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = d.Production

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey(d)),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(),
	)
}

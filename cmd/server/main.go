package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "signsheet/internal/adapters/email"
	web "signsheet/internal/adapters/http"
	"signsheet/internal/adapters/pdf"
	"signsheet/internal/adapters/storage"
	auditStore "signsheet/internal/adapters/storage/audit"
	stateStore "signsheet/internal/adapters/storage/state"
	"signsheet/internal/application/orchestrators"
	appstate "signsheet/internal/application/state"
	"signsheet/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	configureLogging(cfg.LogLevel)

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully!")

	// Wrap DB with slow-query logging
	loggedDB := storage.NewLoggedDB(db)

	// Load the write-through state: durable values, defaults on a fresh
	// or unreadable database.
	st, err := appstate.Load(context.Background(), stateStore.NewSQLiteStore(loggedDB), time.Now())
	if err != nil {
		log.Fatalf("failed to load application state: %v", err)
	}

	creds, err := orchestrators.NewAdminCredentials(cfg.AdminID, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("failed to configure admin credentials: %v", err)
	}

	// Configure email sender
	var sender emailPkg.Sender
	if cfg.ResendAPIKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			log.Println("WARNING: resend_api_key is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set SIGNSHEET_RESEND_API_KEY for real delivery)")
		}
	}

	// Optional organisation logo for the exported sheet header
	var logoPNG []byte
	if data, err := os.ReadFile(filepath.Join("static", "logo.png")); err == nil {
		logoPNG = data
	}

	mux := web.NewMux("static", &web.Deps{
		State:       st,
		AuditStore:  auditStore.NewSQLiteStore(loggedDB),
		Credentials: creds,
		Sender:      sender,
		Renderer:    pdf.NewRenderer(logoPNG),
		BaseURL:     cfg.BaseURL,
		EmailFrom:   cfg.EmailFrom,
		CSRFKey:     web.DecodeCSRFKey(cfg.CSRFKey),
		Production:  cfg.IsProduction(),
	})

	log.Printf("Signsheet %s starting on %s (env=%s)", version, cfg.Addr, cfg.Env)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// configureLogging sets the process-wide slog level.
func configureLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// Command woctl is the terminal companion to the workpanel GUI: it drives
// the same backend with the same stored session.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	backendadapter "github.com/jcastellan/workpanel/internal/adapter/driven/backend"
	sqliteadapter "github.com/jcastellan/workpanel/internal/adapter/driven/sqlite"
	"github.com/jcastellan/workpanel/internal/application"
	"github.com/jcastellan/workpanel/internal/config"
)

func main() {
	// CLI output should stay readable; keep slog on stderr at warn and above.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app bundles the wired adapters for one command invocation.
type app struct {
	db      *sqliteadapter.DB
	api     *backendadapter.Client
	session *application.Session
}

// newApp wires the stack exactly like the server binary, then restores any
// persisted session so authenticated commands work without a fresh login.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	api := backendadapter.NewClient(cfg.APIBaseURL)
	session := application.NewSession(api, store, slog.Default())
	api.SetTokenSource(session)

	a := &app{db: db, api: api, session: session}
	if err := session.Restore(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// requireSession fails fast when no session is held, before the backend gets
// a chance to answer 401.
func (a *app) requireSession() error {
	if a.session.Current() == nil {
		return fmt.Errorf("not logged in: run woctl login first")
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	backendadapter "github.com/jcastellan/workpanel/internal/adapter/driven/backend"
	sqliteadapter "github.com/jcastellan/workpanel/internal/adapter/driven/sqlite"
	httphandler "github.com/jcastellan/workpanel/internal/adapter/driving/http"
	webhandler "github.com/jcastellan/workpanel/internal/adapter/driving/web"
	"github.com/jcastellan/workpanel/internal/application"
	"github.com/jcastellan/workpanel/internal/config"
	"github.com/jcastellan/workpanel/internal/domain/model"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"api_base_url", cfg.APIBaseURL,
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"persistence", cfg.SecretKey != nil,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire driven adapters.
	credentialStore := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	apiClient := backendadapter.NewClient(cfg.APIBaseURL)

	// 6. Create the session and hand it to the client as token source.
	session := application.NewSession(apiClient, credentialStore, slog.Default())
	apiClient.SetTokenSource(session)

	// 7. Restore any persisted session; the backend is not contacted here.
	if err := session.Restore(ctx); err != nil {
		slog.Warn("session restore failed, starting unauthenticated", "error", err)
	}

	// 8. Create the view-state controllers.
	orders := application.NewListController(
		func(ctx context.Context, filter string, page int) (model.Page[model.WorkOrder], error) {
			return apiClient.ListWorkOrders(ctx, model.WorkOrderStatus(filter), page)
		},
		apiClient.CreateWorkOrder,
		apiClient.DeleteWorkOrder,
		func(wo model.WorkOrder) int64 { return wo.ID },
		slog.Default(),
	)
	detail := application.NewDetailController(apiClient, slog.Default())

	// 9. Register the operational API and the GUI routes.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(session, slog.Default())
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(session, orders, detail, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// 10. Apply middleware and start the server.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("workpanel started", "listen_addr", cfg.ListenAddr)

	// 11. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 12. Graceful shutdown with 10s timeout for HTTP server drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// startAdminServer serves the host's admin surface: /health and the
// diagnostic routes, plus whatever routes node types registered during
// Init.
func (a *App) startAdminServer(port int) {
	a.logger.Debug("Configuring admin server.")

	addr := fmt.Sprintf(":%d", port)
	a.adminServer = &http.Server{
		Addr:    addr,
		Handler: a.host.AdminHandler(),
	}

	go func() {
		a.logger.Info("🩺 Admin server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown;
		// anything else is a real failure.
		if err := a.adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Admin server failed unexpectedly", "error", err)
		}
	}()
}

// closeAdminServer shuts the admin server down gracefully, bounded by ctx.
func (a *App) closeAdminServer(ctx context.Context) {
	if a.adminServer == nil {
		a.logger.Debug("Admin server was not running.")
		return
	}

	a.logger.Info("🩺 Shutting down admin server...")
	if err := a.adminServer.Shutdown(ctx); err != nil {
		a.logger.Error("Admin server shutdown failed", "error", err)
		return
	}
	a.logger.Debug("Admin server shut down gracefully.")
}

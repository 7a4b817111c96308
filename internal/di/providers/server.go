package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/johnyfernandes/Shlf-Backend/internal/api"
	"github.com/johnyfernandes/Shlf-Backend/internal/config"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
	"github.com/johnyfernandes/Shlf-Backend/internal/logger"
	"github.com/johnyfernandes/Shlf-Backend/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	resolver := do.MustInvoke[*identity.Resolver](i)

	services := api.Services{
		Auth:        do.MustInvoke[*service.AuthService](i),
		Books:       do.MustInvoke[*service.BookService](i),
		Sessions:    do.MustInvoke[*service.SessionService](i),
		Goals:       do.MustInvoke[*service.GoalService](i),
		Collections: do.MustInvoke[*service.CollectionService](i),
		Quota:       do.MustInvoke[*service.QuotaService](i),
		Metadata:    do.MustInvoke[*service.MetadataService](i),
	}

	handler := api.NewServer(services, resolver, cfg, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}

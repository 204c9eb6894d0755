package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/linkstash/linkstash-server/internal/api"
	"github.com/linkstash/linkstash-server/internal/config"
	"github.com/linkstash/linkstash-server/internal/logger"
	"github.com/linkstash/linkstash-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	resourceService := do.MustInvoke[*service.ResourceService](i)
	authService := do.MustInvoke[*service.AuthService](i)
	previewHandle := do.MustInvoke[*PreviewResolverHandle](i)

	handler := api.NewServer(
		resourceService,
		authService,
		previewHandle.Resolver,
		cfg.Server.CORSOrigins,
		log.Logger,
	)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}

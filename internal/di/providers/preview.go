package providers

import (
	"github.com/samber/do/v2"

	"github.com/linkstash/linkstash-server/internal/config"
	"github.com/linkstash/linkstash-server/internal/logger"
	"github.com/linkstash/linkstash-server/internal/preview"
)

// PreviewResolverHandle wraps the link preview resolver with shutdown capability.
type PreviewResolverHandle struct {
	*preview.Resolver
}

// Shutdown implements do.Shutdownable.
func (h *PreviewResolverHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvidePreviewResolver provides the Open Graph link preview resolver.
func ProvidePreviewResolver(i do.Injector) (*PreviewResolverHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	resolver := preview.New(log.Logger, preview.Options{
		Timeout:      cfg.Preview.Timeout,
		MaxBodyBytes: cfg.Preview.MaxBodyBytes,
		RPS:          cfg.Preview.RPS,
		Burst:        cfg.Preview.Burst,
		UserAgent:    cfg.Preview.UserAgent,
	})

	return &PreviewResolverHandle{Resolver: resolver}, nil
}

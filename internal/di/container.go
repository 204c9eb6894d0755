// Package di provides dependency injection configuration for the LinkStash server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/linkstash/linkstash-server/internal/auth"
	"github.com/linkstash/linkstash-server/internal/config"
	"github.com/linkstash/linkstash-server/internal/di/providers"
	"github.com/linkstash/linkstash-server/internal/logger"
	"github.com/linkstash/linkstash-server/internal/service"
	"github.com/linkstash/linkstash-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideResourceService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvidePreviewResolver)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*service.ResourceService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*providers.PreviewResolverHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Reconcile the search index with the store if they diverged
	providers.SyncSearchIndexIfNeeded(injector)

	return nil
}

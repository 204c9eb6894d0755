package providers

import (
	"github.com/samber/do/v2"

	"github.com/linkstash/linkstash-server/internal/auth"
	"github.com/linkstash/linkstash-server/internal/config"
	"github.com/linkstash/linkstash-server/internal/logger"
	"github.com/linkstash/linkstash-server/internal/service"
	"github.com/linkstash/linkstash-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideResourceService provides the resource service.
func ProvideResourceService(i do.Injector) (*service.ResourceService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewResourceService(
		storeHandle.Store,
		indexHandle.SearchIndex,
		validator,
		log.Logger,
		cfg.Search.DefaultLimit,
		cfg.Search.MaxLimit,
	), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, validator, log.Logger), nil
}

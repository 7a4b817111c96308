// Package di provides dependency injection configuration for the Shlf server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/johnyfernandes/Shlf-Backend/internal/auth"
	"github.com/johnyfernandes/Shlf-Backend/internal/config"
	"github.com/johnyfernandes/Shlf-Backend/internal/di/providers"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
	"github.com/johnyfernandes/Shlf-Backend/internal/logger"
	"github.com/johnyfernandes/Shlf-Backend/internal/service"
	"github.com/johnyfernandes/Shlf-Backend/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideValidator)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Metadata layer
	do.Provide(injector, providers.ProvideOpenLibraryClient)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideIdentityResolver)

	// Business services
	do.Provide(injector, providers.ProvideQuotaService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideGoalService)
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideMetadataService)

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
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.OpenLibraryClientHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*identity.Resolver](injector)

	// Business services
	_ = do.MustInvoke[*service.QuotaService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.GoalService](injector)
	_ = do.MustInvoke[*service.CollectionService](injector)
	_ = do.MustInvoke[*service.MetadataService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}

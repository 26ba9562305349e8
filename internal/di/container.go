// Package di provides dependency injection configuration for the SignBridge server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/signbridgeapp/signbridge-server/internal/catalog"
	"github.com/signbridgeapp/signbridge-server/internal/compositor"
	"github.com/signbridgeapp/signbridge-server/internal/config"
	"github.com/signbridgeapp/signbridge-server/internal/di/providers"
	"github.com/signbridgeapp/signbridge-server/internal/logger"
	"github.com/signbridgeapp/signbridge-server/internal/matcher"
	"github.com/signbridgeapp/signbridge-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Catalog layer
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Pipeline layer
	do.Provide(injector, providers.ProvideSuggester)
	do.Provide(injector, providers.ProvideLocalMatcher)
	do.Provide(injector, providers.ProvideSemanticMatcher)
	do.Provide(injector, providers.ProvideCompositor)
	do.Provide(injector, providers.ProvideArtifactCache)

	// Business services
	do.Provide(injector, providers.ProvideTranslationService)
	do.Provide(injector, providers.ProvideSignService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)

	// Catalog layer
	_ = do.MustInvoke[*catalog.Catalog](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	// Pipeline layer
	_ = do.MustInvoke[*providers.SuggesterHandle](injector)
	_ = do.MustInvoke[*matcher.Local](injector)
	_ = do.MustInvoke[*matcher.Semantic](injector)
	_ = do.MustInvoke[compositor.Compositor](injector)
	_ = do.MustInvoke[*providers.ArtifactCacheHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.TranslationService](injector)
	_ = do.MustInvoke[*service.SignService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}

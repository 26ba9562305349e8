package providers

import (
	"github.com/samber/do/v2"

	"github.com/signbridgeapp/signbridge-server/internal/catalog"
	"github.com/signbridgeapp/signbridge-server/internal/compositor"
	"github.com/signbridgeapp/signbridge-server/internal/logger"
	"github.com/signbridgeapp/signbridge-server/internal/matcher"
	"github.com/signbridgeapp/signbridge-server/internal/service"
)

// ProvideTranslationService provides the text to sign-video pipeline.
func ProvideTranslationService(i do.Injector) (*service.TranslationService, error) {
	local := do.MustInvoke[*matcher.Local](i)
	semantic := do.MustInvoke[*matcher.Semantic](i)
	comp := do.MustInvoke[compositor.Compositor](i)
	artifacts := do.MustInvoke[*ArtifactCacheHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTranslationService(local, semantic, comp, artifacts.ArtifactCache, log.Logger), nil
}

// ProvideSignService provides catalog listing and gloss search.
func ProvideSignService(i do.Injector) (*service.SignService, error) {
	cat := do.MustInvoke[*catalog.Catalog](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSignService(cat, indexHandle.Index, log.Logger), nil
}

package providers

import (
	"github.com/samber/do/v2"

	"github.com/signbridgeapp/signbridge-server/internal/catalog"
	"github.com/signbridgeapp/signbridge-server/internal/config"
	"github.com/signbridgeapp/signbridge-server/internal/logger"
	"github.com/signbridgeapp/signbridge-server/internal/search"
)

// ProvideCatalog provides the sign catalog loaded from the registry file.
func ProvideCatalog(i do.Injector) (*catalog.Catalog, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	cat, err := catalog.Load(cfg.Catalog.RegistryPath, cfg.Catalog.VideoPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Sign catalog loaded",
		"entries", cat.Len(),
		"collisions", len(cat.Collisions()),
	)

	return cat, nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve gloss index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cat := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(cat.Entries(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Search index initialized", "documents", cat.Len())

	return &SearchIndexHandle{Index: index}, nil
}

package providers

import (
	"github.com/samber/do/v2"

	"github.com/signbridgeapp/signbridge-server/internal/catalog"
	"github.com/signbridgeapp/signbridge-server/internal/compositor"
	"github.com/signbridgeapp/signbridge-server/internal/config"
	"github.com/signbridgeapp/signbridge-server/internal/llm"
	"github.com/signbridgeapp/signbridge-server/internal/logger"
	"github.com/signbridgeapp/signbridge-server/internal/matcher"
	"github.com/signbridgeapp/signbridge-server/internal/service"
)

// SuggesterHandle wraps the semantic fallback client.
// Suggester is nil when the fallback is disabled by configuration.
type SuggesterHandle struct {
	llm.Suggester
}

// ProvideSuggester provides the LLM-backed candidate suggester.
func ProvideSuggester(i do.Injector) (*SuggesterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.LLM.Enabled {
		log.Info("Semantic fallback disabled by configuration")
		return &SuggesterHandle{Suggester: nil}, nil
	}

	client := llm.NewClient(cfg.LLM, log.Logger)
	log.Info("Semantic fallback enabled",
		"base_url", cfg.LLM.BaseURL,
		"model", cfg.LLM.Model,
	)

	return &SuggesterHandle{Suggester: client}, nil
}

// ProvideLocalMatcher provides the catalog-backed phrase matcher.
func ProvideLocalMatcher(i do.Injector) (*matcher.Local, error) {
	cat := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	return matcher.NewLocal(cat, catalog.Exists, log.Logger), nil
}

// ProvideSemanticMatcher provides the LLM fallback matcher.
func ProvideSemanticMatcher(i do.Injector) (*matcher.Semantic, error) {
	cat := do.MustInvoke[*catalog.Catalog](i)
	suggester := do.MustInvoke[*SuggesterHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return matcher.NewSemantic(suggester.Suggester, cat, catalog.Exists, log.Logger), nil
}

// ProvideCompositor provides the ffmpeg-backed clip compositor.
func ProvideCompositor(i do.Injector) (compositor.Compositor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	ffmpeg, err := compositor.NewFFmpeg(cfg.Compose, log.Logger)
	if err != nil {
		return nil, err
	}
	return ffmpeg, nil
}

// ArtifactCacheHandle wraps the artifact cache with its sweep goroutine.
type ArtifactCacheHandle struct {
	*service.ArtifactCache
	done chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *ArtifactCacheHandle) Shutdown() error {
	close(h.done)
	return nil
}

// ProvideArtifactCache provides the composed artifact cache and starts its sweeper.
func ProvideArtifactCache(i do.Injector) (*ArtifactCacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	cache := service.NewArtifactCache(cfg.Compose.ArtifactTTL, log.Logger)

	done := make(chan struct{})
	go cache.Run(done, sweepInterval)

	return &ArtifactCacheHandle{ArtifactCache: cache, done: done}, nil
}

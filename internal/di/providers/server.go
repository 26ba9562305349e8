package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/signbridgeapp/signbridge-server/internal/api"
	"github.com/signbridgeapp/signbridge-server/internal/config"
	"github.com/signbridgeapp/signbridge-server/internal/logger"
	"github.com/signbridgeapp/signbridge-server/internal/service"
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

	translationService := do.MustInvoke[*service.TranslationService](i)
	signService := do.MustInvoke[*service.SignService](i)
	artifactCache := do.MustInvoke[*ArtifactCacheHandle](i)

	services := &api.Services{
		Translation: translationService,
		Signs:       signService,
		Artifacts:   artifactCache.ArtifactCache,
	}

	handler := api.NewServer(services, api.Options{
		Name:            cfg.Server.Name,
		CORSOrigins:     cfg.Server.CORSOrigins,
		TranslateRPM:    cfg.Server.TranslateRPM,
		ScratchPath:     cfg.Compose.ScratchPath,
		SemanticEnabled: cfg.LLM.Enabled,
	}, log.Logger)

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

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}

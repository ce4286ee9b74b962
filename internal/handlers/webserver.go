package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"workitem-assistant/internal/common"
	"workitem-assistant/internal/interfaces"
	"workitem-assistant/internal/middleware"
	"workitem-assistant/internal/services"

	"github.com/ternarybob/arbor"
)

// webServer provides the HTTP endpoints for drafting and creating work items
type webServer struct {
	config      *common.Config
	server      *http.Server
	logger      arbor.ILogger
	apiHandlers *APIHandlers
	running     bool
	startTime   time.Time
}

// NewWebServer creates a new web server instance
func NewWebServer(cfg *common.Config, assistant *services.WorkItemAssistant, drafts *services.DraftGenerator, logger arbor.ILogger) (interfaces.WebService, error) {
	mux := http.NewServeMux()

	apiHandlers := NewAPIHandlers(cfg, assistant, drafts, logger)

	ws := &webServer{
		config:      cfg,
		logger:      logger,
		apiHandlers: apiHandlers,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: mux,
		},
	}

	// Middleware chain: logging outermost so failures inside the recovery
	// boundary still show up in the request log.
	chain := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.Logging(logger)(middleware.CORS(middleware.Recover(logger)(h)))
	}

	mux.HandleFunc("/health", chain(apiHandlers.HealthHandler))
	mux.HandleFunc("/health/llm", chain(apiHandlers.LLMHealthHandler))
	mux.HandleFunc("/version", chain(apiHandlers.VersionHandler))
	mux.HandleFunc("/config", chain(apiHandlers.ConfigHandler))
	mux.HandleFunc("/api/work-items/draft", chain(apiHandlers.DraftHandler))
	mux.HandleFunc("/api/work-items/create", chain(apiHandlers.CreateHandler))

	return ws, nil
}

// Start starts the web server
func (ws *webServer) Start(ctx context.Context) error {
	ws.running = true
	ws.startTime = time.Now()

	go func() {
		ws.logger.Info().Int("port", ws.config.Server.Port).Msg("Starting web server")
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ws.logger.Error().Err(err).Msg("Web server error")
		}
	}()
	return nil
}

// Stop stops the web server
func (ws *webServer) Stop() error {
	ws.running = false

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws.logger.Info().Msg("Shutting down web server")
	return ws.server.Shutdown(ctx)
}

// IsRunning returns true if the web server is running
func (ws *webServer) IsRunning() bool {
	return ws.running
}

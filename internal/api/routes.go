package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flightwise/airquery/internal/assistant"
	"github.com/flightwise/airquery/internal/config"
	"github.com/flightwise/airquery/internal/tools"
	"github.com/flightwise/airquery/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	assistant  *AssistantHandler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router over the tool dispatcher. The
// assistant service may be nil, in which case its routes are not
// registered.
func NewRouter(dispatcher *tools.Dispatcher, service *assistant.Service, config *config.Config, logger *logger.Logger) *Router {
	r := &Router{
		handler:    NewHandler(dispatcher, logger),
		middleware: NewMiddleware(logger),
		config:     config,
		logger:     logger.Named("api-router"),
	}
	if service != nil {
		r.assistant = NewAssistantHandler(service, logger)
	}
	return r
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	router.Route("/api/v1", func(router chi.Router) {
		router.Get("/health", r.handler.GetHealth)
		router.Get("/tools", r.handler.GetToolCatalog)
		router.Post("/tools/execute", r.handler.ExecuteTool)

		if r.assistant != nil {
			router.Post("/assistant/ask", r.assistant.Ask)
		}
	})

	return router
}

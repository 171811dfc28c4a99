package routes

import (
	"net/http"

	"github.com/arkhealth/referral-intake/backend/internal/api/handlers"
	"github.com/arkhealth/referral-intake/backend/internal/api/middleware"
	"github.com/arkhealth/referral-intake/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux             *http.ServeMux
	documentHandler *handlers.DocumentHandler
	healthHandler   *handlers.HealthHandler
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	documentHandler *handlers.DocumentHandler,
	healthHandler *handlers.HealthHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		documentHandler: documentHandler,
		healthHandler:   healthHandler,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Document endpoints
	r.mux.HandleFunc("POST /api/documents", r.documentHandler.UploadDocument)
	r.mux.HandleFunc("GET /api/documents", r.documentHandler.ListQueuedDocuments)
	r.mux.HandleFunc("GET /api/documents/statuses", r.documentHandler.ListDocumentStatuses)
	r.mux.HandleFunc("GET /api/documents/{id}/status", r.documentHandler.GetDocumentStatus)

	// Queue endpoints
	r.mux.HandleFunc("GET /api/queue/status", r.documentHandler.GetQueueStatus)

	// Apply middleware in reverse order (last middleware wraps first).
	// No response caching: status reads must always hit the store.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set on every response
	handler = middleware.CORSMiddleware(handler)

	return handler
}

package routes

import (
	"net/http"

	"github.com/zatekoja/screeningscheduler/backend/internal/api/handlers"
	"github.com/zatekoja/screeningscheduler/backend/internal/api/middleware"
	"github.com/zatekoja/screeningscheduler/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	scheduleHandler   *handlers.ScheduleHandler
	slotEventsHandler *handlers.SlotEventsHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	scheduleHandler *handlers.ScheduleHandler,
	slotEventsHandler *handlers.SlotEventsHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		scheduleHandler:   scheduleHandler,
		slotEventsHandler: slotEventsHandler,
		allowedOrigins:    allowedOrigins,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Scheduling endpoints
	r.mux.HandleFunc("POST /api/schedules", r.scheduleHandler.CreateSchedule)
	r.mux.HandleFunc("POST /api/schedules/alternatives", r.scheduleHandler.FindAlternatives)
	r.mux.HandleFunc("GET /api/examination-types", r.scheduleHandler.ListExaminationTypes)

	// Slot endpoints
	r.mux.HandleFunc("POST /api/slots/{id}/book", r.scheduleHandler.BookSlot)
	if r.slotEventsHandler != nil {
		r.mux.HandleFunc("GET /api/slots/events", r.slotEventsHandler.StreamSlotEvents)
	}

	// Last middleware wraps first; CORS is outermost so preflights never reach the mux
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tripwise/go-trip-planner/internal/api/trip"
)

// Config contains dependencies needed for the router setup
type Config struct {
	TripHandler *trip.TripHandler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api", func(r chi.Router) {
		// Structured variant: the body is the full TripPlan object.
		r.Post("/generate-trip", cfg.TripHandler.GenerateTrip)
		// Free-text variant: the body is {"tripPlan": "<prose>"}.
		r.Post("/generate-trip/text", cfg.TripHandler.GenerateTripText)
	})

	return r
}

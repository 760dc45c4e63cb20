package trip

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/tripwise/go-trip-planner/internal/api"
	"github.com/tripwise/go-trip-planner/internal/api/images"
	"github.com/tripwise/go-trip-planner/internal/types"
)

type TripHandler struct {
	tripService  TripService
	imageService images.Service
	logger       *slog.Logger
}

func NewTripHandler(tripService TripService, imageService images.Service, logger *slog.Logger) *TripHandler {
	return &TripHandler{
		tripService:  tripService,
		imageService: imageService,
		logger:       logger,
	}
}

// GenerateTrip handles the structured variant: the response body is the
// full TripPlan object.
func (h *TripHandler) GenerateTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "GenerateTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/generate-trip"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateTrip"))
	l.DebugContext(ctx, "Generate trip handler invoked")

	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	plan, err := h.tripService.GenerateTripPlan(ctx, req)
	if err != nil {
		h.writeTripError(w, r, l, err)
		return
	}

	// Decoration happens only after the plan passed validation in full;
	// a plan is committed all-or-nothing.
	h.imageService.DecoratePlan(ctx, plan)

	l.InfoContext(ctx, "Trip plan generated successfully", slog.String("tripPlanID", plan.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}

// GenerateTripText handles the free-text variant: the response body is
// {"tripPlan": "<prose itinerary>"}.
func (h *TripHandler) GenerateTripText(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "GenerateTripText", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/generate-trip/text"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateTripText"))
	l.DebugContext(ctx, "Generate trip text handler invoked")

	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	tripText, err := h.tripService.GenerateTripText(ctx, req)
	if err != nil {
		h.writeTripError(w, r, l, err)
		return
	}

	l.InfoContext(ctx, "Trip text generated successfully")
	api.WriteJSONResponse(w, r, http.StatusOK, types.TripPlanText{TripPlan: tripText})
}

// writeTripError maps the service error taxonomy onto HTTP statuses:
// missing fields 400, upstream quota/rate-limit 429, upstream auth 401,
// everything else 500. Every branch is terminal, nothing is retried.
func (h *TripHandler) writeTripError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	ctx := r.Context()

	var missingErr *MissingFieldsError
	if errors.As(err, &missingErr) {
		l.ErrorContext(ctx, "Missing required fields", slog.Any("fields", missingErr.Fields))
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest,
			"Missing required fields", "Missing: "+strings.Join(missingErr.Fields, ", "))
		return
	}

	if errors.Is(err, ErrAPIKeyMissing) {
		l.ErrorContext(ctx, "Generation API key is missing")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Generation API key is not configured")
		return
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		l.ErrorContext(ctx, "Upstream generation API error",
			slog.Int("code", apiErr.Code), slog.String("status", apiErr.Status))
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			api.ErrorResponse(w, r, http.StatusTooManyRequests,
				"Generation API quota or rate limit exceeded. Please try again later.")
		case http.StatusUnauthorized, http.StatusForbidden:
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid generation API key")
		default:
			api.ErrorResponseWithDetails(w, r, http.StatusInternalServerError,
				"Failed to generate trip plan", apiErr.Message)
		}
		return
	}

	if errors.Is(err, ErrEmptyResponse) {
		l.ErrorContext(ctx, "Empty response from generation API")
		api.ErrorResponseWithDetails(w, r, http.StatusInternalServerError,
			"Failed to generate trip plan", "no response content from model")
		return
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		l.ErrorContext(ctx, "Failed to parse model reply", slog.Any("error", parseErr.Err))
		api.ErrorResponseWithDetails(w, r, http.StatusInternalServerError,
			"Failed to parse AI response", parseErr.Err.Error())
		return
	}

	var shapeErr *ShapeError
	if errors.As(err, &shapeErr) {
		l.ErrorContext(ctx, "Model reply violates plan schema", slog.String("reason", shapeErr.Reason))
		api.ErrorResponseWithDetails(w, r, http.StatusInternalServerError,
			"Invalid response structure", shapeErr.Reason)
		return
	}

	l.ErrorContext(ctx, "Failed to generate trip plan", slog.Any("error", err))
	api.ErrorResponseWithDetails(w, r, http.StatusInternalServerError,
		"Failed to generate trip plan", err.Error())
}

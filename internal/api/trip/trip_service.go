package trip

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/tripwise/go-trip-planner/app/observability/metrics"
	"github.com/tripwise/go-trip-planner/config"
	generativeAI "github.com/tripwise/go-trip-planner/internal/api/generative_ai"
	"github.com/tripwise/go-trip-planner/internal/types"
)

// Ensure implementation satisfies the interface
var _ TripService = (*ServiceImpl)(nil)

// TripService defines the business logic contract for trip generation.
// Both operations are at-most-once: a failed call is never retried.
type TripService interface {
	// GenerateTripPlan returns a validated structured plan.
	GenerateTripPlan(ctx context.Context, req types.TripRequest) (*types.TripPlan, error)
	// GenerateTripText returns the free-text degenerate variant with no
	// structural validation.
	GenerateTripText(ctx context.Context, req types.TripRequest) (string, error)
}

// ServiceImpl provides the implementation for TripService.
type ServiceImpl struct {
	logger          *slog.Logger
	aiClient        generativeAI.ContentGenerator // nil when the credential is absent
	schema          PlanSchema
	temperature     float32
	maxOutputTokens int32
}

func NewTripService(aiClient generativeAI.ContentGenerator, cfg config.Config, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:          logger,
		aiClient:        aiClient,
		schema:          PlanSchemaV1,
		temperature:     cfg.LLM.Temperature,
		maxOutputTokens: cfg.LLM.MaxOutputTokens,
	}
}

func (s *ServiceImpl) generationConfig(structured bool) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](s.temperature),
		MaxOutputTokens: s.maxOutputTokens,
	}
	if structured {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

// generate runs the single upstream call shared by both variants.
// Precondition checks run before any prompt is rendered, so an incomplete
// request or a missing credential never reaches the network.
func (s *ServiceImpl) generate(ctx context.Context, req types.TripRequest, prompt string, structured bool) (string, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return "", &MissingFieldsError{Fields: missing}
	}
	if s.aiClient == nil {
		return "", ErrAPIKeyMissing
	}

	txt, err := s.aiClient.GenerateContent(ctx, prompt, s.generationConfig(structured))
	if err != nil {
		if m := metrics.Get(); m != nil {
			m.UpstreamErrorsTotal.Add(ctx, 1)
		}
		return "", fmt.Errorf("generation call failed: %w", err)
	}
	if strings.TrimSpace(txt) == "" {
		return "", ErrEmptyResponse
	}
	return txt, nil
}

func (s *ServiceImpl) GenerateTripPlan(ctx context.Context, req types.TripRequest) (*types.TripPlan, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GenerateTripPlan", trace.WithAttributes(
		attribute.String("trip.destination", req.Destination),
		attribute.Int("trip.days", req.Days),
		attribute.String("trip.budget", req.Budget),
		attribute.String("trip.travel_with", req.TravelWith),
		attribute.String("plan.schema_version", s.schema.Version),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GenerateTripPlan"), slog.String("destination", req.Destination))

	// Missing-field check happens inside generate, before the prompt is
	// ever sent; building the prompt text itself has no side effects.
	startTime := time.Now()
	prompt := buildStructuredPrompt(req, s.schema)
	span.SetAttributes(attribute.Int("prompt.length", len(prompt)))

	txt, err := s.generate(ctx, req, prompt, true)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip plan generation failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("response.length", len(txt)))

	cleanTxt := cleanJSONResponse(txt)
	var plan types.TripPlan
	if err := json.Unmarshal([]byte(cleanTxt), &plan); err != nil {
		l.ErrorContext(ctx, "Model reply is not valid JSON", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to parse trip plan JSON")
		return nil, &ParseError{Err: err}
	}

	if err := s.schema.Validate(&plan, req.Days); err != nil {
		l.ErrorContext(ctx, "Model reply violates plan schema", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid trip plan structure")
		return nil, err
	}

	plan.ID = uuid.New()
	plan.Destination = req.Destination
	plan.Days = req.Days
	plan.Budget = req.Budget
	plan.TravelWith = req.TravelWith

	latencyMs := int(time.Since(startTime).Milliseconds())
	span.SetAttributes(
		attribute.Int("response.latency_ms", latencyMs),
		attribute.String("trip_plan.id", plan.ID.String()),
	)
	if m := metrics.Get(); m != nil {
		m.GenerationRequestsTotal.Add(ctx, 1)
		m.GenerationDurationSeconds.Record(ctx, time.Since(startTime).Seconds())
	}

	l.InfoContext(ctx, "Trip plan generated", slog.Int("latency_ms", latencyMs), slog.Int("hotels", len(plan.Hotels)))
	span.SetStatus(codes.Ok, "Trip plan generated")
	return &plan, nil
}

func (s *ServiceImpl) GenerateTripText(ctx context.Context, req types.TripRequest) (string, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GenerateTripText", trace.WithAttributes(
		attribute.String("trip.destination", req.Destination),
		attribute.Int("trip.days", req.Days),
	))
	defer span.End()

	startTime := time.Now()
	txt, err := s.generate(ctx, req, buildFreeTextPrompt(req), false)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip text generation failed")
		return "", err
	}

	if m := metrics.Get(); m != nil {
		m.GenerationRequestsTotal.Add(ctx, 1)
		m.GenerationDurationSeconds.Record(ctx, time.Since(startTime).Seconds())
	}
	span.SetStatus(codes.Ok, "Trip text generated")
	return txt, nil
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/go-trip-planner/internal/api/trip"
	"github.com/tripwise/go-trip-planner/internal/types"
)

// stubTripService returns a canned plan without touching any upstream.
type stubTripService struct {
	plan *types.TripPlan
}

func (s *stubTripService) GenerateTripPlan(ctx context.Context, req types.TripRequest) (*types.TripPlan, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, &trip.MissingFieldsError{Fields: missing}
	}
	return s.plan, nil
}

func (s *stubTripService) GenerateTripText(ctx context.Context, req types.TripRequest) (string, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return "", &trip.MissingFieldsError{Fields: missing}
	}
	return "Day 1: wander the old town.", nil
}

type stubImageService struct{}

func (stubImageService) ImageFor(ctx context.Context, query string) (string, error) { return "", nil }
func (stubImageService) DecoratePlan(ctx context.Context, plan *types.TripPlan)     {}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	plan := &types.TripPlan{
		Hotels: []types.Hotel{{Name: "Hotel Bristol"}},
	}
	plan.Itinerary.NumberOfDays = 1
	plan.Itinerary.DailyPlans = []types.DailyPlan{{
		Day:        1,
		Activities: []types.Activity{{PlaceName: "Old Town"}},
		Meals:      []types.Meal{{Type: "lunch"}},
	}}

	handler := trip.NewTripHandler(&stubTripService{plan: plan}, stubImageService{}, slog.Default())
	return SetupRouter(&Config{TripHandler: handler})
}

func TestRouterRoutes(t *testing.T) {
	router := testRouter(t)

	t.Run("Ping", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
	})

	t.Run("GenerateTrip", func(t *testing.T) {
		body, _ := json.Marshal(types.TripRequest{
			Destination: "Oslo, Norway", Days: 1, Budget: types.BudgetCheap, TravelWith: types.TravelSolo,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/generate-trip", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got types.TripPlan
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Hotel Bristol", got.Hotels[0].Name)
	})

	t.Run("GenerateTripText", func(t *testing.T) {
		body, _ := json.Marshal(types.TripRequest{
			Destination: "Oslo, Norway", Days: 1, Budget: types.BudgetCheap, TravelWith: types.TravelSolo,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/generate-trip/text", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got types.TripPlanText
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.NotEmpty(t, got.TripPlan)
	})

	t.Run("MissingFieldsRejected", func(t *testing.T) {
		body, _ := json.Marshal(types.TripRequest{Destination: "Oslo, Norway"})
		req := httptest.NewRequest(http.MethodPost, "/api/generate-trip", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var errBody map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
		assert.Equal(t, "Missing: days, budget, travelWith", errBody["details"])
	})

	t.Run("UnknownRoute", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

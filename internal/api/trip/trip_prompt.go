package trip

import (
	"fmt"

	"github.com/tripwise/go-trip-planner/internal/types"
)

// buildStructuredPrompt renders the instruction for the JSON variant.
// The example shape and the requirements block both come from the schema,
// which is the same artifact the validator checks the reply against.
func buildStructuredPrompt(req types.TripRequest, schema PlanSchema) string {
	return fmt.Sprintf(`Create a detailed %d-day travel itinerary for %s.
This is for a %s traveler with a %s budget.

Return the response STRICTLY as a JSON object with this exact shape and no other text:
%s

Structural requirements:
%s

Pick real, specific hotels, places and restaurants in %s that match the %s budget level.`,
		req.Days, req.Destination, req.TravelWith, req.Budget,
		schema.ExampleJSON(), schema.Requirements(req.Days),
		req.Destination, req.Budget)
}

// buildFreeTextPrompt renders the instruction for the prose variant.
func buildFreeTextPrompt(req types.TripRequest) string {
	return fmt.Sprintf(`Create a detailed %d-day travel itinerary for %s.
This is for a %s traveler with a %s budget.

Please provide a day-by-day itinerary including:
1. Morning, afternoon, and evening activities
2. Recommended restaurants and cuisine (matching the %s budget)
3. Suggested accommodations (matching the %s budget)
4. Transportation recommendations
5. Estimated costs for activities and meals
6. Local tips and cultural considerations

Format the response in a clear, organized way with days as headers and specific times for activities.
Include specific names of places, restaurants, and hotels that match the %s budget level.`,
		req.Days, req.Destination, req.TravelWith, req.Budget,
		req.Budget, req.Budget, req.Budget)
}

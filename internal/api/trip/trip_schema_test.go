package trip

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/go-trip-planner/internal/types"
)

func TestPlanSchemaValidate(t *testing.T) {
	schema := PlanSchemaV1

	t.Run("ValidPlanPasses", func(t *testing.T) {
		plan := makePlan(3)
		assert.NoError(t, schema.Validate(&plan, 3))
	})

	t.Run("EmptyHotels", func(t *testing.T) {
		plan := makePlan(3)
		plan.Hotels = nil
		err := schema.Validate(&plan, 3)
		var shapeErr *ShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Contains(t, shapeErr.Reason, "hotels")
	})

	t.Run("NumberOfDaysMismatch", func(t *testing.T) {
		plan := makePlan(3)
		plan.Itinerary.NumberOfDays = 5
		err := schema.Validate(&plan, 3)
		var shapeErr *ShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Contains(t, shapeErr.Reason, "5")
		assert.Contains(t, shapeErr.Reason, "3")
	})

	t.Run("DailyPlanCountMismatch", func(t *testing.T) {
		plan := makePlan(3)
		plan.Itinerary.DailyPlans = plan.Itinerary.DailyPlans[:2]
		err := schema.Validate(&plan, 3)
		var shapeErr *ShapeError
		require.ErrorAs(t, err, &shapeErr)
	})

	t.Run("MislabelledDay", func(t *testing.T) {
		plan := makePlan(3)
		plan.Itinerary.DailyPlans[2].Day = 7
		err := schema.Validate(&plan, 3)
		var shapeErr *ShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Contains(t, shapeErr.Reason, "day 7")
		assert.Contains(t, shapeErr.Reason, "want day 3")
	})

	t.Run("EmptyMeals", func(t *testing.T) {
		plan := makePlan(2)
		plan.Itinerary.DailyPlans[0].Meals = nil
		err := schema.Validate(&plan, 2)
		var shapeErr *ShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Contains(t, shapeErr.Reason, "day 1")
		assert.Contains(t, shapeErr.Reason, "no meals")
	})

	t.Run("UnknownMealType", func(t *testing.T) {
		plan := makePlan(1)
		plan.Itinerary.DailyPlans[0].Meals[0].Type = "brunch"
		err := schema.Validate(&plan, 1)
		var shapeErr *ShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Contains(t, shapeErr.Reason, "brunch")
	})

	t.Run("MealTypeCaseInsensitive", func(t *testing.T) {
		plan := makePlan(1)
		plan.Itinerary.DailyPlans[0].Meals[0].Type = "Breakfast"
		assert.NoError(t, schema.Validate(&plan, 1))
	})
}

// The prompt renderer and the validator must read the same schema
// instance, so a cardinality change is visible in the instruction text
// without touching the prompt template.
func TestPromptFollowsSchema(t *testing.T) {
	schema := PlanSchemaV1
	schema.HotelCount = 7
	schema.ActivitiesPerDay = 5

	req := types.TripRequest{Destination: "Rome, Italy", Days: 4, Budget: types.BudgetModerate, TravelWith: types.TravelCouple}
	prompt := buildStructuredPrompt(req, schema)

	assert.Contains(t, prompt, "Exactly 7 hotels")
	assert.Contains(t, prompt, "Exactly 5 activities")
	assert.Contains(t, prompt, "Exactly 4 dailyPlans entries")
	assert.Contains(t, prompt, "4-day travel itinerary for Rome, Italy")
	assert.Contains(t, prompt, "moderate")
	assert.Contains(t, prompt, "couple")
	assert.Contains(t, prompt, schema.ImageURLFormat)
	// The literal example shape rides along in the prompt.
	assert.Contains(t, prompt, `"dailyPlans"`)
	assert.Contains(t, prompt, `"pricePerNight"`)
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "PlainJSON",
			input:    `{"hotels": []}`,
			expected: `{"hotels": []}`,
		},
		{
			name:     "JSONFence",
			input:    "```json\n{\"hotels\": []}\n```",
			expected: `{"hotels": []}`,
		},
		{
			name:     "BareFence",
			input:    "```\n{\"hotels\": []}\n```",
			expected: `{"hotels": []}`,
		},
		{
			name:     "SurroundingProse",
			input:    "Here is your itinerary:\n{\"hotels\": []}\nEnjoy the trip!",
			expected: `{"hotels": []}`,
		},
		{
			name:     "NoJSONAtAll",
			input:    "no structured content here",
			expected: "no structured content here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanJSONResponse(tt.input))
		})
	}
}

func TestRequirementsListsCardinalities(t *testing.T) {
	reqs := PlanSchemaV1.Requirements(3)
	assert.Contains(t, reqs, "Exactly 4 hotels")
	assert.Contains(t, reqs, "numbered \"day\" 1 through 3")
	assert.Contains(t, reqs, strings.Join(PlanSchemaV1.MealTypes, ", "))
}

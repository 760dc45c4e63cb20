package trip

import (
	"fmt"
	"strings"

	"github.com/tripwise/go-trip-planner/internal/types"
)

// PlanSchema is the structured-reply contract shared between the prompt
// renderer and the response validator. Both sides read the same instance,
// so a cardinality change shows up in the instruction text and in the
// structural checks at once. Bump Version whenever the shape changes.
type PlanSchema struct {
	Version          string
	HotelCount       int
	ActivitiesPerDay int
	MealsPerDay      int
	MealTypes        []string
	ImageURLFormat   string
}

// PlanSchemaV1 is the current contract: four hotels, three activities and
// three meals per day, placeholder images until the lookup service
// replaces them.
var PlanSchemaV1 = PlanSchema{
	Version:          "v1",
	HotelCount:       4,
	ActivitiesPerDay: 3,
	MealsPerDay:      3,
	MealTypes:        []string{"breakfast", "lunch", "dinner"},
	ImageURLFormat:   "https://placehold.co/600x400?text={place name}",
}

// ExampleJSON renders the literal reply shape embedded in the prompt.
// Arrays show a single element; the cardinalities are stated separately
// in the requirements block.
func (s PlanSchema) ExampleJSON() string {
	return fmt.Sprintf(`{
  "hotels": [
    {
      "name": "Hotel name",
      "address": "Full street address",
      "pricePerNight": "$120",
      "imageUrl": "%s",
      "coordinates": {"latitude": 48.8566, "longitude": 2.3522},
      "rating": 4.5,
      "description": "One or two sentences about the hotel",
      "amenities": ["WiFi", "Breakfast"]
    }
  ],
  "itinerary": {
    "numberOfDays": <number of days>,
    "dailyPlans": [
      {
        "day": 1,
        "activities": [
          {
            "time": "09:00 AM",
            "placeName": "Name of the place",
            "placeDetails": "What to see or do there",
            "placeImageUrl": "%s",
            "coordinates": {"latitude": 48.8606, "longitude": 2.3376},
            "ticketPrice": "$15 or Free",
            "duration": "2 hours",
            "tips": "A practical local tip"
          }
        ],
        "meals": [
          {
            "type": "%s",
            "restaurantName": "Restaurant name",
            "cuisine": "Cuisine style",
            "priceRange": "$10-$20",
            "coordinates": {"latitude": 48.8529, "longitude": 2.3499}
          }
        ]
      }
    ]
  }
}`, s.ImageURLFormat, s.ImageURLFormat, s.MealTypes[0])
}

// Requirements lists the structural constraints the reply must satisfy,
// derived from the same fields the validator checks.
func (s PlanSchema) Requirements(days int) string {
	return fmt.Sprintf(`- Exactly %d hotels.
- Exactly %d dailyPlans entries, numbered "day" 1 through %d in order.
- Exactly %d activities and %d meals per day.
- Meal types limited to: %s.
- Every hotel, activity and meal carries latitude/longitude coordinates.
- Image URLs use the placeholder format %s.
- All prices are USD strings like "$25" or the literal "Free".`,
		s.HotelCount, days, days, s.ActivitiesPerDay, s.MealsPerDay,
		strings.Join(s.MealTypes, ", "), s.ImageURLFormat)
}

// Validate checks the parsed reply against the structural invariants for
// the requested number of days. Violations come back as a *ShapeError
// naming the first failing piece, 1-indexed by day where applicable.
func (s PlanSchema) Validate(plan *types.TripPlan, days int) error {
	if len(plan.Hotels) == 0 {
		return &ShapeError{Reason: "hotels list is empty"}
	}
	if plan.Itinerary.NumberOfDays != days {
		return &ShapeError{Reason: fmt.Sprintf("itinerary covers %d days, requested %d", plan.Itinerary.NumberOfDays, days)}
	}
	if len(plan.Itinerary.DailyPlans) != days {
		return &ShapeError{Reason: fmt.Sprintf("itinerary has %d daily plans, requested %d", len(plan.Itinerary.DailyPlans), days)}
	}
	for i, dp := range plan.Itinerary.DailyPlans {
		day := i + 1
		if dp.Day != day {
			return &ShapeError{Reason: fmt.Sprintf("daily plan at position %d is labelled day %d, want day %d", day, dp.Day, day)}
		}
		if len(dp.Activities) == 0 {
			return &ShapeError{Reason: fmt.Sprintf("daily plan for day %d has no activities", day)}
		}
		if len(dp.Meals) == 0 {
			return &ShapeError{Reason: fmt.Sprintf("daily plan for day %d has no meals", day)}
		}
		for j, meal := range dp.Meals {
			if !s.validMealType(meal.Type) {
				return &ShapeError{Reason: fmt.Sprintf("day %d meal %d has unknown type %q", day, j+1, meal.Type)}
			}
		}
	}
	return nil
}

func (s PlanSchema) validMealType(t string) bool {
	for _, known := range s.MealTypes {
		if strings.EqualFold(t, known) {
			return true
		}
	}
	return false
}

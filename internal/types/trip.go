package types

import "github.com/google/uuid"

// Budget tiers accepted on a trip request.
const (
	BudgetCheap    = "cheap"
	BudgetModerate = "moderate"
	BudgetLuxury   = "luxury"
)

// Travel companion types accepted on a trip request.
const (
	TravelSolo   = "solo"
	TravelCouple = "couple"
	TravelFamily = "family"
)

// TripRequest is the user input for a single trip generation. All four
// fields must be present before the request goes anywhere near the model.
type TripRequest struct {
	Destination string `json:"destination"`
	Days        int    `json:"days"`
	Budget      string `json:"budget"`
	TravelWith  string `json:"travelWith"`
}

// MissingFields returns the names of required fields that are absent,
// in wire order. An empty slice means the request is complete.
func (r TripRequest) MissingFields() []string {
	var missing []string
	if r.Destination == "" {
		missing = append(missing, "destination")
	}
	if r.Days <= 0 {
		missing = append(missing, "days")
	}
	if r.Budget == "" {
		missing = append(missing, "budget")
	}
	if r.TravelWith == "" {
		missing = append(missing, "travelWith")
	}
	return missing
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Hotel is one accommodation suggestion inside a plan. Price fields are
// free-text USD amounts or the literal "Free"; the contract guarantees
// no numeric parsing.
type Hotel struct {
	Name          string      `json:"name"`
	Address       string      `json:"address"`
	PricePerNight string      `json:"pricePerNight"`
	ImageURL      string      `json:"imageUrl"`
	Coordinates   Coordinates `json:"coordinates"`
	Rating        float64     `json:"rating"`
	Description   string      `json:"description"`
	Amenities     []string    `json:"amenities"`
}

type Activity struct {
	Time          string      `json:"time"`
	PlaceName     string      `json:"placeName"`
	PlaceDetails  string      `json:"placeDetails"`
	PlaceImageURL string      `json:"placeImageUrl"`
	Coordinates   Coordinates `json:"coordinates"`
	TicketPrice   string      `json:"ticketPrice"`
	Duration      string      `json:"duration"`
	Tips          string      `json:"tips"`
}

type Meal struct {
	Type           string      `json:"type"`
	RestaurantName string      `json:"restaurantName"`
	Cuisine        string      `json:"cuisine"`
	PriceRange     string      `json:"priceRange"`
	Coordinates    Coordinates `json:"coordinates"`
}

// DailyPlan covers one day of the itinerary. Day is 1-indexed and must
// match the entry's position in the dailyPlans sequence.
type DailyPlan struct {
	Day        int        `json:"day"`
	Activities []Activity `json:"activities"`
	Meals      []Meal     `json:"meals"`
}

type Itinerary struct {
	NumberOfDays int         `json:"numberOfDays"`
	DailyPlans   []DailyPlan `json:"dailyPlans"`
}

// TripPlan is the structured generation result. The ID and the echoed
// request fields are assigned server-side after the model reply passes
// validation; the model itself only produces hotels and the itinerary.
type TripPlan struct {
	ID          uuid.UUID `json:"id"`
	Destination string    `json:"destination,omitempty"`
	Days        int       `json:"days,omitempty"`
	Budget      string    `json:"budget,omitempty"`
	TravelWith  string    `json:"travelWith,omitempty"`
	Hotels      []Hotel   `json:"hotels"`
	Itinerary   Itinerary `json:"itinerary"`
}

// TripPlanText is the free-text wire shape, kept for compatibility with
// clients that render the itinerary as prose.
type TripPlanText struct {
	TripPlan string `json:"tripPlan"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// DateFormat is the wire format for flight dates.
const DateFormat = "2006-01-02"

type Airport struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
}

type Aircraft struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type Service struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Aircraft Aircraft `json:"aircraft"`
}

// Route is a recurring scheduled leg between two airports, valid on a
// single weekday. Reference data, never mutated after seeding.
type Route struct {
	ID          string  `json:"id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Weekday     string  `json:"weekday"`
	Departure   string  `json:"departure"`
	Arrival     string  `json:"arrival"`
	Price       int     `json:"price"`
	Service     Service `json:"service"`
}

// Flight is a dated instance of a Route. Rows are created lazily the first
// time a booking reserves the route+date pair.
type Flight struct {
	ID    uuid.UUID `json:"id"`
	Route Route     `json:"route"`
	Date  time.Time `json:"date"`
}

type Passenger struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type Booking struct {
	Reference  string    `json:"reference"`
	Passenger  Passenger `json:"passenger"`
	Flights    []Flight  `json:"flights"`
	TotalPrice int       `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// LegRequest names one leg of a proposed itinerary by route and calendar date.
type LegRequest struct {
	RouteID string `json:"route_id" validate:"required"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02,future_or_today"`
}

type BookingRequest struct {
	PassengerName  string       `json:"passenger_name" validate:"required,min=1,max=100"`
	PassengerEmail string       `json:"passenger_email" validate:"required,email"`
	Legs           []LegRequest `json:"legs" validate:"required,min=1,dive"`
}

type ItinerarySearch struct {
	From string    `validate:"required,airport_code"`
	To   string    `validate:"required,airport_code"`
	Date time.Time `validate:"required"`
}

package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrBookingNotFound         = errors.New("booking not found")
	ErrPassengerNotFound       = errors.New("passenger not found")
	ErrRouteNotFound           = errors.New("route not found")
	ErrMissingPassengerDetails = errors.New("passenger details missing")
	ErrEmptyItinerary          = errors.New("itinerary has no legs")
	ErrDuplicateLeg            = errors.New("itinerary lists the same flight more than once")
	ErrInvalidDate             = errors.New("date must use the 2006-01-02 format")
	ErrNotBookingOwner         = errors.New("booking belongs to a different passenger")
	ErrReferenceExhausted      = errors.New("could not allocate a unique booking reference")
)

// CapacityError reports the first leg of a proposed itinerary that has no
// free seat. The whole booking attempt is rejected when it occurs.
type CapacityError struct {
	RouteID string
	Date    time.Time
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("no seats left on route %s for %s", e.RouteID, e.Date.Format(DateFormat))
}

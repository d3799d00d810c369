package ports

import (
	"context"
	"time"

	models "github.com/dairyflats/aerobook/internal"
	"github.com/google/uuid"
)

// RouteCatalog is read-only access to the schedule graph. Unknown codes
// yield empty results, never errors.
type RouteCatalog interface {
	AllAirports(ctx context.Context) ([]models.Airport, error)
	AirportCount(ctx context.Context) (int, error)
	RouteByID(ctx context.Context, id string) (*models.Route, error)
	RoutesFrom(ctx context.Context, origin, weekday string) ([]models.Route, error)
	RoutesBetween(ctx context.Context, origin, destination, weekday string) ([]models.Route, error)
	RoutesFromExcluding(ctx context.Context, origin, weekday string, excluded []string) ([]models.Route, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error)
	GetBookingsByEmail(ctx context.Context, email string) ([]models.Booking, error)
	DeleteBooking(ctx context.Context, reference string, passengerID uuid.UUID) error
}

type CatalogService interface {
	ListAirports(ctx context.Context) ([]models.Airport, error)
	FindItineraries(ctx context.Context, origin, destination string, day time.Weekday) ([][]models.Route, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, request *models.BookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, reference string) (*models.Booking, error)
	BookingsForPassenger(ctx context.Context, email string) ([]models.Booking, error)
	CancelBooking(ctx context.Context, reference, email string) error
}

// CatalogCache caches immutable reference data. Implementations may be
// absent at runtime; callers must treat a nil cache as a miss.
type CatalogCache interface {
	GetAirports(ctx context.Context) ([]models.Airport, error)
	SetAirports(ctx context.Context, airports []models.Airport) error
}

type EventProducer interface {
	Publish(ctx context.Context, key string, payload interface{}) error
}

// ReferenceSource draws candidate booking references. Uniqueness is enforced
// by the repository inside the booking transaction.
type ReferenceSource interface {
	Candidate() string
}

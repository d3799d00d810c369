package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	models "github.com/dairyflats/aerobook/internal"
	"github.com/dairyflats/aerobook/internal/events"
	"github.com/dairyflats/aerobook/internal/ports"
)

type bookingService struct {
	repo     ports.BookingRepository
	catalog  ports.RouteCatalog
	producer ports.EventProducer
}

// NewBookingService builds the booking coordinator. producer may be nil;
// lifecycle events are then skipped.
func NewBookingService(repo ports.BookingRepository, catalog ports.RouteCatalog, producer ports.EventProducer) *bookingService {
	return &bookingService{
		repo:     repo,
		catalog:  catalog,
		producer: producer,
	}
}

// CreateBooking turns a chosen itinerary plus passenger identity into a
// persisted booking. Every leg is priced from the catalog up front; the
// repository then reserves all legs atomically or none at all.
func (s *bookingService) CreateBooking(ctx context.Context, request *models.BookingRequest) (*models.Booking, error) {
	if request.PassengerName == "" || request.PassengerEmail == "" {
		return nil, models.ErrMissingPassengerDetails
	}
	if len(request.Legs) == 0 {
		return nil, models.ErrEmptyItinerary
	}

	flights := make([]models.Flight, 0, len(request.Legs))
	totalPrice := 0
	for _, leg := range request.Legs {
		date, err := time.Parse(models.DateFormat, leg.Date)
		if err != nil {
			return nil, models.ErrInvalidDate
		}
		route, err := s.catalog.RouteByID(ctx, leg.RouteID)
		if err != nil {
			return nil, fmt.Errorf("invalid leg %s: %w", leg.RouteID, err)
		}
		flights = append(flights, models.Flight{Route: *route, Date: date})
		totalPrice += route.Price
	}

	booking := &models.Booking{
		Passenger: models.Passenger{
			Name:  request.PassengerName,
			Email: request.PassengerEmail,
		},
		Flights:    flights,
		TotalPrice: totalPrice,
	}

	saved, err := s.repo.CreateBooking(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("error creating booking: %w", err)
	}

	s.publish(ctx, events.TypeBookingCreated, saved)
	return saved, nil
}

func (s *bookingService) GetBooking(ctx context.Context, reference string) (*models.Booking, error) {
	if reference == "" {
		return nil, models.ErrBookingNotFound
	}
	return s.repo.GetBookingByReference(ctx, reference)
}

func (s *bookingService) BookingsForPassenger(ctx context.Context, email string) ([]models.Booking, error) {
	if email == "" {
		return nil, models.ErrMissingPassengerDetails
	}
	bookings, err := s.repo.GetBookingsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}
	if len(bookings) == 0 {
		return nil, models.ErrPassengerNotFound
	}
	return bookings, nil
}

// CancelBooking removes a booking and all its seat reservations, but only
// for the passenger who owns it. Email comparison is case-insensitive, same
// as passenger lookup.
func (s *bookingService) CancelBooking(ctx context.Context, reference, email string) error {
	booking, err := s.repo.GetBookingByReference(ctx, reference)
	if err != nil {
		return err
	}
	if !strings.EqualFold(booking.Passenger.Email, email) {
		return models.ErrNotBookingOwner
	}

	if err := s.repo.DeleteBooking(ctx, reference, booking.Passenger.ID); err != nil {
		return err
	}

	s.publish(ctx, events.TypeBookingCancelled, booking)
	return nil
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *models.Booking) {
	if s.producer == nil {
		return
	}
	event := events.BookingEvent{
		Type:       eventType,
		Reference:  booking.Reference,
		Email:      booking.Passenger.Email,
		TotalPrice: booking.TotalPrice,
		CreatedAt:  booking.CreatedAt,
	}
	// delivery is best effort, the state change is already committed
	_ = s.producer.Publish(ctx, booking.Reference, event)
}

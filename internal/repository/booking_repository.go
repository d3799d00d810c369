package repository

import (
	"context"
	"time"

	models "github.com/dairyflats/aerobook/internal"
	"github.com/dairyflats/aerobook/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// maxReferenceAttempts bounds the candidate-draw loop for booking
// references. Exhaustion surfaces as ErrReferenceExhausted.
const maxReferenceAttempts = 5

type BookingRepository struct {
	db   DBConn
	refs ports.ReferenceSource
}

func NewBookingRepository(db DBConn, refs ports.ReferenceSource) *BookingRepository {
	return &BookingRepository{db: db, refs: refs}
}

// CreateBooking persists a booking and one seat reservation per leg as a
// single transaction. Capacity checks, reference allocation and all writes
// share the transaction, so either the whole itinerary is reserved or
// nothing is.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	// Duplicate legs would each pass the capacity check against the same
	// pre-insert seat count, so the same flight can never appear twice.
	seen := make(map[string]bool, len(booking.Flights))
	for _, flight := range booking.Flights {
		key := flight.Route.ID + "|" + flight.Date.Format(models.DateFormat)
		if seen[key] {
			return nil, models.ErrDuplicateLeg
		}
		seen[key] = true
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err = r.upsertPassengerTx(ctx, tx, &booking.Passenger); err != nil {
		return nil, err
	}

	for i := range booking.Flights {
		if err = r.reserveFlightTx(ctx, tx, &booking.Flights[i]); err != nil {
			return nil, err
		}
	}

	booking.CreatedAt = time.Now().UTC()
	if err = r.insertBookingTx(ctx, tx, booking); err != nil {
		return nil, err
	}

	for _, flight := range booking.Flights {
		_, err = tx.Exec(ctx, `
        INSERT INTO flight_reservations (booking_reference, flight_id)
        VALUES ($1, $2)
    `, booking.Reference, flight.ID)
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return booking, nil
}

// upsertPassengerTx resolves the passenger by unique email, creating the row
// on first contact. A repeated email reuses the existing passenger.
func (r *BookingRepository) upsertPassengerTx(ctx context.Context, tx pgx.Tx, passenger *models.Passenger) error {
	if passenger.ID == uuid.Nil {
		passenger.ID = uuid.New()
	}
	return tx.QueryRow(ctx, `
        INSERT INTO passengers (id, name, email)
        VALUES ($1, $2, $3)
        ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
        RETURNING id
    `, passenger.ID, passenger.Name, passenger.Email).Scan(&passenger.ID)
}

// reserveFlightTx upserts the dated flight row and verifies a seat is free.
// The no-op DO UPDATE makes RETURNING yield the surviving row on conflict
// and, crucially, takes a row lock on it: concurrent bookings for the same
// flight serialize here, so the seat count below cannot go stale before our
// reservation insert commits.
func (r *BookingRepository) reserveFlightTx(ctx context.Context, tx pgx.Tx, flight *models.Flight) error {
	if flight.ID == uuid.Nil {
		flight.ID = uuid.New()
	}
	err := tx.QueryRow(ctx, `
        INSERT INTO flights (id, route_id, date)
        VALUES ($1, $2, $3)
        ON CONFLICT (route_id, date) DO UPDATE SET route_id = EXCLUDED.route_id
        RETURNING id
    `, flight.ID, flight.Route.ID, flight.Date).Scan(&flight.ID)
	if err != nil {
		return err
	}

	var capacity, reserved int
	err = tx.QueryRow(ctx, `
        SELECT A.capacity, COUNT(FR.flight_id)
        FROM flights F
        JOIN routes R ON R.id = F.route_id
        JOIN services S ON S.id = R.service_id
        JOIN aircraft A ON A.id = S.aircraft_id
        LEFT JOIN flight_reservations FR ON FR.flight_id = F.id
        WHERE F.id = $1
        GROUP BY A.capacity
    `, flight.ID).Scan(&capacity, &reserved)
	if err != nil {
		return err
	}
	if reserved >= capacity {
		return &models.CapacityError{RouteID: flight.Route.ID, Date: flight.Date}
	}
	return nil
}

// insertBookingTx allocates a collision-checked reference and writes the
// booking row. Check and insert share the surrounding transaction.
func (r *BookingRepository) insertBookingTx(ctx context.Context, tx pgx.Tx, booking *models.Booking) error {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		candidate := r.refs.Candidate()

		var exists bool
		err := tx.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM bookings WHERE reference = $1)
    `, candidate).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		_, err = tx.Exec(ctx, `
        INSERT INTO bookings (reference, passenger_id, total_price, created_at)
        VALUES ($1, $2, $3, $4)
    `, candidate, booking.Passenger.ID, booking.TotalPrice, booking.CreatedAt)
		if err != nil {
			return err
		}
		booking.Reference = candidate
		return nil
	}
	return models.ErrReferenceExhausted
}

func (r *BookingRepository) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	rows, err := r.db.Query(ctx, `
        SELECT B.reference, B.total_price, B.created_at,
               P.id, P.name, P.email
        FROM bookings B
        JOIN passengers P ON P.id = B.passenger_id
        WHERE B.reference = $1
    `, reference)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, models.ErrBookingNotFound
	}
	var booking models.Booking
	err = rows.Scan(
		&booking.Reference, &booking.TotalPrice, &booking.CreatedAt,
		&booking.Passenger.ID, &booking.Passenger.Name, &booking.Passenger.Email,
	)
	rows.Close()
	if err != nil {
		return nil, err
	}

	booking.Flights, err = r.flightsForBooking(ctx, booking.Reference)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetBookingsByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	rows, err := r.db.Query(ctx, `
        SELECT B.reference, B.total_price, B.created_at,
               P.id, P.name, P.email
        FROM bookings B
        JOIN passengers P ON P.id = B.passenger_id
        WHERE lower(P.email) = lower($1)
        ORDER BY B.created_at, B.reference
    `, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		err = rows.Scan(
			&booking.Reference, &booking.TotalPrice, &booking.CreatedAt,
			&booking.Passenger.ID, &booking.Passenger.Name, &booking.Passenger.Email,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range bookings {
		bookings[i].Flights, err = r.flightsForBooking(ctx, bookings[i].Reference)
		if err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

// DeleteBooking removes the booking and its reservations in one transaction.
// The passenger filter keeps the delete scoped to the owner; cancellation
// must never leave orphaned reservations behind.
func (r *BookingRepository) DeleteBooking(ctx context.Context, reference string, passengerID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        DELETE FROM flight_reservations WHERE booking_reference = $1
    `, reference)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
        DELETE FROM bookings WHERE reference = $1 AND passenger_id = $2
    `, reference, passengerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrBookingNotFound
	}

	return tx.Commit(ctx)
}

func (r *BookingRepository) flightsForBooking(ctx context.Context, reference string) ([]models.Flight, error) {
	rows, err := r.db.Query(ctx, `
        SELECT F.id, F.date,
               R.id, R.origin, R.destination, R.weekday, R.departure, R.arrival, R.price,
               S.id, S.name,
               A.id, A.name, A.capacity
        FROM flight_reservations FR
        JOIN flights F ON F.id = FR.flight_id
        JOIN routes R ON R.id = F.route_id
        JOIN services S ON S.id = R.service_id
        JOIN aircraft A ON A.id = S.aircraft_id
        WHERE FR.booking_reference = $1
        ORDER BY R.id
    `, reference)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flights []models.Flight
	for rows.Next() {
		var f models.Flight
		err = rows.Scan(
			&f.ID, &f.Date,
			&f.Route.ID, &f.Route.Origin, &f.Route.Destination, &f.Route.Weekday,
			&f.Route.Departure, &f.Route.Arrival, &f.Route.Price,
			&f.Route.Service.ID, &f.Route.Service.Name,
			&f.Route.Service.Aircraft.ID, &f.Route.Service.Aircraft.Name, &f.Route.Service.Aircraft.Capacity,
		)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

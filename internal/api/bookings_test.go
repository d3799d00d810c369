package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	models "github.com/dairyflats/aerobook/internal"
	"github.com/dairyflats/aerobook/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, request *models.BookingRequest) (*models.Booking, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, reference string) (*models.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) BookingsForPassenger(ctx context.Context, email string) ([]models.Booking, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, reference, email string) error {
	args := m.Called(ctx, reference, email)
	return args.Error(0)
}

func validBookingBody() string {
	date := time.Now().UTC().AddDate(0, 0, 7).Format(models.DateFormat)
	return fmt.Sprintf(`{
		"passenger_name": "Jane Doe",
		"passenger_email": "jane@example.com",
		"legs": [{"route_id": "R1", "date": %q}]
	}`, date)
}

func TestCreateBookingHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockBookingService)
		svc.On("CreateBooking", mock.Anything, mock.AnythingOfType("*models.BookingRequest")).
			Return(&models.Booking{Reference: "BX7K2P", TotalPrice: 100}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(validBookingBody()))
		w := httptest.NewRecorder()
		api.BookingHandler(svc)(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var booking models.Booking
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
		assert.Equal(t, "BX7K2P", booking.Reference)
	})

	t.Run("invalid body", func(t *testing.T) {
		svc := new(MockBookingService)

		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader("{not json"))
		w := httptest.NewRecorder()
		api.BookingHandler(svc)(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("validation failure", func(t *testing.T) {
		svc := new(MockBookingService)

		body := `{"passenger_name": "Jane Doe", "passenger_email": "nope", "legs": []}`
		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
		w := httptest.NewRecorder()
		api.BookingHandler(svc)(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no seats left", func(t *testing.T) {
		svc := new(MockBookingService)
		capErr := &models.CapacityError{RouteID: "R1", Date: time.Now().UTC().AddDate(0, 0, 7)}
		svc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, capErr)

		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(validBookingBody()))
		w := httptest.NewRecorder()
		api.BookingHandler(svc)(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "R1")
	})

	t.Run("same flight listed twice", func(t *testing.T) {
		svc := new(MockBookingService)
		svc.On("CreateBooking", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("error creating booking: %w", models.ErrDuplicateLeg))

		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(validBookingBody()))
		w := httptest.NewRecorder()
		api.BookingHandler(svc)(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("past date", func(t *testing.T) {
		svc := new(MockBookingService)

		body := fmt.Sprintf(`{
			"passenger_name": "Jane Doe",
			"passenger_email": "jane@example.com",
			"legs": [{"route_id": "R1", "date": %q}]
		}`, time.Now().UTC().AddDate(0, 0, -1).Format(models.DateFormat))
		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
		w := httptest.NewRecorder()
		api.BookingHandler(svc)(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})
}

func TestGetBookingsHandler(t *testing.T) {
	t.Run("by reference", func(t *testing.T) {
		svc := new(MockBookingService)
		svc.On("GetBooking", mock.Anything, "BX7K2P").
			Return(&models.Booking{Reference: "BX7K2P"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings?id=BX7K2P", nil)
		w := httptest.NewRecorder()
		api.BookingHandler(svc)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown reference", func(t *testing.T) {
		svc := new(MockBookingService)
		svc.On("GetBooking", mock.Anything, "BNOPE1").Return(nil, models.ErrBookingNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings?id=BNOPE1", nil)
		w := httptest.NewRecorder()
		api.BookingHandler(svc)(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("by email", func(t *testing.T) {
		svc := new(MockBookingService)
		svc.On("BookingsForPassenger", mock.Anything, "jane@example.com").
			Return([]models.Booking{{Reference: "BX7K2P"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings?email=jane@example.com", nil)
		w := httptest.NewRecorder()
		api.BookingHandler(svc)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("neither id nor email", func(t *testing.T) {
		svc := new(MockBookingService)

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
		w := httptest.NewRecorder()
		api.BookingHandler(svc)(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCancelBookingHandler(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		svc := new(MockBookingService)
		svc.On("CancelBooking", mock.Anything, "BX7K2P", "jane@example.com").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/v1/bookings?id=BX7K2P",
			strings.NewReader(`{"email": "jane@example.com"}`))
		w := httptest.NewRecorder()
		api.BookingHandler(svc)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing email", func(t *testing.T) {
		svc := new(MockBookingService)

		req := httptest.NewRequest(http.MethodDelete, "/v1/bookings?id=BX7K2P", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		api.BookingHandler(svc)(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not the owner", func(t *testing.T) {
		svc := new(MockBookingService)
		svc.On("CancelBooking", mock.Anything, "BX7K2P", "intruder@example.com").
			Return(models.ErrNotBookingOwner)

		req := httptest.NewRequest(http.MethodDelete, "/v1/bookings?id=BX7K2P",
			strings.NewReader(`{"email": "intruder@example.com"}`))
		w := httptest.NewRecorder()
		api.BookingHandler(svc)(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

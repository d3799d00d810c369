package api

import (
	"errors"
	"net/http"

	models "github.com/dairyflats/aerobook/internal"
	"github.com/dairyflats/aerobook/internal/ports"
	"github.com/dairyflats/aerobook/internal/utils"
	"github.com/dairyflats/aerobook/internal/validator"
)

func BookingHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createBooking(service, w, r)
		case http.MethodGet:
			getBookings(service, w, r)
		case http.MethodDelete:
			cancelBooking(service, w, r)
		}
	}
}

func createBooking(service ports.BookingService, w http.ResponseWriter, r *http.Request) {
	var bookingRequest models.BookingRequest
	if err := utils.JsonDecodeBody(r, &bookingRequest); err != nil {
		ae := utils.NewBadRequest("error json decoding body")
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}

	v := validator.NewCustomValidator()
	if err := v.Validate(bookingRequest); err != nil {
		ae := utils.NewBadRequest(err.Error())
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}

	booking, err := service.CreateBooking(r.Context(), &bookingRequest)
	if err != nil {
		ae := getApiError(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusCreated, booking)
}

func getBookings(service ports.BookingService, w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if reference := query.Get("id"); reference != "" {
		booking, err := service.GetBooking(r.Context(), reference)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(w, http.StatusOK, booking)
		return
	}

	if email := query.Get("email"); email != "" {
		bookings, err := service.BookingsForPassenger(r.Context(), email)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(w, http.StatusOK, bookings)
		return
	}

	ae := utils.NewBadRequest("either id or email is required")
	utils.RenderResponse(w, ae.StatusCode, ae)
}

type cancelRequest struct {
	Email string `json:"email"`
}

func cancelBooking(service ports.BookingService, w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("id")
	if reference == "" {
		ae := utils.NewBadRequest("id is required")
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}

	var req cancelRequest
	if err := utils.JsonDecodeBody(r, &req); err != nil || req.Email == "" {
		ae := utils.NewUnauthorized("email is required to cancel a booking")
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}

	if err := service.CancelBooking(r.Context(), reference, req.Email); err != nil {
		ae := getApiError(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func getApiError(err error) utils.ApiError {
	var capacityErr *models.CapacityError

	ae := utils.ApiError{Msg: err.Error()}
	switch {
	case errors.As(err, &capacityErr):
		ae.StatusCode = http.StatusConflict
	case errors.Is(err, models.ErrReferenceExhausted):
		ae.StatusCode = http.StatusConflict
	case errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrPassengerNotFound),
		errors.Is(err, models.ErrRouteNotFound):
		ae.StatusCode = http.StatusNotFound
	case errors.Is(err, models.ErrNotBookingOwner):
		ae.StatusCode = http.StatusUnauthorized
	case errors.Is(err, models.ErrMissingPassengerDetails),
		errors.Is(err, models.ErrEmptyItinerary),
		errors.Is(err, models.ErrDuplicateLeg),
		errors.Is(err, models.ErrInvalidDate):
		ae.StatusCode = http.StatusBadRequest
	default:
		ae.StatusCode = http.StatusInternalServerError
	}
	return ae
}

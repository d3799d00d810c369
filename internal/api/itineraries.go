package api

import (
	"net/http"
	"time"

	models "github.com/dairyflats/aerobook/internal"
	"github.com/dairyflats/aerobook/internal/ports"
	"github.com/dairyflats/aerobook/internal/utils"
	"github.com/dairyflats/aerobook/internal/validator"
)

// ItinerariesHandler answers /itineraries?from=&to=&date=. The calendar date
// is reduced to a weekday here; the resolver only ever sees weekdays.
func ItinerariesHandler(service ports.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		date, err := time.Parse(models.DateFormat, query.Get("date"))
		if err != nil {
			ae := utils.NewBadRequest(models.ErrInvalidDate.Error())
			utils.RenderResponse(w, ae.StatusCode, ae)
			return
		}

		search := models.ItinerarySearch{
			From: query.Get("from"),
			To:   query.Get("to"),
			Date: date,
		}
		v := validator.NewCustomValidator()
		if err := v.Validate(search); err != nil {
			ae := utils.NewBadRequest(err.Error())
			utils.RenderResponse(w, ae.StatusCode, ae)
			return
		}

		itineraries, err := service.FindItineraries(r.Context(), search.From, search.To, date.Weekday())
		if err != nil {
			ae := utils.NewInternalServerError(err.Error())
			utils.RenderResponse(w, ae.StatusCode, ae)
			return
		}
		if len(itineraries) == 0 {
			ae := utils.NewNotFound("no itineraries were found matching those filters")
			utils.RenderResponse(w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(w, http.StatusOK, itineraries)
	}
}

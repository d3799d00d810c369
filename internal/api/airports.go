package api

import (
	"net/http"

	"github.com/dairyflats/aerobook/internal/ports"
	"github.com/dairyflats/aerobook/internal/utils"
)

func AirportsHandler(service ports.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		airports, err := service.ListAirports(r.Context())
		if err != nil {
			ae := utils.NewInternalServerError(err.Error())
			utils.RenderResponse(w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(w, http.StatusOK, airports)
	}
}

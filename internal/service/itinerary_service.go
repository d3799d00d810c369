package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	models "github.com/dairyflats/aerobook/internal"
	"github.com/dairyflats/aerobook/internal/ports"
)

type itineraryService struct {
	catalog ports.RouteCatalog
	cache   ports.CatalogCache
}

// NewItineraryService builds the catalog-facing service. cache may be nil;
// every read then goes straight to the catalog.
func NewItineraryService(catalog ports.RouteCatalog, cache ports.CatalogCache) *itineraryService {
	return &itineraryService{
		catalog: catalog,
		cache:   cache,
	}
}

func (s *itineraryService) ListAirports(ctx context.Context) ([]models.Airport, error) {
	if s.cache != nil {
		if airports, err := s.cache.GetAirports(ctx); err == nil && len(airports) > 0 {
			return airports, nil
		}
	}

	airports, err := s.catalog.AllAirports(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing airports: %w", err)
	}
	if s.cache != nil && len(airports) > 0 {
		// best effort, the catalog copy already answered the request
		_ = s.cache.SetAirports(ctx, airports)
	}
	return airports, nil
}

// FindItineraries enumerates every simple path of routes from origin to
// destination that is valid on the given weekday. An airport never appears
// twice on a path, which also bounds the search on cyclic route graphs. No
// result is not an error.
func (s *itineraryService) FindItineraries(ctx context.Context, origin, destination string, day time.Weekday) ([][]models.Route, error) {
	maxDepth, err := s.catalog.AirportCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("error sizing route graph: %w", err)
	}
	if maxDepth == 0 {
		return nil, nil
	}
	return s.resolve(ctx, origin, destination, day.String(), []string{origin}, maxDepth)
}

func (s *itineraryService) resolve(ctx context.Context, origin, destination, weekday string, visited []string, maxDepth int) ([][]models.Route, error) {
	// A destination already on the path can only be the search's own origin;
	// arriving there would revisit it, so such a search yields nothing.
	for _, code := range visited {
		if code == destination {
			return nil, nil
		}
	}

	direct, err := s.catalog.RoutesBetween(ctx, origin, destination, weekday)
	if err != nil {
		return nil, err
	}
	if len(direct) > 0 {
		itineraries := make([][]models.Route, 0, len(direct))
		for _, route := range direct {
			itineraries = append(itineraries, []models.Route{route})
		}
		sortItineraries(itineraries)
		return itineraries, nil
	}

	// Guard against a malformed catalog; path length can never legitimately
	// exceed the number of distinct airports.
	if len(visited) >= maxDepth {
		return nil, nil
	}

	branches, err := s.catalog.RoutesFromExcluding(ctx, origin, weekday, visited)
	if err != nil {
		return nil, err
	}

	var itineraries [][]models.Route
	for _, route := range branches {
		// each branch carries its own copy of the path so far
		path := make([]string, len(visited), len(visited)+1)
		copy(path, visited)
		path = append(path, route.Destination)

		tails, err := s.resolve(ctx, route.Destination, destination, weekday, path, maxDepth)
		if err != nil {
			return nil, err
		}
		for _, tail := range tails {
			itinerary := make([]models.Route, 0, len(tail)+1)
			itinerary = append(itinerary, route)
			itinerary = append(itinerary, tail...)
			itineraries = append(itineraries, itinerary)
		}
	}
	sortItineraries(itineraries)
	return itineraries, nil
}

// sortItineraries orders results leg by leg on route ID so identical inputs
// always report itineraries in the same order.
func sortItineraries(itineraries [][]models.Route) {
	sort.SliceStable(itineraries, func(i, j int) bool {
		a, b := itineraries[i], itineraries[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k].ID != b[k].ID {
				return a[k].ID < b[k].ID
			}
		}
		return len(a) < len(b)
	})
}

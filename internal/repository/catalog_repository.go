package repository

import (
	"context"
	"errors"

	models "github.com/dairyflats/aerobook/internal"
	"github.com/jackc/pgx/v5"
)

const routeColumns = `
        R.id, R.origin, R.destination, R.weekday, R.departure, R.arrival, R.price,
        S.id, S.name,
        A.id, A.name, A.capacity
`

const routeJoins = `
        FROM routes R
        JOIN services S ON S.id = R.service_id
        JOIN aircraft A ON A.id = S.aircraft_id
`

// CatalogRepository serves the immutable schedule graph: airports, routes,
// services and aircraft. It never writes.
type CatalogRepository struct {
	db DBConn
}

func NewCatalogRepository(db DBConn) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) AllAirports(ctx context.Context) ([]models.Airport, error) {
	rows, err := r.db.Query(ctx, `
        SELECT code, name, country, timezone
        FROM airports
        ORDER BY code
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var airports []models.Airport
	for rows.Next() {
		var a models.Airport
		if err := rows.Scan(&a.Code, &a.Name, &a.Country, &a.Timezone); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *CatalogRepository) AirportCount(ctx context.Context) (int, error) {
	var count int
	rows, err := r.db.Query(ctx, `SELECT COUNT(*) FROM airports`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, err
		}
	}
	return count, rows.Err()
}

func (r *CatalogRepository) RouteByID(ctx context.Context, id string) (*models.Route, error) {
	routes, err := r.queryRoutes(ctx, `
        SELECT `+routeColumns+routeJoins+`
        WHERE R.id = $1
    `, id)
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return nil, models.ErrRouteNotFound
	}
	return &routes[0], nil
}

func (r *CatalogRepository) RoutesFrom(ctx context.Context, origin, weekday string) ([]models.Route, error) {
	return r.queryRoutes(ctx, `
        SELECT `+routeColumns+routeJoins+`
        WHERE R.origin = $1 AND R.weekday = $2
        ORDER BY R.id
    `, origin, weekday)
}

func (r *CatalogRepository) RoutesBetween(ctx context.Context, origin, destination, weekday string) ([]models.Route, error) {
	return r.queryRoutes(ctx, `
        SELECT `+routeColumns+routeJoins+`
        WHERE R.origin = $1 AND R.destination = $2 AND R.weekday = $3
        ORDER BY R.id
    `, origin, destination, weekday)
}

// RoutesFromExcluding is the resolver's no-backtrack primitive: routes from
// origin on weekday whose destination is not already on the caller's path.
func (r *CatalogRepository) RoutesFromExcluding(ctx context.Context, origin, weekday string, excluded []string) ([]models.Route, error) {
	if len(excluded) == 0 {
		return r.RoutesFrom(ctx, origin, weekday)
	}
	return r.queryRoutes(ctx, `
        SELECT `+routeColumns+routeJoins+`
        WHERE R.origin = $1 AND R.weekday = $2 AND NOT (R.destination = ANY($3))
        ORDER BY R.id
    `, origin, weekday, excluded)
}

func (r *CatalogRepository) queryRoutes(ctx context.Context, sql string, args ...interface{}) ([]models.Route, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	var routes []models.Route
	for rows.Next() {
		var rt models.Route
		err := rows.Scan(
			&rt.ID, &rt.Origin, &rt.Destination, &rt.Weekday, &rt.Departure, &rt.Arrival, &rt.Price,
			&rt.Service.ID, &rt.Service.Name,
			&rt.Service.Aircraft.ID, &rt.Service.Aircraft.Name, &rt.Service.Aircraft.Capacity,
		)
		if err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, rows.Err()
}

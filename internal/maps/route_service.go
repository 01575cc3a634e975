package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"courier/internal/modules/distance"
	"courier/internal/platform/obs"
	"courier/internal/types"
)

// RouteService answers driving distance/duration through the Distance Matrix
// API. It satisfies distance.RouteOracle.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string, opts ...maps.ClientOption) (*RouteService, error) {
	client, err := newClient(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &RouteService{client: client}, nil
}

// QueryRoute asks for a single origin/destination element. A non-OK
// top-level status comes back from the client as an error; a non-OK element
// status is returned in Route.Status.
func (s *RouteService) QueryRoute(ctx context.Context, origin, destination types.Point) (_ distance.Route, err error) {
	defer obs.Time(ctx, "maps.DistanceMatrix")(&err)

	r := &maps.DistanceMatrixRequest{
		Origins:      []string{latLng(origin)},
		Destinations: []string{latLng(destination)},
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsMetric,
	}

	resp, err := s.client.DistanceMatrix(ctx, r)
	if err != nil {
		return distance.Route{}, fmt.Errorf("maps api error: %w", err)
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return distance.Route{Status: "ZERO_RESULTS"}, nil
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != distance.StatusOK {
		return distance.Route{Status: el.Status}, nil
	}
	return distance.Route{
		Status:          el.Status,
		DistanceMeters:  float64(el.Distance.Meters),
		DurationSeconds: el.Duration.Seconds(),
	}, nil
}

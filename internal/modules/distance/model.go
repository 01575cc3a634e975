// README: Routing oracle contract and two-leg distance estimate types.
package distance

import (
	"context"
	"fmt"

	"courier/internal/types"
)

// StatusOK is the status a usable route reports.
const StatusOK = "OK"

// Route is one origin→destination answer from a routing oracle.
type Route struct {
	Status          string  `json:"status"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// RouteOracle answers driving distance/duration between two points. An
// error means the call itself failed (network, quota, non-OK top-level
// status); a Route with Status != StatusOK means no usable route exists.
type RouteOracle interface {
	QueryRoute(ctx context.Context, origin, destination types.Point) (Route, error)
}

type Leg struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// Estimate covers agent→pickup (Leg1) and pickup→delivery (Leg2). When
// Success is false every numeric field is zero and ErrorReason says why.
type Estimate struct {
	Leg1            Leg     `json:"leg1"`
	Leg2            Leg     `json:"leg2"`
	TotalBillableKm float64 `json:"total_billable_km"`
	Success         bool    `json:"success"`
	ErrorReason     string  `json:"error_reason,omitempty"`
}

// RouteStatusError reports a leg whose route came back with a non-OK status.
type RouteStatusError struct {
	Leg    string
	Status string
}

func (e *RouteStatusError) Error() string {
	return fmt.Sprintf("%s: route status %s", e.Leg, e.Status)
}

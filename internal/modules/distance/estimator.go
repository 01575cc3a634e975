package distance

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"courier/internal/platform/obs"
	"courier/internal/types"
)

const (
	legAgentToPickup    = "agent_to_pickup"
	legPickupToDelivery = "pickup_to_delivery"
)

// Estimator queries both legs of a delivery concurrently. It performs no
// retries: the first failing leg fails the whole estimate.
type Estimator struct {
	oracle  RouteOracle
	timeout time.Duration
}

// NewEstimator returns an Estimator. A positive timeout bounds each Estimate
// call; zero leaves it to the caller's context.
func NewEstimator(oracle RouteOracle, timeout time.Duration) *Estimator {
	return &Estimator{oracle: oracle, timeout: timeout}
}

// Estimate never returns an error; failures are reported through
// Estimate.Success and Estimate.ErrorReason.
func (e *Estimator) Estimate(ctx context.Context, agent, pickup, delivery types.Point) Estimate {
	var err error
	defer obs.Time(ctx, "distance.Estimate")(&err)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var leg1, leg2 Leg
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l, err := e.queryLeg(gctx, legAgentToPickup, agent, pickup)
		leg1 = l
		return err
	})
	g.Go(func() error {
		l, err := e.queryLeg(gctx, legPickupToDelivery, pickup, delivery)
		leg2 = l
		return err
	})

	// An oracle that ignores cancellation must not hold the caller past ctx.
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case err = <-done:
	case <-ctx.Done():
		err = fmt.Errorf("estimate: %w", ctx.Err())
	}
	if err != nil {
		log.Printf("distance estimate failed err=%v", err)
		return Estimate{ErrorReason: err.Error()}
	}

	return Estimate{
		Leg1:            leg1,
		Leg2:            leg2,
		TotalBillableKm: leg1.DistanceKm + leg2.DistanceKm,
		Success:         true,
	}
}

func (e *Estimator) queryLeg(ctx context.Context, name string, origin, destination types.Point) (Leg, error) {
	route, err := e.oracle.QueryRoute(ctx, origin, destination)
	if err != nil {
		return Leg{}, fmt.Errorf("%s: %w", name, err)
	}
	if route.Status != StatusOK {
		return Leg{}, &RouteStatusError{Leg: name, Status: route.Status}
	}
	if route.DistanceMeters < 0 || route.DurationSeconds < 0 {
		return Leg{}, fmt.Errorf("%s: oracle returned negative distance or duration", name)
	}
	return Leg{
		DistanceKm:      route.DistanceMeters / 1000,
		DurationMinutes: route.DurationSeconds / 60,
	}, nil
}

// README: Location service masks delivery coordinates and serves them to agents.
package location

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/mmcloughlin/geohash"

	"courier/internal/types"
)

const cellPrecision = 6

type Service struct {
	store        *Store
	feed         Feed
	obfuscator   *Obfuscator
	radiusMeters float64
	now          func() time.Time
}

// NewService wires the listing index. feed may be nil when no mirror is configured.
func NewService(store *Store, feed Feed, obfuscator *Obfuscator, radiusMeters float64) *Service {
	if obfuscator == nil {
		obfuscator = NewObfuscator()
	}
	return &Service{
		store:        store,
		feed:         feed,
		obfuscator:   obfuscator,
		radiusMeters: radiusMeters,
		now:          time.Now,
	}
}

// Obfuscate masks p within radiusMeters.
func (s *Service) Obfuscate(p types.Point, radiusMeters float64) (types.Point, error) {
	if err := p.Validate(); err != nil {
		return types.Point{}, err
	}
	if !(radiusMeters > 0) {
		return types.Point{}, ErrInvalidRadius
	}
	return s.obfuscator.Obfuscate(p, radiusMeters), nil
}

// PublishListing masks both ends of the delivery and makes the listing
// visible to agents. Only the masked points are stored.
func (s *Service) PublishListing(ctx context.Context, req PublishRequest) (Listing, error) {
	if req.DeliveryID == "" {
		return Listing{}, fmt.Errorf("%w: missing delivery id", ErrInvalidListing)
	}
	if req.EstimatedPrice < 0 || math.IsNaN(req.EstimatedPrice) || math.IsInf(req.EstimatedPrice, 0) {
		return Listing{}, fmt.Errorf("%w: estimated price must be a non-negative number", ErrInvalidListing)
	}
	if err := req.Pickup.Validate(); err != nil {
		return Listing{}, fmt.Errorf("pickup: %w", err)
	}
	if err := req.Dropoff.Validate(); err != nil {
		return Listing{}, fmt.Errorf("dropoff: %w", err)
	}
	if !(s.radiusMeters > 0) {
		return Listing{}, ErrInvalidRadius
	}

	pickup := s.obfuscator.Obfuscate(req.Pickup, s.radiusMeters)
	l := Listing{
		DeliveryID:     req.DeliveryID,
		Pickup:         pickup,
		Dropoff:        s.obfuscator.Obfuscate(req.Dropoff, s.radiusMeters),
		PickupCell:     geohash.EncodeWithPrecision(pickup.Lat, pickup.Lng, cellPrecision),
		EstimatedPrice: req.EstimatedPrice,
		PublishedBy:    req.PublishedBy,
		PublishedAt:    s.now().UTC(),
	}

	if err := s.store.Put(ctx, l); err != nil {
		if errors.Is(err, ErrNotListingOwner) {
			return Listing{}, err
		}
		return Listing{}, fmt.Errorf("storing listing: %w", err)
	}
	if s.feed != nil {
		if err := s.feed.Publish(ctx, l); err != nil {
			log.Printf("listing feed publish failed delivery_id=%s err=%v", string(l.DeliveryID), err)
		}
	}
	return l, nil
}

// NearbyListings returns listings whose masked pickup is within radiusKm of
// the agent, closest first.
func (s *Service) NearbyListings(ctx context.Context, agent types.Point, radiusKm float64) ([]NearbyListing, error) {
	if err := agent.Validate(); err != nil {
		return nil, err
	}
	if !(radiusKm > 0) {
		return nil, ErrInvalidRadius
	}

	listings, err := s.store.Nearby(ctx, agent, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("querying nearby listings: %w", err)
	}

	result := make([]NearbyListing, 0, len(listings))
	for _, l := range listings {
		result = append(result, NearbyListing{
			Listing:    l,
			DistanceKm: haversineKm(agent.Lat, agent.Lng, l.Pickup.Lat, l.Pickup.Lng),
		})
	}

	sortByDistance(result, func(n NearbyListing) float64 { return n.DistanceKm })
	return result, nil
}

// WithdrawListing removes a listing on behalf of its publisher. Pass
// AnyPublisher for operator removals.
func (s *Service) WithdrawListing(ctx context.Context, id types.ID, publisher string) error {
	if err := s.store.Delete(ctx, id, publisher); err != nil {
		return err
	}
	if s.feed != nil {
		if err := s.feed.Withdraw(ctx, id); err != nil {
			log.Printf("listing feed withdraw failed delivery_id=%s err=%v", string(id), err)
		}
	}
	return nil
}

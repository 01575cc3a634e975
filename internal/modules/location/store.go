// README: Listing store backed by Redis GEO (masked pickup) and a JSON hash.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"courier/internal/types"
)

const (
	listingGeoKey  = "listings:pickups"
	listingDataKey = "listings:data"

	// WATCH on listingDataKey aborts when any listing changes concurrently.
	maxTxRetries = 10
)

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

// Put stores l, replacing an earlier listing for the same delivery only when
// it was published by the same publisher.
func (s *Store) Put(ctx context.Context, l Listing) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encoding listing %s: %w", string(l.DeliveryID), err)
	}
	return s.watchRetry(ctx, func(tx *redis.Tx) error {
		prev, err := getListing(ctx, tx, l.DeliveryID)
		switch {
		case errors.Is(err, ErrListingNotFound):
		case err != nil:
			return err
		case prev.PublishedBy != l.PublishedBy:
			return ErrNotListingOwner
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.GeoAdd(ctx, listingGeoKey, &redis.GeoLocation{
				Name:      string(l.DeliveryID),
				Longitude: l.Pickup.Lng,
				Latitude:  l.Pickup.Lat,
			})
			pipe.HSet(ctx, listingDataKey, string(l.DeliveryID), raw)
			return nil
		})
		return err
	})
}

func (s *Store) watchRetry(ctx context.Context, fn func(*redis.Tx) error) error {
	for i := 0; i < maxTxRetries; i++ {
		err := s.redis.Watch(ctx, fn, listingDataKey)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("listing update: %w", redis.TxFailedErr)
}

func (s *Store) Get(ctx context.Context, id types.ID) (Listing, error) {
	return getListing(ctx, s.redis, id)
}

func getListing(ctx context.Context, c redis.Cmdable, id types.ID) (Listing, error) {
	raw, err := c.HGet(ctx, listingDataKey, string(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Listing{}, ErrListingNotFound
	}
	if err != nil {
		return Listing{}, err
	}
	var l Listing
	if err := json.Unmarshal(raw, &l); err != nil {
		return Listing{}, fmt.Errorf("decoding listing %s: %w", string(id), err)
	}
	return l, nil
}

// Nearby returns listings whose masked pickup lies within radiusKm of p.
func (s *Store) Nearby(ctx context.Context, p types.Point, radiusKm float64) ([]Listing, error) {
	hits, err := s.redis.GeoRadius(ctx, listingGeoKey, p.Lng, p.Lat, &redis.GeoRadiusQuery{
		Radius: radiusKm,
		Unit:   "km",
		Sort:   "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.Name
	}
	vals, err := s.redis.HMGet(ctx, listingDataKey, ids...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Listing, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// geo member without data; withdrawn between the two reads
			continue
		}
		var l Listing
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			return nil, fmt.Errorf("decoding listing %s: %w", ids[i], err)
		}
		out = append(out, l)
	}
	return out, nil
}

// Delete removes the listing if publisher published it. AnyPublisher skips
// the check.
func (s *Store) Delete(ctx context.Context, id types.ID, publisher string) error {
	return s.watchRetry(ctx, func(tx *redis.Tx) error {
		l, err := getListing(ctx, tx, id)
		if err != nil {
			return err
		}
		if publisher != AnyPublisher && l.PublishedBy != publisher {
			return ErrNotListingOwner
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HDel(ctx, listingDataKey, string(id))
			pipe.ZRem(ctx, listingGeoKey, string(id))
			return nil
		})
		return err
	})
}

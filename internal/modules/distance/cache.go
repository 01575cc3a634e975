package distance

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"courier/internal/types"
)

const routeKeyPrefix = "distance:route:"

// CachedOracle memoises OK routes in Redis in front of another oracle.
// Cache errors are logged and fall through to the wrapped oracle.
type CachedOracle struct {
	next  RouteOracle
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedOracle(next RouteOracle, redis *redis.Client, ttl time.Duration) *CachedOracle {
	return &CachedOracle{next: next, redis: redis, ttl: ttl}
}

func (c *CachedOracle) QueryRoute(ctx context.Context, origin, destination types.Point) (Route, error) {
	key := routeKey(origin, destination)

	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var r Route
		if jerr := json.Unmarshal(raw, &r); jerr == nil {
			return r, nil
		}
		log.Printf("route cache entry corrupt key=%s", key)
	case !errors.Is(err, redis.Nil):
		log.Printf("route cache read failed key=%s err=%v", key, err)
	}

	r, err := c.next.QueryRoute(ctx, origin, destination)
	if err != nil || r.Status != StatusOK {
		return r, err
	}

	if b, jerr := json.Marshal(r); jerr == nil {
		if serr := c.redis.Set(ctx, key, b, c.ttl).Err(); serr != nil {
			log.Printf("route cache write failed key=%s err=%v", key, serr)
		}
	}
	return r, nil
}

func routeKey(origin, destination types.Point) string {
	return routeKeyPrefix + pairKey(origin, destination)
}

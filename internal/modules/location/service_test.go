package location

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"courier/internal/types"
)

type recordingFeed struct {
	mu        sync.Mutex
	published []Listing
	withdrawn []types.ID
	err       error
}

func (f *recordingFeed) Publish(_ context.Context, l Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, l)
	return f.err
}

func (f *recordingFeed) Withdraw(_ context.Context, id types.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.withdrawn = append(f.withdrawn, id)
	return f.err
}

func newTestService(t *testing.T, feed Feed) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc := NewService(NewStore(rdb), feed, NewSeededObfuscator(11), 500)
	svc.now = func() time.Time { return time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestPublishListing_MasksBothEnds(t *testing.T) {
	feed := &recordingFeed{}
	svc := newTestService(t, feed)
	ctx := context.Background()

	pickup := types.Point{Lat: 25.0340, Lng: 121.5645}
	dropoff := types.Point{Lat: 25.0478, Lng: 121.5170}
	l, err := svc.PublishListing(ctx, PublishRequest{
		DeliveryID:     "d1",
		Pickup:         pickup,
		Dropoff:        dropoff,
		EstimatedPrice: 13,
	})
	if err != nil {
		t.Fatalf("PublishListing() error = %v", err)
	}

	for name, pair := range map[string][2]types.Point{
		"pickup":  {pickup, l.Pickup},
		"dropoff": {dropoff, l.Dropoff},
	} {
		d := DistanceMeters(pair[0], pair[1])
		if d < 150*(1-boundTolerance) || d > 500*(1+boundTolerance) {
			t.Errorf("%s masked %.1fm away, want within [150, 500]", name, d)
		}
	}
	if len(l.PickupCell) != cellPrecision {
		t.Errorf("PickupCell = %q, want %d chars", l.PickupCell, cellPrecision)
	}
	if len(feed.published) != 1 || feed.published[0].DeliveryID != "d1" {
		t.Errorf("feed got %v, want one listing d1", feed.published)
	}

	stored, err := svc.store.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("store.Get() error = %v", err)
	}
	if stored.Pickup != l.Pickup || stored.Dropoff != l.Dropoff {
		t.Errorf("stored listing %v differs from returned %v", stored, l)
	}
	if stored.Pickup == pickup || stored.Dropoff == dropoff {
		t.Errorf("true coordinates were stored")
	}
}

func TestPublishListing_Validation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	valid := types.Point{Lat: 25, Lng: 121}

	tests := []struct {
		name string
		req  PublishRequest
		want error
	}{
		{"missing id", PublishRequest{Pickup: valid, Dropoff: valid}, ErrInvalidListing},
		{"negative price", PublishRequest{DeliveryID: "x", Pickup: valid, Dropoff: valid, EstimatedPrice: -1}, ErrInvalidListing},
		{"bad pickup", PublishRequest{DeliveryID: "x", Pickup: types.Point{Lat: 95}, Dropoff: valid}, types.ErrInvalidPoint},
		{"bad dropoff", PublishRequest{DeliveryID: "x", Pickup: valid, Dropoff: types.Point{Lng: 190}}, types.ErrInvalidPoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.PublishListing(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("PublishListing() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPublishListing_RequiresRadius(t *testing.T) {
	svc := newTestService(t, nil)
	svc.radiusMeters = 0
	_, err := svc.PublishListing(context.Background(), PublishRequest{
		DeliveryID: "x",
		Pickup:     types.Point{Lat: 25, Lng: 121},
		Dropoff:    types.Point{Lat: 25.01, Lng: 121.01},
	})
	if !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("PublishListing() error = %v, want ErrInvalidRadius", err)
	}
}

func TestPublishListing_FeedFailureIsNotFatal(t *testing.T) {
	svc := newTestService(t, &recordingFeed{err: errors.New("rtdb down")})
	_, err := svc.PublishListing(context.Background(), PublishRequest{
		DeliveryID: "d1",
		Pickup:     types.Point{Lat: 25, Lng: 121},
		Dropoff:    types.Point{Lat: 25.01, Lng: 121.01},
	})
	if err != nil {
		t.Errorf("PublishListing() error = %v, want nil", err)
	}
}

func TestNearbyListings_SortedAndBounded(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	agent := types.Point{Lat: 25.0340, Lng: 121.5645}
	seed := []struct {
		id     types.ID
		pickup types.Point
	}{
		{"far", types.Point{Lat: 25.0800, Lng: 121.5645}},   // ~5.1km north
		{"near", types.Point{Lat: 25.0400, Lng: 121.5645}},  // ~0.7km north
		{"mid", types.Point{Lat: 25.0560, Lng: 121.5645}},   // ~2.4km north
		{"out", types.Point{Lat: 25.3000, Lng: 121.5645}},   // ~30km north
	}
	for _, s := range seed {
		if _, err := svc.PublishListing(ctx, PublishRequest{DeliveryID: s.id, Pickup: s.pickup, Dropoff: s.pickup}); err != nil {
			t.Fatalf("PublishListing(%s) error = %v", s.id, err)
		}
	}

	got, err := svc.NearbyListings(ctx, agent, 10)
	if err != nil {
		t.Fatalf("NearbyListings() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("NearbyListings() returned %d listings, want 3", len(got))
	}
	want := []types.ID{"near", "mid", "far"}
	for i, id := range want {
		if got[i].DeliveryID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].DeliveryID, id)
		}
		if i > 0 && got[i].DistanceKm < got[i-1].DistanceKm {
			t.Errorf("listings not sorted by distance: %v", got)
		}
	}
}

func TestNearbyListings_Validation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.NearbyListings(ctx, types.Point{Lat: 100}, 5); !errors.Is(err, types.ErrInvalidPoint) {
		t.Errorf("invalid agent: error = %v, want ErrInvalidPoint", err)
	}
	if _, err := svc.NearbyListings(ctx, types.Point{Lat: 25, Lng: 121}, 0); !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("zero radius: error = %v, want ErrInvalidRadius", err)
	}
}

func TestWithdrawListing(t *testing.T) {
	feed := &recordingFeed{}
	svc := newTestService(t, feed)
	ctx := context.Background()

	p := types.Point{Lat: 25.0340, Lng: 121.5645}
	if _, err := svc.PublishListing(ctx, PublishRequest{DeliveryID: "d1", Pickup: p, Dropoff: p}); err != nil {
		t.Fatalf("PublishListing() error = %v", err)
	}
	if err := svc.WithdrawListing(ctx, "d1", AnyPublisher); err != nil {
		t.Fatalf("WithdrawListing() error = %v", err)
	}
	if len(feed.withdrawn) != 1 || feed.withdrawn[0] != "d1" {
		t.Errorf("feed withdrawn = %v, want [d1]", feed.withdrawn)
	}

	got, err := svc.NearbyListings(ctx, p, 5)
	if err != nil {
		t.Fatalf("NearbyListings() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("withdrawn listing still visible: %v", got)
	}

	if err := svc.WithdrawListing(ctx, "d1", AnyPublisher); !errors.Is(err, ErrListingNotFound) {
		t.Errorf("second WithdrawListing() error = %v, want ErrListingNotFound", err)
	}
}

func TestListingOwnership(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	p := types.Point{Lat: 25.0340, Lng: 121.5645}

	first, err := svc.PublishListing(ctx, PublishRequest{DeliveryID: "d1", PublishedBy: "alice", Pickup: p, Dropoff: p, EstimatedPrice: 10})
	if err != nil {
		t.Fatalf("PublishListing() error = %v", err)
	}
	if first.PublishedBy != "alice" {
		t.Errorf("PublishedBy = %q, want alice", first.PublishedBy)
	}

	if _, err := svc.PublishListing(ctx, PublishRequest{DeliveryID: "d1", PublishedBy: "mallory", Pickup: p, Dropoff: p, EstimatedPrice: 1}); !errors.Is(err, ErrNotListingOwner) {
		t.Fatalf("overwrite by other publisher: error = %v, want ErrNotListingOwner", err)
	}
	got, err := svc.store.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.EstimatedPrice != 10 || got.PublishedBy != "alice" {
		t.Errorf("listing was overwritten: %+v", got)
	}

	if _, err := svc.PublishListing(ctx, PublishRequest{DeliveryID: "d1", PublishedBy: "alice", Pickup: p, Dropoff: p, EstimatedPrice: 12}); err != nil {
		t.Errorf("republish by owner: error = %v", err)
	}

	if err := svc.WithdrawListing(ctx, "d1", "mallory"); !errors.Is(err, ErrNotListingOwner) {
		t.Errorf("withdraw by other publisher: error = %v, want ErrNotListingOwner", err)
	}
	if err := svc.WithdrawListing(ctx, "d1", "alice"); err != nil {
		t.Errorf("withdraw by owner: error = %v", err)
	}
	if err := svc.WithdrawListing(ctx, "d1", "alice"); !errors.Is(err, ErrListingNotFound) {
		t.Errorf("second withdraw: error = %v, want ErrListingNotFound", err)
	}
}

func TestServiceObfuscate(t *testing.T) {
	svc := newTestService(t, nil)
	p := types.Point{Lat: 25, Lng: 121}

	got, err := svc.Obfuscate(p, 1000)
	if err != nil {
		t.Fatalf("Obfuscate() error = %v", err)
	}
	if d := DistanceMeters(p, got); d < 300*(1-boundTolerance) || d > 1000*(1+boundTolerance) {
		t.Errorf("Obfuscate() landed %.1fm away", d)
	}
	if _, err := svc.Obfuscate(p, 0); !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("Obfuscate(p, 0) error = %v, want ErrInvalidRadius", err)
	}
	if _, err := svc.Obfuscate(types.Point{Lat: -91}, 10); !errors.Is(err, types.ErrInvalidPoint) {
		t.Errorf("Obfuscate(invalid) error = %v, want ErrInvalidPoint", err)
	}
}

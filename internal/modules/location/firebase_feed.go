package location

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"

	"courier/internal/types"
)

const listingsNode = "delivery_listings"

// Feed mirrors published listings to wherever the agent apps read them from.
type Feed interface {
	Publish(ctx context.Context, l Listing) error
	Withdraw(ctx context.Context, id types.ID) error
}

// FirebaseFeed writes listings under /delivery_listings/{deliveryID} in the
// Realtime Database. The mobile clients subscribe to that node directly, so
// only masked coordinates may ever be written here.
type FirebaseFeed struct {
	dbClient *db.Client
}

// NewFirebaseFeed builds the RTDB client from an initialised app. The app
// config must carry a DatabaseURL.
func NewFirebaseFeed(ctx context.Context, app *firebase.App) (*FirebaseFeed, error) {
	dbClient, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialising firebase RTDB client: %w", err)
	}
	return &FirebaseFeed{dbClient: dbClient}, nil
}

// rtdbListingEntry mirrors a single entry stored under /delivery_listings.
type rtdbListingEntry struct {
	PickupLat  float64 `json:"pickup_lat"`
	PickupLng  float64 `json:"pickup_lng"`
	DropoffLat float64 `json:"dropoff_lat"`
	DropoffLng float64 `json:"dropoff_lng"`
	Cell       string  `json:"cell"`
	Price      float64 `json:"price"`
	Timestamp  int64   `json:"timestamp"`
}

func toRTDBEntry(l Listing) rtdbListingEntry {
	return rtdbListingEntry{
		PickupLat:  l.Pickup.Lat,
		PickupLng:  l.Pickup.Lng,
		DropoffLat: l.Dropoff.Lat,
		DropoffLng: l.Dropoff.Lng,
		Cell:       l.PickupCell,
		Price:      l.EstimatedPrice,
		Timestamp:  l.PublishedAt.UnixMilli(),
	}
}

func (f *FirebaseFeed) Publish(ctx context.Context, l Listing) error {
	ref := f.dbClient.NewRef(listingsNode).Child(string(l.DeliveryID))
	if err := ref.Set(ctx, toRTDBEntry(l)); err != nil {
		return fmt.Errorf("writing listing %s to RTDB: %w", string(l.DeliveryID), err)
	}
	log.Printf("listing published delivery_id=%s cell=%s", string(l.DeliveryID), l.PickupCell)
	return nil
}

func (f *FirebaseFeed) Withdraw(ctx context.Context, id types.ID) error {
	if err := f.dbClient.NewRef(listingsNode).Child(string(id)).Delete(ctx); err != nil {
		return fmt.Errorf("removing listing %s from RTDB: %w", string(id), err)
	}
	return nil
}

// README: Delivery listings as shown to agents before acceptance (masked coordinates only).
package location

import (
	"errors"
	"time"

	"courier/internal/types"
)

var (
	ErrInvalidRadius   = errors.New("radius must be positive")
	ErrInvalidListing  = errors.New("invalid listing")
	ErrListingNotFound = errors.New("listing not found")
	ErrNotListingOwner = errors.New("listing belongs to another publisher")
)

// AnyPublisher skips the ownership check on withdraw.
const AnyPublisher = ""

// Listing holds the obfuscated view of a delivery. The true pickup and
// dropoff never reach this type.
type Listing struct {
	DeliveryID     types.ID    `json:"delivery_id"`
	Pickup         types.Point `json:"pickup"`
	Dropoff        types.Point `json:"dropoff"`
	PickupCell     string      `json:"pickup_cell"`
	EstimatedPrice float64     `json:"estimated_price"`
	PublishedBy    string      `json:"published_by"`
	PublishedAt    time.Time   `json:"published_at"`
}

type NearbyListing struct {
	Listing
	DistanceKm float64 `json:"distance_km"` // from the querying agent to the masked pickup
}

type PublishRequest struct {
	DeliveryID     types.ID
	PublishedBy    string
	Pickup         types.Point
	Dropoff        types.Point
	EstimatedPrice float64
}

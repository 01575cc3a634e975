// README: Pricing configuration, partial updates and price breakdown.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"courier/internal/modules/distance"
)

var (
	ErrInvalidConfig  = errors.New("invalid pricing config")
	ErrConfigNotFound = errors.New("pricing config not found")
)

type Config struct {
	BasePrice    float64 `json:"base_price"`
	PricePerKm   float64 `json:"price_per_km"`
	MinimumPrice float64 `json:"minimum_price"`
}

// Validate requires every field to be a finite, non-negative number.
func (c Config) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"base_price", c.BasePrice},
		{"price_per_km", c.PricePerKm},
		{"minimum_price", c.MinimumPrice},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidConfig, f.name)
		}
	}
	return nil
}

// ConfigPatch carries the fields an update should change; nil fields are kept.
type ConfigPatch struct {
	BasePrice    *float64 `json:"base_price,omitempty"`
	PricePerKm   *float64 `json:"price_per_km,omitempty"`
	MinimumPrice *float64 `json:"minimum_price,omitempty"`
}

func (p ConfigPatch) apply(c Config) Config {
	if p.BasePrice != nil {
		c.BasePrice = *p.BasePrice
	}
	if p.PricePerKm != nil {
		c.PricePerKm = *p.PricePerKm
	}
	if p.MinimumPrice != nil {
		c.MinimumPrice = *p.MinimumPrice
	}
	return c
}

type Breakdown struct {
	BasePrice     float64 `json:"base_price"`
	DistancePrice float64 `json:"distance_price"`
	FinalPrice    float64 `json:"final_price"`
	PricePerKm    float64 `json:"price_per_km"`
	BillableKm    float64 `json:"billable_km"`
}

// Quote is what QuoteDelivery hands back: the price and the estimate it was
// computed from (ErrorReason set when the minimum-price fallback was used).
type Quote struct {
	Breakdown Breakdown         `json:"breakdown"`
	Estimate  distance.Estimate `json:"estimate"`
}

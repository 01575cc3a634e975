package pricing

import (
	"math"

	"courier/internal/modules/distance"
)

// CalculatePrice prices an estimate with cfg. A failed estimate falls back
// to cfg.MinimumPrice so a delivery can always be quoted.
func CalculatePrice(est distance.Estimate, cfg Config) Breakdown {
	if !est.Success {
		return Breakdown{
			BasePrice:     cfg.BasePrice,
			DistancePrice: 0,
			FinalPrice:    cfg.MinimumPrice,
			PricePerKm:    cfg.PricePerKm,
			BillableKm:    0,
		}
	}

	distancePrice := est.TotalBillableKm * cfg.PricePerKm
	return Breakdown{
		BasePrice:     cfg.BasePrice,
		DistancePrice: distancePrice,
		FinalPrice:    math.Max(cfg.BasePrice+distancePrice, cfg.MinimumPrice),
		PricePerKm:    cfg.PricePerKm,
		BillableKm:    est.TotalBillableKm,
	}
}

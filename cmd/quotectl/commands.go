package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"courier/internal/maps"
	"courier/internal/modules/distance"
	"courier/internal/modules/location"
	"courier/internal/modules/pricing"
	"courier/internal/types"
)

type geocoder interface {
	Geocode(ctx context.Context, address string) (types.Point, error)
}

// swapped in tests
var (
	newOracle = func(apiKey string) (distance.RouteOracle, error) {
		return maps.NewRouteService(apiKey)
	}
	newGeocoder = func(apiKey string) (geocoder, error) {
		return maps.NewGeocodeService(apiKey)
	}
)

var (
	mapsKey string

	agentArg, pickupArg, deliveryArg string
	basePrice, pricePerKm, minPrice  float64
	routeTimeout                     time.Duration

	pointArg string
	radiusM  float64
	count    int
	seed     uint64
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "quotectl",
		Short:        "Delivery pricing and location masking tools",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&mapsKey, "maps-key", os.Getenv("COURIER_MAPS_API_KEY"), "Google Maps API key")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a delivery from agent, pickup and delivery locations",
		Long:  `Each location is "lat,lng" or a free-form address resolved through the Geocoding API.`,
		RunE:  runQuote,
	}
	quoteCmd.Flags().StringVar(&agentArg, "agent", "", "Agent location")
	quoteCmd.Flags().StringVar(&pickupArg, "pickup", "", "Pickup location")
	quoteCmd.Flags().StringVar(&deliveryArg, "delivery", "", "Delivery location")
	quoteCmd.Flags().Float64Var(&basePrice, "base", 5.00, "Base price")
	quoteCmd.Flags().Float64Var(&pricePerKm, "per-km", 2.00, "Price per billable km")
	quoteCmd.Flags().Float64Var(&minPrice, "minimum", 8.00, "Minimum price")
	quoteCmd.Flags().DurationVar(&routeTimeout, "timeout", 8*time.Second, "Upper bound for the routing calls")
	for _, f := range []string{"agent", "pickup", "delivery"} {
		_ = quoteCmd.MarkFlagRequired(f)
	}

	obfuscateCmd := &cobra.Command{
		Use:   "obfuscate",
		Short: "Print masked versions of a coordinate",
		RunE:  runObfuscate,
	}
	obfuscateCmd.Flags().StringVar(&pointArg, "point", "", "True coordinate as lat,lng")
	obfuscateCmd.Flags().Float64Var(&radiusM, "radius", 500, "Masking radius in metres")
	obfuscateCmd.Flags().IntVarP(&count, "count", "n", 1, "Number of masked points to print")
	obfuscateCmd.Flags().Uint64Var(&seed, "seed", 0, "Deterministic seed (0 = random)")
	_ = obfuscateCmd.MarkFlagRequired("point")

	rootCmd.AddCommand(quoteCmd, obfuscateCmd)
	return rootCmd
}

func runQuote(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if mapsKey == "" {
		return errors.New("a Google Maps API key is required (--maps-key or COURIER_MAPS_API_KEY)")
	}

	cfg := pricing.Config{BasePrice: basePrice, PricePerKm: pricePerKm, MinimumPrice: minPrice}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Literal coordinates are checked before any address is geocoded.
	args := []string{agentArg, pickupArg, deliveryArg}
	var pts [3]types.Point
	var addresses []int
	for i, s := range args {
		p, ok := parseLatLng(s)
		if !ok {
			addresses = append(addresses, i)
			continue
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("resolving %q: %w", s, err)
		}
		pts[i] = p
	}
	if len(addresses) > 0 {
		geo, err := newGeocoder(mapsKey)
		if err != nil {
			return err
		}
		for _, i := range addresses {
			p, err := geo.Geocode(ctx, args[i])
			if err != nil {
				return fmt.Errorf("resolving %q: %w", args[i], err)
			}
			pts[i] = p
		}
	}

	oracle, err := newOracle(mapsKey)
	if err != nil {
		return err
	}
	svc := pricing.NewService(nil, distance.NewEstimator(oracle, routeTimeout), cfg)
	q, err := svc.QuoteDelivery(ctx, pts[0], pts[1], pts[2])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	b := q.Breakdown
	fmt.Fprintf(out, "agent→pickup:      %6.2f km  %5.1f min\n", q.Estimate.Leg1.DistanceKm, q.Estimate.Leg1.DurationMinutes)
	fmt.Fprintf(out, "pickup→delivery:   %6.2f km  %5.1f min\n", q.Estimate.Leg2.DistanceKm, q.Estimate.Leg2.DurationMinutes)
	fmt.Fprintf(out, "billable:          %6.2f km @ %.2f/km\n", b.BillableKm, b.PricePerKm)
	fmt.Fprintf(out, "base + distance:   %.2f + %.2f\n", b.BasePrice, b.DistancePrice)
	fmt.Fprintf(out, "final price:       %.2f\n", b.FinalPrice)
	if !q.Estimate.Success {
		fmt.Fprintf(out, "routing failed, minimum price applied: %s\n", q.Estimate.ErrorReason)
	}
	return nil
}

func runObfuscate(cmd *cobra.Command, _ []string) error {
	p, err := parsePoint(pointArg)
	if err != nil {
		return err
	}
	if !(radiusM > 0) {
		return location.ErrInvalidRadius
	}
	if count < 1 {
		return errors.New("--count must be at least 1")
	}

	o := location.NewObfuscator()
	if seed != 0 {
		o = location.NewSeededObfuscator(seed)
	}

	out := cmd.OutOrStdout()
	for i := 0; i < count; i++ {
		m := o.Obfuscate(p, radiusM)
		fmt.Fprintf(out, "%.6f,%.6f\t%.1fm\n", m.Lat, m.Lng, location.DistanceMeters(p, m))
	}
	return nil
}

// parsePoint reads "lat,lng".
func parsePoint(s string) (types.Point, error) {
	p, ok := parseLatLng(s)
	if !ok {
		return types.Point{}, fmt.Errorf("%w: want lat,lng, got %q", types.ErrInvalidPoint, s)
	}
	if err := p.Validate(); err != nil {
		return types.Point{}, err
	}
	return p, nil
}

// parseLatLng reports whether s is two comma separated numbers. Range is not checked.
func parseLatLng(s string) (types.Point, bool) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return types.Point{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return types.Point{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return types.Point{}, false
	}
	return types.Point{Lat: lat, Lng: lng}, true
}

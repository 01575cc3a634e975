// README: Entry point; loads config, wires pricing/location services and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courier/internal/config"
	httptransport "courier/internal/http"
	"courier/internal/infra"
	"courier/internal/maps"
	"courier/internal/modules/distance"
	"courier/internal/modules/location"
	"courier/internal/modules/pricing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("COURIER_FIREBASE_PROJECT_ID is required")
	}
	app, err := infra.NewFirebaseApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile, cfg.Firebase.DatabaseURL)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, app)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}
	var feed location.Feed
	if cfg.Firebase.DatabaseURL != "" {
		fb, err := location.NewFirebaseFeed(ctx, app)
		if err != nil {
			log.Fatalf("firebase feed init: %v", err)
		}
		feed = fb
	} else {
		log.Println("COURIER_FIREBASE_DATABASE_URL not set; listings are not mirrored to RTDB")
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	routes, err := maps.NewRouteService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatal(err)
	}
	var oracle distance.RouteOracle = routes
	if cfg.Routing.CacheTTL > 0 {
		oracle = distance.NewCachedOracle(routes, redisClient, cfg.Routing.CacheTTL)
	}
	estimator := distance.NewEstimator(oracle, cfg.Routing.Timeout)

	pricingStore := pricing.NewStore(dbPool)
	pricingSvc := pricing.NewService(pricingStore, estimator, pricing.Config{
		BasePrice:    cfg.Pricing.BasePrice,
		PricePerKm:   cfg.Pricing.PricePerKm,
		MinimumPrice: cfg.Pricing.MinimumPrice,
	})
	if err := pricingSvc.Load(ctx); err != nil {
		log.Fatal(err)
	}

	locationStore := location.NewStore(redisClient)
	locationSvc := location.NewService(locationStore, feed, location.NewObfuscator(), cfg.Listing.ObfuscationRadiusM)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Pricing:  pricingSvc,
		Location: locationSvc,
		Verifier: verifier,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Routing.Timeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}()

	log.Printf("courier-api listening addr=%s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

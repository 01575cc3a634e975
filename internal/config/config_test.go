package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("COURIER_MAPS_API_KEY", "key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Pricing != (PricingConfig{BasePrice: 5, PricePerKm: 2, MinimumPrice: 8}) {
		t.Errorf("Pricing = %+v", cfg.Pricing)
	}
	if cfg.Routing.Timeout != 8*time.Second || cfg.Routing.CacheTTL != 10*time.Minute {
		t.Errorf("Routing = %+v", cfg.Routing)
	}
	if cfg.Listing.ObfuscationRadiusM != 500 {
		t.Errorf("ObfuscationRadiusM = %v", cfg.Listing.ObfuscationRadiusM)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("COURIER_MAPS_API_KEY", "key")
	t.Setenv("COURIER_PRICE_PER_KM", "3.25")
	t.Setenv("COURIER_ROUTE_TIMEOUT", "3")
	t.Setenv("COURIER_ROUTE_CACHE_TTL", "90s")
	t.Setenv("COURIER_FIREBASE_PROJECT_ID", "courier-dev")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Pricing.PricePerKm != 3.25 {
		t.Errorf("PricePerKm = %v, want 3.25", cfg.Pricing.PricePerKm)
	}
	if cfg.Routing.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.Routing.Timeout)
	}
	if cfg.Routing.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v, want 90s", cfg.Routing.CacheTTL)
	}
	if cfg.Firebase.ProjectID != "courier-dev" {
		t.Errorf("Firebase.ProjectID = %q", cfg.Firebase.ProjectID)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing maps key", map[string]string{"COURIER_MAPS_API_KEY": ""}},
		{"negative minimum", map[string]string{"COURIER_MAPS_API_KEY": "k", "COURIER_MINIMUM_PRICE": "-1"}},
		{"zero radius", map[string]string{"COURIER_MAPS_API_KEY": "k", "COURIER_OBFUSCATION_RADIUS_M": "0"}},
		{"NaN radius", map[string]string{"COURIER_MAPS_API_KEY": "k", "COURIER_OBFUSCATION_RADIUS_M": "NaN"}},
		{"infinite radius", map[string]string{"COURIER_MAPS_API_KEY": "k", "COURIER_OBFUSCATION_RADIUS_M": "+Inf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Errorf("Load() succeeded, want error")
			}
		})
	}
}

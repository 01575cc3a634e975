package types

import (
	"errors"
	"math"
	"testing"
)

func TestPoint_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       Point
		wantErr bool
	}{
		{name: "taipei", p: Point{Lat: 25.033, Lng: 121.565}},
		{name: "origin", p: Point{}},
		{name: "north pole edge", p: Point{Lat: 90, Lng: 180}},
		{name: "south west edge", p: Point{Lat: -90, Lng: -180}},
		{name: "lat too high", p: Point{Lat: 90.0001, Lng: 0}, wantErr: true},
		{name: "lat too low", p: Point{Lat: -91, Lng: 0}, wantErr: true},
		{name: "lng too high", p: Point{Lat: 0, Lng: 180.5}, wantErr: true},
		{name: "lng too low", p: Point{Lat: 0, Lng: -200}, wantErr: true},
		{name: "nan lat", p: Point{Lat: math.NaN(), Lng: 0}, wantErr: true},
		{name: "inf lng", p: Point{Lat: 0, Lng: math.Inf(1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPoint) {
					t.Fatalf("Validate() = %v, want ErrInvalidPoint", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
		})
	}
}

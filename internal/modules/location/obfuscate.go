package location

import (
	"math"
	"math/rand/v2"
	"sync"

	"courier/internal/types"
)

const (
	// MetersPerDegree is the flat approximation used to turn a radius into
	// degrees. Good away from the poles and for radii of a few kilometres.
	MetersPerDegree = 111_000.0

	// MinOffsetFraction keeps every masked point at least this share of the
	// radius away from the true point.
	MinOffsetFraction = 0.3
)

// Obfuscator masks a true coordinate with a random point inside an annulus
// of [MinOffsetFraction*radius, radius] around it. Safe for concurrent use.
type Obfuscator struct {
	mu  sync.Mutex
	rng *rand.Rand // nil means the package-level source
}

// NewObfuscator returns an Obfuscator backed by the global random source.
func NewObfuscator() *Obfuscator {
	return &Obfuscator{}
}

// NewSeededObfuscator returns an Obfuscator with its own deterministic source.
func NewSeededObfuscator(seed uint64) *Obfuscator {
	return &Obfuscator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Obfuscate returns a point at a uniformly random bearing and at a distance
// in [0.3, 1.0]*radiusMeters from p. A non-positive radius returns p as is.
//
// The longitude offset is divided by cos(lat) to undo meridian convergence,
// which blows up at ±90°; results there are clamped/wrapped but not meaningful.
func (o *Obfuscator) Obfuscate(p types.Point, radiusMeters float64) types.Point {
	if !(radiusMeters > 0) {
		return p
	}

	angle, fraction := o.draw()

	radiusDeg := radiusMeters / MetersPerDegree
	effective := fraction * radiusDeg

	dLat := effective * math.Sin(angle)
	dLng := effective * math.Cos(angle) / math.Cos(degreesToRadians(p.Lat))

	return types.Point{
		Lat: clampLat(p.Lat + dLat),
		Lng: wrapLng(p.Lng + dLng),
	}
}

func (o *Obfuscator) draw() (angle, fraction float64) {
	if o.rng == nil {
		return rand.Float64() * 2 * math.Pi, MinOffsetFraction + rand.Float64()*(1-MinOffsetFraction)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rng.Float64() * 2 * math.Pi, MinOffsetFraction + o.rng.Float64()*(1-MinOffsetFraction)
}

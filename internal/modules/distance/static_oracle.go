package distance

import (
	"context"
	"fmt"

	"courier/internal/types"
)

// StaticPair is a canned answer for StaticOracle.
type StaticPair struct {
	From, To types.Point
	Route    Route
	Err      error
}

// StaticOracle answers from a fixed table. Unknown pairs report NOT_FOUND.
type StaticOracle struct {
	m map[string]StaticPair
}

func NewStaticOracle(pairs []StaticPair) *StaticOracle {
	m := make(map[string]StaticPair, len(pairs))
	for _, p := range pairs {
		m[pairKey(p.From, p.To)] = p
	}
	return &StaticOracle{m: m}
}

func (o *StaticOracle) QueryRoute(ctx context.Context, origin, destination types.Point) (Route, error) {
	if err := ctx.Err(); err != nil {
		return Route{}, err
	}
	p, ok := o.m[pairKey(origin, destination)]
	if !ok {
		return Route{Status: "NOT_FOUND"}, nil
	}
	return p.Route, p.Err
}

func pairKey(a, b types.Point) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", a.Lat, a.Lng, b.Lat, b.Lng)
}

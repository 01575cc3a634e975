// README: Pricing service holds the live config and quotes deliveries end to end.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"go.uber.org/atomic"

	"courier/internal/modules/distance"
	"courier/internal/types"
)

type Estimator interface {
	Estimate(ctx context.Context, agent, pickup, delivery types.Point) distance.Estimate
}

// Service is the single owner of the process' pricing config. Reads are
// lock-free snapshots; updates are serialized and published whole.
type Service struct {
	store     *Store
	estimator Estimator
	cfg       *atomic.Pointer[Config]
	updateMu  sync.Mutex
}

// NewService starts with initial as the live config. store may be nil, in
// which case updates only live in memory.
func NewService(store *Store, estimator Estimator, initial Config) *Service {
	return &Service{
		store:     store,
		estimator: estimator,
		cfg:       atomic.NewPointer(&initial),
	}
}

// Load replaces the live config with the persisted one, if any.
func (s *Service) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	cfg, err := s.store.Get(ctx)
	if errors.Is(err, ErrConfigNotFound) {
		log.Printf("no persisted pricing config, using defaults %+v", s.Config())
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading pricing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("persisted pricing config: %w", err)
	}
	s.cfg.Store(&cfg)
	return nil
}

// Config returns a copy of the live config.
func (s *Service) Config() Config {
	return *s.cfg.Load()
}

// UpdateConfig merges patch into the live config. Unset fields are kept.
// Concurrent updates are applied one after another (last write wins).
func (s *Service) UpdateConfig(ctx context.Context, patch ConfigPatch) (Config, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	next := patch.apply(s.Config())
	if err := next.Validate(); err != nil {
		return Config{}, err
	}
	if s.store != nil {
		if err := s.store.Save(ctx, next); err != nil {
			return Config{}, fmt.Errorf("saving pricing config: %w", err)
		}
	}
	s.cfg.Store(&next)
	log.Printf("pricing config updated base=%.2f per_km=%.2f min=%.2f", next.BasePrice, next.PricePerKm, next.MinimumPrice)
	return next, nil
}

// Calculate prices an estimate against the live config.
func (s *Service) Calculate(est distance.Estimate) Breakdown {
	return CalculatePrice(est, s.Config())
}

// QuoteDelivery prices agent→pickup→delivery. Only invalid coordinates
// produce an error; an unavailable routing oracle degrades to the minimum
// price with Estimate.ErrorReason set.
func (s *Service) QuoteDelivery(ctx context.Context, agent, pickup, delivery types.Point) (Quote, error) {
	for _, c := range []struct {
		name string
		p    types.Point
	}{{"agent", agent}, {"pickup", pickup}, {"delivery", delivery}} {
		if err := c.p.Validate(); err != nil {
			return Quote{}, fmt.Errorf("%s: %w", c.name, err)
		}
	}

	est := s.estimator.Estimate(ctx, agent, pickup, delivery)
	if !est.Success {
		log.Printf("quote falling back to minimum price reason=%q", est.ErrorReason)
	}
	return Quote{Breakdown: s.Calculate(est), Estimate: est}, nil
}

// README: Pricing config store backed by PostgreSQL (single row).
package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context) (Config, error) {
	var c Config
	err := s.db.QueryRow(ctx, `
		SELECT base_price, price_per_km, minimum_price
		FROM pricing_config
		WHERE id = 1`,
	).Scan(&c.BasePrice, &c.PricePerKm, &c.MinimumPrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return Config{}, ErrConfigNotFound
	}
	if err != nil {
		return Config{}, err
	}
	return c, nil
}

func (s *Store) Save(ctx context.Context, c Config) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO pricing_config (id, base_price, price_per_km, minimum_price, updated_at)
		VALUES (1, $1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			base_price    = EXCLUDED.base_price,
			price_per_km  = EXCLUDED.price_per_km,
			minimum_price = EXCLUDED.minimum_price,
			updated_at    = EXCLUDED.updated_at`,
		c.BasePrice, c.PricePerKm, c.MinimumPrice,
	)
	return err
}

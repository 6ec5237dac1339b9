package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
)

type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new repository for exchange rate data.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// SaveExchangeRate inserts a new exchange rate.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	_, err := r.Pool.Exec(ctx, query,
		rate.ExchangeRateID,
		rate.FromCurrencyCode,
		rate.ToCurrencyCode,
		rate.Rate,
		rate.DateEffective,
		rate.CreatedAt,
		rate.CreatedBy,
		rate.LastUpdatedAt,
		rate.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange rate %s->%s: %w", rate.FromCurrencyCode, rate.ToCurrencyCode, err)
	}
	return nil
}

// FindExchangeRate retrieves the latest effective rate for a currency pair.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective, created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2
		ORDER BY date_effective DESC
		LIMIT 1;
	`
	var rate domain.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, fromCurrencyCode, toCurrencyCode).Scan(
		&rate.ExchangeRateID,
		&rate.FromCurrencyCode,
		&rate.ToCurrencyCode,
		&rate.Rate,
		&rate.DateEffective,
		&rate.CreatedAt,
		&rate.CreatedBy,
		&rate.LastUpdatedAt,
		&rate.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exchange rate %s->%s: %w", fromCurrencyCode, toCurrencyCode, err)
	}
	return &rate, nil
}

// ListExchangeRates retrieves all configured rates.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective, created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		ORDER BY from_currency_code, to_currency_code, date_effective DESC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	defer rows.Close()

	rateList, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExchangeRate, error) {
		var rate domain.ExchangeRate
		err := row.Scan(
			&rate.ExchangeRateID,
			&rate.FromCurrencyCode,
			&rate.ToCurrencyCode,
			&rate.Rate,
			&rate.DateEffective,
			&rate.CreatedAt,
			&rate.CreatedBy,
			&rate.LastUpdatedAt,
			&rate.LastUpdatedBy,
		)
		return rate, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect exchange rate rows: %w", err)
	}
	return rateList, nil
}

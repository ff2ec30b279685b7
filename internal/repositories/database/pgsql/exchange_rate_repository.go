package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_engine/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxExchangeRateRepository stores exchange rates in PostgreSQL. It is also a
// RateProvider answering with the latest stored rate on or before a date.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func newPgxExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var (
	_ portsrepo.ExchangeRateRepositoryWithTx   = (*PgxExchangeRateRepository)(nil)
	_ portsrepo.ExchangeRateProviderRepository = (*PgxExchangeRateRepository)(nil)
)

const selectExchangeRate = `
	SELECT exchange_rate_id, base_currency_code, quote_currency_code, rate, rate_date, source, fetched_at
	FROM exchange_rates`

// SaveExchangeRate inserts a rate, or replaces the one stored for the same pair and date.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	if rate.Base == rate.Quote {
		return apperrors.NewValidationError("base and quote currencies cannot be the same")
	}
	rate = prepareRate(rate, time.Now())

	if _, err := r.Pool.Exec(ctx, upsertExchangeRate, upsertArgs(rate)...); err != nil {
		return apperrors.NewAppError(500, "failed to save exchange rate", err)
	}
	return nil
}

// SaveExchangeRates upserts every rate in one transaction.
func (r *PgxExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}
	fetchedAt := time.Now()
	batch := &pgx.Batch{}
	for _, rate := range rates {
		if rate.Base == rate.Quote {
			return apperrors.NewValidationError("base and quote currencies cannot be the same")
		}
		batch.Queue(upsertExchangeRate, upsertArgs(prepareRate(rate, fetchedAt))...)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to save exchange rates", err)
	}
	return r.Commit(ctx, tx)
}

const upsertExchangeRate = `
	INSERT INTO exchange_rates (
		exchange_rate_id, base_currency_code, quote_currency_code, rate, rate_date, source, fetched_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (base_currency_code, quote_currency_code, rate_date)
	DO UPDATE SET exchange_rate_id = EXCLUDED.exchange_rate_id, rate = EXCLUDED.rate,
		source = EXCLUDED.source, fetched_at = EXCLUDED.fetched_at`

// prepareRate fills the id and fetch time a stored row needs. A replaced row
// takes the new id, so the id handed back to the caller is the stored one.
func prepareRate(rate domain.ExchangeRate, fetchedAt time.Time) domain.ExchangeRate {
	if rate.ExchangeRateID == "" {
		rate.ExchangeRateID = uuid.NewString()
	}
	if rate.FetchedAt.IsZero() {
		rate.FetchedAt = fetchedAt
	}
	return rate
}

func upsertArgs(rate domain.ExchangeRate) []any {
	return []any{
		rate.ExchangeRateID, string(rate.Base), string(rate.Quote), rate.Rate,
		rate.RateDate.Time(), string(rate.Source), rate.FetchedAt,
	}
}

// FindExchangeRate retrieves the latest rate for the pair on or before date,
// inverting the reverse pair when no direct rate is stored.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, base, quote domain.CurrencyCode, date domain.Date) (*domain.ExchangeRate, error) {
	direct, err := r.findLatest(ctx, base, quote, date)
	if err == nil {
		return direct, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	reverse, err := r.findLatest(ctx, quote, base, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("no exchange rate found for currency pair " + string(base) + " to " + string(quote))
		}
		return nil, err
	}
	inverse := reverse.Inverse()
	return &inverse, nil
}

func (r *PgxExchangeRateRepository) findLatest(ctx context.Context, base, quote domain.CurrencyCode, date domain.Date) (*domain.ExchangeRate, error) {
	query := selectExchangeRate + `
		WHERE base_currency_code = $1 AND quote_currency_code = $2 AND rate_date <= $3
		ORDER BY rate_date DESC
		LIMIT 1;`

	rate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, string(base), string(quote), date.Time()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find exchange rate", err)
	}
	return rate, nil
}

// ListExchangeRatesForDate retrieves every rate quoted against base on exactly date.
func (r *PgxExchangeRateRepository) ListExchangeRatesForDate(ctx context.Context, base domain.CurrencyCode, date domain.Date) ([]domain.ExchangeRate, error) {
	query := selectExchangeRate + `
		WHERE base_currency_code = $1 AND rate_date = $2
		ORDER BY quote_currency_code;`

	rows, err := r.Pool.Query(ctx, query, string(base), date.Time())
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list exchange rates", err)
	}
	defer rows.Close()

	rates := []domain.ExchangeRate{}
	for rows.Next() {
		rate, err := scanExchangeRate(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan exchange rate", err)
		}
		rates = append(rates, *rate)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating exchange rates", err)
	}
	return rates, nil
}

func (r *PgxExchangeRateRepository) Name() string { return "postgres" }

func (r *PgxExchangeRateRepository) Source() domain.RateSource { return domain.RateSourceDatabase }

// GetRate adapts FindExchangeRate to the rate provider contract: a missing
// row is a miss, not an error.
func (r *PgxExchangeRateRepository) GetRate(ctx context.Context, base, quote domain.CurrencyCode, date domain.Date) (domain.ExchangeRate, bool, error) {
	rate, err := r.FindExchangeRate(ctx, base, quote, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.ExchangeRate{}, false, nil
		}
		return domain.ExchangeRate{}, false, err
	}
	return *rate, true, nil
}

func scanExchangeRate(row pgx.Row) (*domain.ExchangeRate, error) {
	var (
		rate      domain.ExchangeRate
		base      string
		quote     string
		value     decimal.Decimal
		rateDate  time.Time
		source    string
		fetchedAt time.Time
	)
	if err := row.Scan(&rate.ExchangeRateID, &base, &quote, &value, &rateDate, &source, &fetchedAt); err != nil {
		return nil, err
	}
	rate.Base = domain.CurrencyCode(base)
	rate.Quote = domain.CurrencyCode(quote)
	rate.Rate = value
	rate.RateDate = domain.DateOf(rateDate)
	rate.Source = domain.RateSource(source)
	rate.FetchedAt = fetchedAt
	return &rate, nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/fx_engine/internal/apperrors"
	"github.com/SscSPs/fx_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fx_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PgxConversionAuditRepository persists FxConversion records.
type PgxConversionAuditRepository struct {
	BaseRepository
}

func newPgxConversionAuditRepository(db *pgxpool.Pool) *PgxConversionAuditRepository {
	return &PgxConversionAuditRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ConversionAuditRepositoryFacade = (*PgxConversionAuditRepository)(nil)

// SaveConversion inserts conversion. Conversions are immutable, so saving the
// same id twice is reported as a duplicate.
func (r *PgxConversionAuditRepository) SaveConversion(ctx context.Context, conversion domain.FxConversion, entityID string) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO fx_conversions (
			conversion_id, entity_id, original_amount, original_currency_code,
			converted_amount, converted_currency_code, exchange_rate, inverse_rate,
			rate_date, rate_source, rounding_mode, rounding_difference, converted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		conversion.ConversionID, entityID, conversion.OriginalAmount, string(conversion.OriginalCurrency),
		conversion.ConvertedAmount, string(conversion.ConvertedCurrency), conversion.ExchangeRate, conversion.InverseRate,
		conversion.RateDate.Time(), string(conversion.RateSource), string(conversion.RoundingMode),
		conversion.RoundingDifference, conversion.Timestamp,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewAppError(409, "conversion "+conversion.ConversionID+" already recorded", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save conversion", err)
	}
	return nil
}

const selectConversion = `
	SELECT conversion_id, original_amount, original_currency_code, converted_amount,
		converted_currency_code, exchange_rate, inverse_rate, rate_date, rate_source,
		rounding_mode, rounding_difference, converted_at
	FROM fx_conversions`

// FindConversionByID loads one recorded conversion.
func (r *PgxConversionAuditRepository) FindConversionByID(ctx context.Context, conversionID string) (*domain.FxConversion, error) {
	c, err := scanConversion(r.Pool.QueryRow(ctx, selectConversion+` WHERE conversion_id = $1;`, conversionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("conversion with ID " + conversionID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to get conversion by ID", err)
	}
	return c, nil
}

// ListConversionsByEntity pages through an entity's conversions, newest first,
// keyed on (converted_at, conversion_id).
func (r *PgxConversionAuditRepository) ListConversionsByEntity(ctx context.Context, entityID string, limit int, nextToken *string) ([]domain.FxConversion, *string, error) {
	limit = pagination.ClampLimit(limit, defaultPageSize, maxPageSize)

	args := []any{entityID}
	query := selectConversion + ` WHERE entity_id = $1`
	if nextToken != nil && *nextToken != "" {
		lastAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		query += ` AND (converted_at, conversion_id) < ($2, $3)`
		args = append(args, lastAt, lastID)
	}
	// one extra row tells whether another page exists
	query += fmt.Sprintf(` ORDER BY converted_at DESC, conversion_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list conversions", err)
	}
	defer rows.Close()

	conversions := make([]domain.FxConversion, 0, limit)
	for rows.Next() {
		c, err := scanConversion(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan conversion", err)
		}
		conversions = append(conversions, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list conversions", err)
	}

	if len(conversions) <= limit {
		return conversions, nil, nil
	}
	conversions = conversions[:limit]
	last := conversions[limit-1]
	token := pagination.EncodeToken(last.Timestamp, last.ConversionID)
	return conversions, &token, nil
}

func scanConversion(row pgx.Row) (*domain.FxConversion, error) {
	var (
		c                 domain.FxConversion
		originalCurrency  string
		convertedCurrency string
		rateDate          time.Time
		rateSource        string
		roundingMode      string
	)
	err := row.Scan(
		&c.ConversionID, &c.OriginalAmount, &originalCurrency, &c.ConvertedAmount,
		&convertedCurrency, &c.ExchangeRate, &c.InverseRate, &rateDate, &rateSource,
		&roundingMode, &c.RoundingDifference, &c.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	c.OriginalCurrency = domain.CurrencyCode(originalCurrency)
	c.ConvertedCurrency = domain.CurrencyCode(convertedCurrency)
	c.RateDate = domain.DateOf(rateDate)
	c.RateSource = domain.RateSource(rateSource)
	c.RoundingMode = domain.RoundingMode(roundingMode)
	return &c, nil
}

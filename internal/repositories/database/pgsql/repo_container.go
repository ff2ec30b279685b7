package pgsql

import (
	portsrepo "github.com/SscSPs/fx_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every PostgreSQL repository over dbPool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeRateRepo:    newPgxExchangeRateRepository(dbPool),
		ConversionAuditRepo: newPgxConversionAuditRepository(dbPool),
	}
}

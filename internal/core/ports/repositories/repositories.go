package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both fields are nil when no database is configured.
type RepositoryProvider struct {
	ExchangeRateRepo    ExchangeRateProviderRepository
	ConversionAuditRepo ConversionAuditRepositoryFacade
}

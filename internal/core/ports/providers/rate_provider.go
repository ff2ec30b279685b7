package providers

import (
	"context"

	"github.com/SscSPs/fx_engine/internal/core/domain"
)

// RateProvider answers "what is the rate for base against quote on date?".
// A missing observation is reported as ok == false with a nil error; err is
// reserved for failures of the source itself (I/O, decoding, ...).
// Implementations own their timeout and retry policy.
type RateProvider interface {
	// Name identifies the provider in logs.
	Name() string
	// Source is the tag stamped on rates this provider returns.
	Source() domain.RateSource
	// GetRate looks up a single observation.
	GetRate(ctx context.Context, base, quote domain.CurrencyCode, date domain.Date) (rate domain.ExchangeRate, ok bool, err error)
}

// LookupOptions steers which provider answers a cache miss. Provider wins
// over Source; with neither set the registry default is used.
type LookupOptions struct {
	Provider RateProvider
	Source   domain.RateSource
}

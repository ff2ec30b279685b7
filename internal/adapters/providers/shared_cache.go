package providers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/fx_engine/internal/core/domain"
	portsproviders "github.com/SscSPs/fx_engine/internal/core/ports/providers"
	"github.com/SscSPs/fx_engine/internal/middleware"
	"github.com/redis/go-redis/v9"
)

const sharedKeyPrefix = "fx:rate"

// SharedCacheProvider puts a Redis tier shared between processes in front of
// another provider. Hits keep the source tag of the provider that produced
// them. Redis failures are logged and the inner provider answers instead.
type SharedCacheProvider struct {
	client redis.Cmdable
	inner  portsproviders.RateProvider
	ttl    time.Duration
}

// NewSharedCacheProvider wraps inner. A non-positive ttl stores entries
// without expiry.
func NewSharedCacheProvider(client redis.Cmdable, inner portsproviders.RateProvider, ttl time.Duration) *SharedCacheProvider {
	if ttl < 0 {
		ttl = 0
	}
	return &SharedCacheProvider{client: client, inner: inner, ttl: ttl}
}

func (p *SharedCacheProvider) Name() string { return "shared-cache/" + p.inner.Name() }

func (p *SharedCacheProvider) Source() domain.RateSource { return p.inner.Source() }

// SharedRateKey builds the Redis key for a pair and date.
func SharedRateKey(base, quote domain.CurrencyCode, date domain.Date) string {
	return strings.Join([]string{sharedKeyPrefix, string(base), string(quote), date.String()}, ":")
}

func (p *SharedCacheProvider) GetRate(ctx context.Context, base, quote domain.CurrencyCode, date domain.Date) (domain.ExchangeRate, bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	key := SharedRateKey(base, quote, date)

	payload, err := p.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rate domain.ExchangeRate
		jsonErr := json.Unmarshal(payload, &rate)
		if jsonErr == nil {
			return rate, true, nil
		}
		logger.Warn("Discarding undecodable shared rate", slog.String("key", key), slog.String("error", jsonErr.Error()))
	case errors.Is(err, redis.Nil):
	default:
		logger.Warn("Shared rate tier unavailable", slog.String("key", key), slog.String("error", err.Error()))
	}

	rate, ok, err := p.inner.GetRate(ctx, base, quote, date)
	if err != nil || !ok {
		return rate, ok, err
	}

	raw, err := json.Marshal(rate)
	if err != nil {
		logger.Warn("Could not encode rate for shared tier", slog.String("key", key), slog.String("error", err.Error()))
		return rate, true, nil
	}
	if err := p.client.Set(ctx, key, raw, p.ttl).Err(); err != nil {
		logger.Warn("Could not store rate in shared tier", slog.String("key", key), slog.String("error", err.Error()))
	}
	return rate, true, nil
}

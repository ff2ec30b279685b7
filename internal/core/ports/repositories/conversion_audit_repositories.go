package repositories

import (
	"context"

	"github.com/SscSPs/fx_engine/internal/core/domain"
)

// ConversionAuditWriter persists completed conversions for audit.
type ConversionAuditWriter interface {
	SaveConversion(ctx context.Context, conversion domain.FxConversion, entityID string) error
}

// ConversionAuditReader reads back persisted conversions.
type ConversionAuditReader interface {
	FindConversionByID(ctx context.Context, conversionID string) (*domain.FxConversion, error)

	// ListConversionsByEntity returns an entity's conversions newest first. A
	// non-nil returned token fetches the next page.
	ListConversionsByEntity(ctx context.Context, entityID string, limit int, nextToken *string) ([]domain.FxConversion, *string, error)
}

// ConversionAuditRepositoryFacade combines audit reads and writes.
type ConversionAuditRepositoryFacade interface {
	ConversionAuditWriter
	ConversionAuditReader
}

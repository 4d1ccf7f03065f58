package usecase

import (
	"context"

	"shipment-tracker/internal/domain"
)

// RowSource defines the interface for fetching the three raw feeds.
// The usecase layer depends on this interface, not on a concrete
// implementation.
//
//go:generate mockgen -destination=mocks/mock_source.go -source=interface.go RowSource
type RowSource interface {
	// PrimaryRows returns the required primary feed.
	PrimaryRows(ctx context.Context) ([]domain.RawRow, error)
	// SupplementalRows returns the optional supplemental feed; an
	// unavailable feed yields an empty sequence, not an error.
	SupplementalRows(ctx context.Context) ([]domain.RawRow, error)
	// ItemRows returns the optional line-item feed.
	ItemRows(ctx context.Context) ([]domain.RawRow, error)
}

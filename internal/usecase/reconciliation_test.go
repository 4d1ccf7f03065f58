package usecase_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/usecase"
	mock_usecase "shipment-tracker/internal/usecase/mocks"
)

func newUseCase(t *testing.T) (*usecase.ReconciliationUseCase, *mock_usecase.MockRowSource) {
	t.Helper()
	ctrl := gomock.NewController(t)
	source := mock_usecase.NewMockRowSource(ctrl)
	return usecase.NewReconciliationUseCase(source, zerolog.Nop()), source
}

func TestLoadJoinsBothSources(t *testing.T) {
	uc, source := newUseCase(t)

	primary := []domain.RawRow{
		{"order_number": "ORD1", "tracking_number": "TRK1", "carrier": "UPS", "subject": "Widgets"},
	}
	supplemental := []domain.RawRow{
		{"order_number": "ORD1", "vendor_contact": "jane@acme.example"},
	}
	source.EXPECT().PrimaryRows(gomock.Any()).Return(primary, nil)
	source.EXPECT().SupplementalRows(gomock.Any()).Return(supplemental, nil)

	records, err := uc.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ORD1", records[0].ID)
	assert.Equal(t, "TRK1", records[0].TrackingNumber)
	assert.Equal(t, "ups", records[0].Slug)
	assert.Equal(t, "Widgets", records[0].Title)
	assert.Equal(t, "jane@acme.example", records[0].Extra["vendor_contact"])
}

func TestLoadWrapsPrimaryFailure(t *testing.T) {
	uc, source := newUseCase(t)

	loadErr := &domain.LoadError{Path: "primary.csv", Status: "404 Not Found"}
	source.EXPECT().PrimaryRows(gomock.Any()).Return(nil, loadErr)
	source.EXPECT().SupplementalRows(gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := uc.Load(context.Background())

	var recErr *domain.ReconciliationError
	require.ErrorAs(t, err, &recErr)
	var inner *domain.LoadError
	assert.ErrorAs(t, err, &inner)
}

func TestReconcileJoinPrecedence(t *testing.T) {
	uc, _ := newUseCase(t)

	// The supplemental lookup holds entries for both the order number and
	// the tracking number; the order number match must win.
	primary := []domain.RawRow{
		{"order_number": "ORD1", "tracking_number": "TRK1"},
	}
	supplemental := []domain.RawRow{
		{"tracking_number": "TRK1", "matched_by": "tracking"},
		{"order_number": "ORD1", "matched_by": "order"},
	}

	records := uc.Reconcile(primary, supplemental)
	require.Len(t, records, 1)
	assert.Equal(t, "order", records[0].Extra["matched_by"])
}

func TestReconcileTrackingNumberBeatsPONumber(t *testing.T) {
	uc, _ := newUseCase(t)

	primary := []domain.RawRow{
		{"tracking_number": "TRK1", "po_number": "PO1"},
	}
	supplemental := []domain.RawRow{
		{"po_number": "PO1", "matched_by": "po"},
		{"tracking_number": "TRK1", "matched_by": "tracking"},
	}

	records := uc.Reconcile(primary, supplemental)
	require.Len(t, records, 1)
	assert.Equal(t, "tracking", records[0].Extra["matched_by"])
}

func TestReconcileKeysAreCaseInsensitive(t *testing.T) {
	uc, _ := newUseCase(t)

	primary := []domain.RawRow{
		{"order_number": "ord1", "tracking_number": "TRK1"},
	}
	supplemental := []domain.RawRow{
		{"order_number": "ORD1", "matched_by": "order"},
	}

	records := uc.Reconcile(primary, supplemental)
	require.Len(t, records, 1)
	assert.Equal(t, "order", records[0].Extra["matched_by"])
}

func TestReconcilePositionalFallback(t *testing.T) {
	uc, _ := newUseCase(t)

	// The supplemental row carries no usable key, so it is reachable only
	// through row-index alignment.
	primary := []domain.RawRow{
		{"order_number": "ORD1", "tracking_number": "TRK1"},
	}
	supplemental := []domain.RawRow{
		{"vendor_contact": "jane@acme.example"},
	}

	records := uc.Reconcile(primary, supplemental)
	require.Len(t, records, 1)
	assert.Equal(t, "jane@acme.example", records[0].Extra["vendor_contact"])
}

func TestReconcileBaseFieldsWin(t *testing.T) {
	uc, _ := newUseCase(t)

	primary := []domain.RawRow{
		{"order_number": "ORD1", "tracking_number": "TRK1", "subject": "Primary Title"},
	}
	supplemental := []domain.RawRow{
		{"order_number": "ORD1", "title": "Supplemental Title", "slug": "fedex"},
	}

	records := uc.Reconcile(primary, supplemental)
	require.Len(t, records, 1)
	assert.Equal(t, "Primary Title", records[0].Title)
	assert.NotContains(t, records[0].Extra, "title")
	assert.NotContains(t, records[0].Extra, "slug")
}

func TestReconcileSkipsEmptySupplementalValues(t *testing.T) {
	uc, _ := newUseCase(t)

	primary := []domain.RawRow{
		{"order_number": "ORD1", "tracking_number": "TRK1"},
	}
	supplemental := []domain.RawRow{
		{"order_number": "ORD1", "vendor_contact": "  ", "warehouse": "East"},
	}

	records := uc.Reconcile(primary, supplemental)
	require.Len(t, records, 1)
	assert.NotContains(t, records[0].Extra, "vendor_contact")
	assert.Equal(t, "East", records[0].Extra["warehouse"])
}

func TestReconcileDropsRecordsWithoutTrackingNumber(t *testing.T) {
	uc, _ := newUseCase(t)

	primary := []domain.RawRow{
		{"order_number": "ORD1", "tracking_number": "TRK1"},
		{"order_number": "ORD2", "tracking_number": "   "},
		{"order_number": "ORD3"},
	}

	records := uc.Reconcile(primary, nil)
	require.Len(t, records, 1)
	assert.Equal(t, "ORD1", records[0].ID)
}

func TestReconcileIDFallbacks(t *testing.T) {
	uc, _ := newUseCase(t)

	primary := []domain.RawRow{
		{"tracking_number": "TRK1", "po_number": "PO1"},
		{"tracking_number": "TRK2"},
	}

	records := uc.Reconcile(primary, nil)
	require.Len(t, records, 2)
	assert.Equal(t, "PO1", records[0].ID)
	assert.Equal(t, "tracking-1", records[1].ID)
}

func TestReconcileFieldMapping(t *testing.T) {
	uc, _ := newUseCase(t)

	primary := []domain.RawRow{
		{
			"order_number":        "ORD1",
			"tracking_number":     "TRK1",
			"carrier":             "FedEx",
			"from_company":        "Acme",
			"ship_date":           "2000-01-02",
			"estimated_delivery":  "2000-01-05",
			"body_preview":        "Left the warehouse",
			"recipient_site_name": "Acme Site - Chicago, IL",
		},
	}

	records := uc.Reconcile(primary, nil)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "fedex", rec.Slug)
	assert.Equal(t, domain.StatusDelivered, rec.Tag)
	assert.Equal(t, "Acme Order ORD1", rec.Title)
	assert.Equal(t, "Chicago", rec.DestinationCity)
	assert.Equal(t, "IL", rec.DestinationState)
	assert.Equal(t, "2000-01-02", rec.LastUpdatedAt)
	assert.Equal(t, "2000-01-05", rec.CheckpointDate)
	assert.Equal(t, "Left the warehouse", rec.CheckpointMessage)
	assert.Equal(t, "Acme Site - Chicago, IL", rec.CheckpointLocation)
}

func TestReconcileTitleFallsBackToCompanyAndOrder(t *testing.T) {
	uc, _ := newUseCase(t)

	primary := []domain.RawRow{
		{"tracking_number": "TRK1", "from_company": "Acme", "order_number": "ORD1"},
		{"tracking_number": "TRK2"},
	}

	records := uc.Reconcile(primary, nil)
	require.Len(t, records, 2)
	assert.Equal(t, "Acme Order ORD1", records[0].Title)
	assert.Equal(t, "Order", records[1].Title)
}

func TestReconcileCheckpointDateFallsBackToLastUpdated(t *testing.T) {
	uc, _ := newUseCase(t)

	primary := []domain.RawRow{
		{"tracking_number": "TRK1", "email_date": "2024-03-01"},
	}

	records := uc.Reconcile(primary, nil)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-03-01", records[0].LastUpdatedAt)
	assert.Equal(t, "2024-03-01", records[0].CheckpointDate)
}

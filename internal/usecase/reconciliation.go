package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"shipment-tracker/internal/domain"
)

// ReconciliationUseCase joins the primary and supplemental feeds into the
// canonical record set.
type ReconciliationUseCase struct {
	source RowSource
	logger zerolog.Logger
	now    func() time.Time
}

// NewReconciliationUseCase creates a new instance of the usecase.
func NewReconciliationUseCase(source RowSource, logger zerolog.Logger) *ReconciliationUseCase {
	return &ReconciliationUseCase{source: source, logger: logger, now: time.Now}
}

// Load fetches the primary and supplemental feeds concurrently, joins them,
// and returns the reconciled record set. Any source failure wraps as a
// single *domain.ReconciliationError; no partial set is returned.
func (uc *ReconciliationUseCase) Load(ctx context.Context) ([]domain.TrackingRecord, error) {
	var primary, supplemental []domain.RawRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := uc.source.PrimaryRows(gctx)
		primary = rows
		return err
	})
	g.Go(func() error {
		rows, err := uc.source.SupplementalRows(gctx)
		supplemental = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, &domain.ReconciliationError{Err: err}
	}

	records := uc.Reconcile(primary, supplemental)
	uc.logger.Info().
		Int("primary_rows", len(primary)).
		Int("supplemental_rows", len(supplemental)).
		Int("records", len(records)).
		Msg("reconciled record set")
	return records, nil
}

// supplementalKeyColumns is the per-row key priority when building the
// supplemental lookup; the first non-empty value wins.
var supplementalKeyColumns = []string{"order_number", "order_id", "tracking_number", "po_number"}

// primaryMatchColumns is the match precedence for resolving a primary row
// against the lookup; the first hit wins.
var primaryMatchColumns = []string{"order_number", "tracking_number", "po_number"}

// Reconcile produces one canonical record per primary row, then drops any
// record without a tracking number.
func (uc *ReconciliationUseCase) Reconcile(primary, supplemental []domain.RawRow) []domain.TrackingRecord {
	lookup := buildSupplementalLookup(supplemental)

	records := make([]domain.TrackingRecord, 0, len(primary))
	for i, row := range primary {
		record := uc.buildRecord(row, i)
		mergeSupplemental(&record, resolveMatch(lookup, supplemental, row, i))
		if strings.TrimSpace(record.TrackingNumber) == "" {
			continue
		}
		records = append(records, record)
	}
	return records
}

// buildSupplementalLookup indexes supplemental rows by their strongest
// available key, lower-cased. Keyless rows stay out of the lookup but remain
// reachable through the positional fallback.
func buildSupplementalLookup(rows []domain.RawRow) map[string]domain.RawRow {
	lookup := make(map[string]domain.RawRow, len(rows))
	for _, row := range rows {
		for _, column := range supplementalKeyColumns {
			if v := row.Get(column); v != "" {
				lookup[strings.ToLower(v)] = row
				break
			}
		}
	}
	return lookup
}

// resolveMatch finds the supplemental row for the primary row at index idx:
// order number, then tracking number, then PO number, then the row at the
// same position. Row-index alignment is a last resort for exports that share
// no key column but were generated in lockstep.
func resolveMatch(lookup map[string]domain.RawRow, supplemental []domain.RawRow, row domain.RawRow, idx int) domain.RawRow {
	for _, column := range primaryMatchColumns {
		v := row.Get(column)
		if v == "" {
			continue
		}
		if match, ok := lookup[strings.ToLower(v)]; ok {
			return match
		}
	}
	if idx < len(supplemental) {
		return supplemental[idx]
	}
	return nil
}

func (uc *ReconciliationUseCase) buildRecord(row domain.RawRow, idx int) domain.TrackingRecord {
	title := row.Get("subject")
	if title == "" {
		title = strings.TrimSpace(fmt.Sprintf("%s Order %s", row.Get("from_company"), row.Get("order_number")))
	}

	lastUpdated := firstNonEmpty(row.Get("ship_date"), row.Get("email_date"))
	location := firstNonEmpty(row.Get("recipient_site_name"), row.Get("recipient"))
	city, state := ParseDestination(location)

	return domain.TrackingRecord{
		ID:                 firstNonEmpty(row.Get("order_number"), row.Get("po_number"), fmt.Sprintf("tracking-%d", idx)),
		TrackingNumber:     row.Get("tracking_number"),
		Slug:               strings.ToLower(row.Get("carrier")),
		Tag:                DetermineStatus(row.Get("estimated_delivery"), uc.now()),
		OrderID:            row.Get("order_number"),
		PONumber:           row.Get("po_number"),
		Title:              title,
		FromCompany:        row.Get("from_company"),
		RecipientName:      firstNonEmpty(row.Get("recipient_name"), row.Get("recipient")),
		DestinationCity:    city,
		DestinationState:   state,
		LastUpdatedAt:      lastUpdated,
		EstimatedDelivery:  row.Get("estimated_delivery"),
		CheckpointDate:     firstNonEmpty(row.Get("estimated_delivery"), lastUpdated),
		CheckpointMessage:  firstNonEmpty(row.Get("body_preview"), row.Get("subject")),
		CheckpointLocation: location,
	}
}

// mergeSupplemental copies matched supplemental columns into the record's
// open extension set. Base keys always win and empty values never land.
func mergeSupplemental(record *domain.TrackingRecord, match domain.RawRow) {
	for key, value := range match {
		if strings.TrimSpace(value) == "" || domain.IsBaseField(key) {
			continue
		}
		if record.Extra == nil {
			record.Extra = make(map[string]string)
		}
		record.Extra[key] = value
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

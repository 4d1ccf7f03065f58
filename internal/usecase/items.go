package usecase

import (
	"context"
	"strconv"
	"strings"

	"shipment-tracker/internal/domain"
)

// LoadItems fetches and groups the line-item feed. Items are a non-essential
// enhancement: any source failure is logged and an empty map returned.
func (uc *ReconciliationUseCase) LoadItems(ctx context.Context) domain.ItemGroupMap {
	rows, err := uc.source.ItemRows(ctx)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("item source unavailable, continuing without items")
		return domain.ItemGroupMap{}
	}
	return GroupItems(rows)
}

// GroupItems groups line-item rows by lower-cased PO number, preserving
// source order. Rows without a PO number are skipped; missing fields default
// to empty strings and zero quantity.
func GroupItems(rows []domain.RawRow) domain.ItemGroupMap {
	groups := make(domain.ItemGroupMap)
	for _, row := range rows {
		po := row.Get("po_number")
		if po == "" {
			continue
		}
		quantity, _ := strconv.Atoi(row.Get("quantity"))
		key := strings.ToLower(po)
		groups[key] = append(groups[key], domain.POItem{
			PONumber:    po,
			ItemName:    row.Get("item_name"),
			PartNumber:  row.Get("part_number"),
			Description: row.Get("description"),
			Color:       row.Get("color"),
			Quantity:    quantity,
		})
	}
	return groups
}

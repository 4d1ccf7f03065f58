// Package query applies status filtering, full-field search, and column
// sorting to a reconciled record set. It never fails: absent or malformed
// fields are treated as empty and excluded from matching.
package query

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/usecase"
)

// Direction is a sort direction. The zero value means unsorted.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortState is the tri-state sort toggle for a table, keyed by column.
type SortState struct {
	Column    string
	Direction Direction
}

// Toggle advances the state for a click on column: repeated clicks on the
// same column cycle ascending, descending, unsorted; a different column
// resets to ascending.
func (s SortState) Toggle(column string) SortState {
	if s.Column != column || s.Direction == "" {
		return SortState{Column: column, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return SortState{Column: column, Direction: Descending}
	}
	return SortState{}
}

// Params captures the view inputs for the records table.
type Params struct {
	Statuses []domain.StatusTag
	Search   string
	Sort     SortState
}

// Apply recomputes the visible record list from the canonical set. The
// input is never mutated.
func Apply(records []domain.TrackingRecord, p Params) []domain.TrackingRecord {
	return Sort(Filter(records, p.Statuses, p.Search), p.Sort.Column, p.Sort.Direction)
}

// Filter keeps records whose tag is in statuses (all, when empty) and whose
// stringified fields contain search as a case-insensitive substring.
func Filter(records []domain.TrackingRecord, statuses []domain.StatusTag, search string) []domain.TrackingRecord {
	statusSet := make(map[domain.StatusTag]struct{}, len(statuses))
	for _, s := range statuses {
		statusSet[s] = struct{}{}
	}
	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]domain.TrackingRecord, 0, len(records))
	for _, record := range records {
		if len(statusSet) > 0 {
			if _, ok := statusSet[record.Tag]; !ok {
				continue
			}
		}
		if needle != "" && !matches(record, needle) {
			continue
		}
		out = append(out, record)
	}
	return out
}

// matches reports whether any searchable field contains needle. The id is
// excluded; the three date fields are searched through their display
// rendering; every open extension field participates.
func matches(record domain.TrackingRecord, needle string) bool {
	values := []string{
		record.TrackingNumber,
		record.OrderID,
		record.PONumber,
		record.FromCompany,
		record.RecipientName,
		record.DestinationCity,
		record.DestinationState,
		record.Slug,
		string(record.Tag),
		record.Title,
		record.CheckpointMessage,
		record.CheckpointLocation,
		usecase.FormatDisplayDate(record.LastUpdatedAt),
		usecase.FormatDisplayDate(record.EstimatedDelivery),
		usecase.FormatDisplayDate(record.CheckpointDate),
	}
	for _, v := range record.Extra {
		values = append(values, v)
	}
	for _, v := range values {
		if v == "" {
			continue
		}
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// dateColumns sort by parsed timestamp rather than collation.
var dateColumns = map[string]struct{}{
	"last_updated_at":    {},
	"estimated_delivery": {},
	"checkpoint_date":    {},
}

// Sort returns a stably sorted copy of records. An empty direction or column
// is the identity. String columns compare through locale-aware collation;
// date columns through their parsed timestamp, with unparseable values
// sorting earliest.
func Sort(records []domain.TrackingRecord, column string, direction Direction) []domain.TrackingRecord {
	out := make([]domain.TrackingRecord, len(records))
	copy(out, records)
	if direction == "" || column == "" {
		return out
	}

	if _, ok := dateColumns[column]; ok {
		sort.SliceStable(out, func(i, j int) bool {
			a := dateSortKey(columnValue(out[i], column))
			b := dateSortKey(columnValue(out[j], column))
			if direction == Descending {
				return a > b
			}
			return a < b
		})
		return out
	}

	collator := collate.New(language.English, collate.Loose)
	sort.SliceStable(out, func(i, j int) bool {
		cmp := collator.CompareString(columnValue(out[i], column), columnValue(out[j], column))
		if direction == Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

func dateSortKey(value string) int64 {
	t, ok := usecase.ParseDate(value)
	if !ok {
		return 0
	}
	return t.UnixMilli()
}

// columnValue extracts the sortable value for a named column, falling back
// to the open extension set for unknown names.
func columnValue(record domain.TrackingRecord, column string) string {
	switch column {
	case "tracking_number":
		return record.TrackingNumber
	case "slug":
		return record.Slug
	case "tag":
		return string(record.Tag)
	case "order_id":
		return record.OrderID
	case "po_number":
		return record.PONumber
	case "title":
		return record.Title
	case "from_company":
		return record.FromCompany
	case "recipient_name":
		return record.RecipientName
	case "destination_city":
		return record.DestinationCity
	case "destination_state":
		return record.DestinationState
	case "last_updated_at":
		return record.LastUpdatedAt
	case "estimated_delivery":
		return record.EstimatedDelivery
	case "checkpoint_date":
		return record.CheckpointDate
	case "checkpoint_message":
		return record.CheckpointMessage
	case "checkpoint_location":
		return record.CheckpointLocation
	default:
		return record.Extra[column]
	}
}

// ItemColumnAll searches every item field.
const ItemColumnAll = "all"

// FilterItems keeps items whose column value contains search as a
// case-insensitive substring. Column "all" (or empty) searches every field.
func FilterItems(items []domain.POItem, search, column string) []domain.POItem {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		out := make([]domain.POItem, len(items))
		copy(out, items)
		return out
	}

	out := make([]domain.POItem, 0, len(items))
	for _, item := range items {
		if matchesItem(item, needle, column) {
			out = append(out, item)
		}
	}
	return out
}

func matchesItem(item domain.POItem, needle, column string) bool {
	if column == "" || column == ItemColumnAll {
		for _, v := range itemValues(item) {
			if v != "" && strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
		return false
	}
	v := itemColumnValue(item, column)
	return v != "" && strings.Contains(strings.ToLower(v), needle)
}

func itemValues(item domain.POItem) []string {
	return []string{
		item.ItemName,
		item.PartNumber,
		item.Description,
		item.Color,
		strconv.Itoa(item.Quantity),
		item.PONumber,
	}
}

func itemColumnValue(item domain.POItem, column string) string {
	switch column {
	case "item_name":
		return item.ItemName
	case "part_number":
		return item.PartNumber
	case "description":
		return item.Description
	case "color":
		return item.Color
	case "quantity":
		return strconv.Itoa(item.Quantity)
	case "po_number":
		return item.PONumber
	default:
		return ""
	}
}

package domain

import "strings"

// StatusTag classifies a shipment's delivery state.
type StatusTag string

const (
	StatusDelivered      StatusTag = "delivered"
	StatusInTransit      StatusTag = "in_transit"
	StatusOutForDelivery StatusTag = "out_for_delivery"
	StatusPending        StatusTag = "pending"
	StatusException      StatusTag = "exception"
)

// RawRow is one parsed source line, keyed by normalized column name.
// Rows are ephemeral: they exist only between parsing and reconciliation.
type RawRow map[string]string

// Get returns the trimmed value for a normalized column, or "" when the
// column is absent.
func (r RawRow) Get(key string) string {
	return strings.TrimSpace(r[key])
}

// TrackingRecord is the canonical reconciled entity. The named fields come
// from the primary source; Extra carries every supplemental column that is
// not a named field, keyed by normalized column name.
type TrackingRecord struct {
	ID                 string    `json:"id"`
	TrackingNumber     string    `json:"tracking_number"`
	Slug               string    `json:"slug"`
	Tag                StatusTag `json:"tag"`
	OrderID            string    `json:"order_id"`
	PONumber           string    `json:"po_number"`
	Title              string    `json:"title"`
	FromCompany        string    `json:"from_company"`
	RecipientName      string    `json:"recipient_name"`
	DestinationCity    string    `json:"destination_city"`
	DestinationState   string    `json:"destination_state"`
	LastUpdatedAt      string    `json:"last_updated_at"`
	EstimatedDelivery  string    `json:"estimated_delivery"`
	CheckpointDate     string    `json:"checkpoint_date"`
	CheckpointMessage  string    `json:"checkpoint_message"`
	CheckpointLocation string    `json:"checkpoint_location"`

	Extra map[string]string `json:"extra,omitempty"`
}

// baseFields are the normalized column names owned by the named record
// fields. Supplemental values under these keys never reach Extra.
var baseFields = map[string]struct{}{
	"id":                  {},
	"tracking_number":     {},
	"slug":                {},
	"tag":                 {},
	"order_id":            {},
	"po_number":           {},
	"title":               {},
	"from_company":        {},
	"recipient_name":      {},
	"destination_city":    {},
	"destination_state":   {},
	"last_updated_at":     {},
	"estimated_delivery":  {},
	"checkpoint_date":     {},
	"checkpoint_message":  {},
	"checkpoint_location": {},
}

// IsBaseField reports whether key names one of the fixed record fields.
func IsBaseField(key string) bool {
	_, ok := baseFields[key]
	return ok
}

// POItem is a single purchase-order line item.
type POItem struct {
	PONumber    string `json:"po_number"`
	ItemName    string `json:"item_name"`
	PartNumber  string `json:"part_number"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Quantity    int    `json:"quantity"`
}

// ItemGroupMap maps a lower-cased PO number to its items in source order.
type ItemGroupMap map[string][]POItem


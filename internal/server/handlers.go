package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/query"
	"shipment-tracker/internal/tracking"
)

type recordView struct {
	domain.TrackingRecord
	TrackingURL string `json:"tracking_url"`
}

type recordsResponse struct {
	LoadID   string       `json:"load_id"`
	LoadedAt time.Time    `json:"loaded_at"`
	Total    int          `json:"total"`
	Records  []recordView `json:"records"`
}

// handleRecords serves the filtered, sorted record set from the current
// snapshot. Query parameters: status (comma-separated tags), q (search
// text), sort (column), dir (asc|desc).
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var statuses []domain.StatusTag
	if raw := q.Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				statuses = append(statuses, domain.StatusTag(part))
			}
		}
	}

	var direction query.Direction
	switch q.Get("dir") {
	case "asc":
		direction = query.Ascending
	case "desc":
		direction = query.Descending
	}

	snap := s.service.Store().Current()
	records := query.Apply(snap.Records, query.Params{
		Statuses: statuses,
		Search:   q.Get("q"),
		Sort:     query.SortState{Column: q.Get("sort"), Direction: direction},
	})

	views := make([]recordView, len(records))
	for i, record := range records {
		views[i] = recordView{
			TrackingRecord: record,
			TrackingURL:    tracking.URL(record.TrackingNumber, record.Slug),
		}
	}

	writeJSON(w, http.StatusOK, recordsResponse{
		LoadID:   snap.ID.String(),
		LoadedAt: snap.LoadedAt,
		Total:    len(views),
		Records:  views,
	})
}

type itemsResponse struct {
	Total int             `json:"total"`
	Items []domain.POItem `json:"items"`
}

// handleItems serves line items. Query parameters: po (group key), q
// (search text), column ("all" or a single item field).
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	snap := s.service.Store().Current()

	var items []domain.POItem
	if po := q.Get("po"); po != "" {
		items = snap.Items[strings.ToLower(po)]
	} else {
		keys := make([]string, 0, len(snap.Items))
		for key := range snap.Items {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			items = append(items, snap.Items[key]...)
		}
	}

	items = query.FilterItems(items, q.Get("q"), q.Get("column"))
	writeJSON(w, http.StatusOK, itemsResponse{Total: len(items), Items: items})
}

type refreshResponse struct {
	LoadID   string    `json:"load_id"`
	LoadedAt time.Time `json:"loaded_at"`
	Records  int       `json:"records"`
}

// handleRefresh triggers a reload. While a load is in flight the trigger is
// rejected with 409; a failed load surfaces one error message and leaves the
// previous snapshot in place.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Refresh(r.Context())
	if err != nil {
		if errors.Is(err, ErrLoadInFlight) {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{
		LoadID:   snap.ID.String(),
		LoadedAt: snap.LoadedAt,
		Records:  len(snap.Records),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.service.Store().Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"load_id":   snap.ID.String(),
		"loaded_at": snap.LoadedAt,
		"records":   len(snap.Records),
		"loading":   s.service.Store().Loading(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

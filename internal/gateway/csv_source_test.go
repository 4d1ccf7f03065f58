package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipment-tracker/internal/domain"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already normalized", "tracking_number", "tracking_number"},
		{"mixed case with spaces", "  Tracking Number ", "tracking_number"},
		{"parentheses stripped", "Quantity (units)", "quantity_units"},
		{"internal runs collapse", "PO\t Number", "po_number"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeHeader(tt.input))
		})
	}
}

func TestNormalizeHeaderIdempotent(t *testing.T) {
	headers := []string{
		"Tracking Number",
		"  Estimated Delivery (date) ",
		"recipient SITE name",
		"a ( b )",
	}
	for _, h := range headers {
		once := NormalizeHeader(h)
		assert.Equal(t, once, NormalizeHeader(once), "normalize must be idempotent for %q", h)
	}
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPrimaryRowsFromFile(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []domain.RawRow
	}{
		{
			name:    "headers normalized and rows keyed",
			content: "Order Number,Tracking Number,Carrier\nORD1,1Z999,UPS\nORD2,9400,USPS\n",
			expected: []domain.RawRow{
				{"order_number": "ORD1", "tracking_number": "1Z999", "carrier": "UPS"},
				{"order_number": "ORD2", "tracking_number": "9400", "carrier": "USPS"},
			},
		},
		{
			name:    "empty lines skipped",
			content: "\n\nOrder Number,Carrier\n\nORD1,UPS\n\n",
			expected: []domain.RawRow{
				{"order_number": "ORD1", "carrier": "UPS"},
			},
		},
		{
			name:    "ragged rows tolerated",
			content: "a,b,c\n1,2\n1,2,3,4\n",
			expected: []domain.RawRow{
				{"a": "1", "b": "2"},
				{"a": "1", "b": "2", "c": "3"},
			},
		},
		{
			name:    "byte order mark stripped from first header",
			content: "\ufeffOrder Number\nORD1\n",
			expected: []domain.RawRow{
				{"order_number": "ORD1"},
			},
		},
		{
			name:     "header only",
			content:  "Order Number,Carrier\n",
			expected: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewCSVSource(writeTempCSV(t, tt.content), "", "", zerolog.Nop())
			rows, err := source.PrimaryRows(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rows)
		})
	}
}

func TestPrimaryRowsOverHTTP(t *testing.T) {
	var sawCacheBust bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawCacheBust = r.URL.Query().Get("t") != ""
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		w.Write([]byte("PO Number,Tracking Number\nPO-1,TRK-1\n"))
	}))
	defer srv.Close()

	source := NewCSVSource(srv.URL, "", "", zerolog.Nop())
	rows, err := source.PrimaryRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TRK-1", rows[0].Get("tracking_number"))
	assert.True(t, sawCacheBust, "every fetch must carry a cache-busting parameter")
}

func TestPrimaryRowsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	source := NewCSVSource(srv.URL, "", "", zerolog.Nop())
	_, err := source.PrimaryRows(context.Background())

	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Status, "404")
}

func TestPrimaryRowsMissingFile(t *testing.T) {
	source := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"), "", "", zerolog.Nop())
	_, err := source.PrimaryRows(context.Background())

	var loadErr *domain.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestPrimaryRowsParseError(t *testing.T) {
	path := writeTempCSV(t, "a,b\n\"unterminated,1\n")
	source := NewCSVSource(path, "", "", zerolog.Nop())
	_, err := source.PrimaryRows(context.Background())

	var parseErr *domain.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestSupplementalRowsUnavailable(t *testing.T) {
	source := NewCSVSource("", filepath.Join(t.TempDir(), "absent.csv"), "", zerolog.Nop())
	rows, err := source.SupplementalRows(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSupplementalRowsParseErrorStillFatal(t *testing.T) {
	path := writeTempCSV(t, "a,b\n\"unterminated,1\n")
	source := NewCSVSource("", path, "", zerolog.Nop())
	_, err := source.SupplementalRows(context.Background())

	var parseErr *domain.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestItemRowsUnconfigured(t *testing.T) {
	source := NewCSVSource("", "", "", zerolog.Nop())
	rows, err := source.ItemRows(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, rows)
}

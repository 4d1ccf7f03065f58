package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shipment-tracker/internal/domain"
)

// CSVSource reads the three delimited-text feeds. Paths may be HTTP(S) URLs
// or local file paths; HTTP fetches are cache-busted so every load observes
// the current upstream content.
type CSVSource struct {
	primaryPath      string
	supplementalPath string
	itemsPath        string
	client           *http.Client
	logger           zerolog.Logger
}

// NewCSVSource creates a source over the given paths. The supplemental and
// items paths may be empty.
func NewCSVSource(primary, supplemental, items string, logger zerolog.Logger) *CSVSource {
	return &CSVSource{
		primaryPath:      primary,
		supplementalPath: supplemental,
		itemsPath:        items,
		client:           &http.Client{Timeout: 30 * time.Second},
		logger:           logger,
	}
}

// PrimaryRows loads the required primary source. Fetch failures surface as
// *domain.LoadError, malformed content as *domain.ParseError.
func (s *CSVSource) PrimaryRows(ctx context.Context) ([]domain.RawRow, error) {
	return s.loadTable(ctx, s.primaryPath, true)
}

// SupplementalRows loads the optional supplemental source. A fetch failure
// yields an empty sequence so the load can proceed without it.
func (s *CSVSource) SupplementalRows(ctx context.Context) ([]domain.RawRow, error) {
	return s.loadTable(ctx, s.supplementalPath, false)
}

// ItemRows loads the optional line-item source.
func (s *CSVSource) ItemRows(ctx context.Context) ([]domain.RawRow, error) {
	return s.loadTable(ctx, s.itemsPath, false)
}

func (s *CSVSource) loadTable(ctx context.Context, path string, required bool) ([]domain.RawRow, error) {
	if path == "" {
		if required {
			return nil, &domain.LoadError{Path: path, Err: fmt.Errorf("no source path configured")}
		}
		return nil, nil
	}

	body, status, err := s.open(ctx, path)
	if err != nil {
		if !required {
			s.logger.Warn().Str("path", path).Err(err).Msg("optional source unavailable, treating as empty")
			return nil, nil
		}
		return nil, &domain.LoadError{Path: path, Status: status, Err: err}
	}
	defer body.Close()

	rows, err := parseTable(body)
	if err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}
	return rows, nil
}

// open returns the content of path. HTTP requests carry a cache-busting
// query parameter and no-cache headers so a stale cached copy is never read.
func (s *CSVSource) open(ctx context.Context, path string) (io.ReadCloser, string, error) {
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		f, err := os.Open(path)
		if err != nil {
			return nil, "", err
		}
		return f, "", nil
	}

	u, err := url.Parse(path)
	if err != nil {
		return nil, "", fmt.Errorf("invalid source url: %w", err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixNano(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, resp.Status, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, "", nil
}

// parseTable reads delimited text into RawRows. The first non-empty line is
// the header; header names are normalized before any lookup. Ragged rows are
// tolerated: missing cells yield absent keys, extra cells are ignored.
func parseTable(r io.Reader) ([]domain.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var header []string
	var rows []domain.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isEmptyLine(record) {
			continue
		}
		if header == nil {
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
			header = make([]string, len(record))
			for i, name := range record {
				header[i] = NormalizeHeader(name)
			}
			continue
		}
		row := make(domain.RawRow, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var headerWhitespace = regexp.MustCompile(`\s+`)

// NormalizeHeader canonicalizes a free-form column name:
// trim, lower-case, internal whitespace to a single underscore, parentheses
// removed. The result is stable under repeated application.
func NormalizeHeader(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = headerWhitespace.ReplaceAllString(s, "_")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	return s
}

func isEmptyLine(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

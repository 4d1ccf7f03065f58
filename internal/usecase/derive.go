package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"shipment-tracker/internal/domain"
)

var (
	bareDatePattern  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	stateCodePattern = regexp.MustCompile(`\b[A-Z]{2}\b`)
	bareStatePattern = regexp.MustCompile(`^[A-Z]{2}$`)
)

// dateLayouts are tried in order after the bare-date fast path. Upstream
// exports have shipped all of these at one point or another.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDate parses a loosely formatted date string. A bare YYYY-MM-DD is
// built from its calendar components in local time so a timezone offset can
// never shift the day across midnight.
func ParseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	if m := bareDatePattern.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDisplayDate renders a raw date string the way the UI table shows it.
// Unparseable input passes through trimmed so no value disappears.
func FormatDisplayDate(text string) string {
	t, ok := ParseDate(text)
	if !ok {
		return strings.TrimSpace(text)
	}
	return t.Format("Jan 2, 2006")
}

// DetermineStatus infers the delivery tag from an estimated-delivery string
// by comparing calendar days against now: past means delivered, today means
// out for delivery, future or unparseable means in transit.
func DetermineStatus(text string, now time.Time) domain.StatusTag {
	t, ok := ParseDate(text)
	if !ok {
		return domain.StatusInTransit
	}
	estimate := dayKey(t)
	today := dayKey(now)
	switch {
	case estimate < today:
		return domain.StatusDelivered
	case estimate > today:
		return domain.StatusInTransit
	default:
		return domain.StatusOutForDelivery
	}
}

// dayKey collapses a time to a comparable calendar day, ignoring clock and
// zone so two dates on the same day always compare equal.
func dayKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// ParseDestination extracts a best-effort city and state from an
// unstructured location string such as "Acme Site - Chicago, IL". The state
// is the first bare two-uppercase-letter token; the city is the nearest
// preceding part that is not itself such a token. Ambiguous input yields
// empty results rather than a guess.
func ParseDestination(text string) (city, state string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}
	state = stateCodePattern.FindString(text)
	if state == "" {
		return "", ""
	}
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '-' || r == ','
	})
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 {
		return "", ""
	}
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == "" || bareStatePattern.MatchString(parts[i]) {
			continue
		}
		return parts[i], state
	}
	return "", state
}

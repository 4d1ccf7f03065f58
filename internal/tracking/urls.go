// Package tracking resolves external tracking-site URLs from a static
// per-carrier template table.
package tracking

import (
	"fmt"
	"net/url"
	"strings"
)

// carrierTemplates maps a carrier slug to its tracking page; the single %s
// receives the escaped tracking number.
var carrierTemplates = map[string]string{
	"ups":         "https://www.ups.com/track?loc=en_US&tracknum=%s",
	"usps":        "https://tools.usps.com/go/TrackConfirmAction?tLabels=%s",
	"fedex":       "https://www.fedex.com/fedextrack/?trknbr=%s",
	"dhl":         "https://www.dhl.com/us-en/home/tracking.html?tracking-id=%s",
	"ontrac":      "https://www.ontrac.com/trackingresults.asp?tracking_number=%s",
	"lasership":   "https://www.lasership.com/track/%s",
	"amazon":      "https://track.amazon.com/tracking/%s",
	"canada-post": "https://www.canadapost-postescanada.ca/track-reperage/en#/search?searchFor=%s",
}

// URL resolves the tracking page for a shipment, falling back to a generic
// web search when the carrier is unknown. An empty tracking number resolves
// to an empty URL.
func URL(trackingNumber, slug string) string {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return ""
	}
	if template, ok := carrierTemplates[strings.ToLower(strings.TrimSpace(slug))]; ok {
		return fmt.Sprintf(template, url.QueryEscape(trackingNumber))
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(trackingNumber+" tracking")
}

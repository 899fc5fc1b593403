package domain

import (
	"time"
	"unicode/utf8"
)

// PlaceStatus classifies the outcome of an external place lookup.
// Failures are data, not errors: handlers render a degraded page
// instead of failing the request.
type PlaceStatus string

const (
	PlaceOK        PlaceStatus = "ok"
	PlaceNone      PlaceStatus = "none"      // no place ID or no API key configured
	PlaceTransport PlaceStatus = "transport" // network failure or timeout
	PlaceMalformed PlaceStatus = "malformed" // unparseable payload
	PlaceUpstream  PlaceStatus = "upstream"  // API reported a non-success status
	PlaceUnknown   PlaceStatus = "unknown"
)

// ErrorLabelMax bounds the human-readable failure label.
const ErrorLabelMax = 140

type PlaceReview struct {
	Rating       int    `json:"rating"`
	Author       string `json:"author"`
	RelativeTime string `json:"relative_time"`
	Text         string `json:"text"`
	AuthorURL    string `json:"author_url"`
}

// PlaceResult is the cached summary of one external place lookup.
// Only results with Status == PlaceOK are ever written to the cache.
type PlaceResult struct {
	Status      PlaceStatus   `json:"status"`
	ErrorLabel  string        `json:"error_label,omitempty"`
	Rating      float64       `json:"rating"`
	ReviewCount int           `json:"review_count"`
	Reviews     []PlaceReview `json:"reviews,omitempty"`
	MapURL      string        `json:"map_url,omitempty"`
	FetchedAt   time.Time     `json:"fetched_at"`
}

func (r PlaceResult) OK() bool { return r.Status == PlaceOK }

// TruncateLabel caps a failure label at ErrorLabelMax characters,
// never splitting a multibyte rune.
func TruncateLabel(s string) string {
	if utf8.RuneCountInString(s) <= ErrorLabelMax {
		return s
	}
	n := 0
	for i := range s {
		if n == ErrorLabelMax {
			return s[:i]
		}
		n++
	}
	return s
}

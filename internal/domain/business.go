package domain

import (
	"strings"
	"time"
)

type Business struct {
	ID          int64
	Name        string
	Slug        string
	Category    string
	Description string
	Website     string
	Phone       string
	DealText    string
	Address     string
	HeroImage   string
	LogoImage   string
	PlaceID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BusinessCard is the listing read model: a business plus its local
// rating aggregate, computed in one pass by the storage layer.
type BusinessCard struct {
	Business
	Rating RatingSummary
}

// Slugify derives a URL slug from a business name: lowercase, runs of
// non-alphanumerics collapse to a single hyphen, leading/trailing
// hyphens trimmed.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

package app

import (
	"time"

	"github.com/cavanpasek/ouray-info/internal/domain"
)

// MaxCombinedReviews caps the merged external+local review list on the
// detail page.
const MaxCombinedReviews = 20

const (
	SourceLocal    = "local"
	SourceExternal = "external"
)

// CombinedReview is one row of the merged review list; Source tells
// the template which variant to render.
type CombinedReview struct {
	Source    string
	Rating    int
	Author    string
	TimeLabel string
	Text      string
	Link      string
	CreatedAt time.Time
}

// ListingItem is a listing card plus everything the star widget needs.
type ListingItem struct {
	domain.BusinessCard
	Fill  float64
	Place domain.PlaceResult
}

// DetailView is the full display model for one business page.
type DetailView struct {
	Business domain.Business
	Summary  domain.RatingSummary
	Fill     float64
	Place    domain.PlaceResult
	Reviews  []CombinedReview
}

// combineReviews merges external excerpts (API order) with local
// approved reviews (newest-first) up to the cap. External entries
// always come first; local reviews past the cap are dropped.
func combineReviews(place domain.PlaceResult, local []domain.Review) []CombinedReview {
	out := make([]CombinedReview, 0, MaxCombinedReviews)
	if place.OK() {
		for _, rv := range place.Reviews {
			if len(out) >= MaxCombinedReviews {
				return out
			}
			out = append(out, CombinedReview{
				Source:    SourceExternal,
				Rating:    rv.Rating,
				Author:    rv.Author,
				TimeLabel: rv.RelativeTime,
				Text:      rv.Text,
				Link:      rv.AuthorURL,
			})
		}
	}
	for _, rv := range local {
		if len(out) >= MaxCombinedReviews {
			break
		}
		out = append(out, CombinedReview{
			Source:    SourceLocal,
			Rating:    rv.Rating,
			Author:    rv.Name,
			Text:      rv.Comment,
			CreatedAt: rv.CreatedAt,
		})
	}
	return out
}

package domain

import "context"

type SortMode string

const (
	SortTop    SortMode = "top"    // avg rating desc, review count desc, name asc
	SortAZ     SortMode = "az"     // name asc
	SortGoogle SortMode = "google" // external rating desc, external count desc, name asc
)

// ParseSort maps a query parameter to a sort mode. Anything
// unrecognized falls back to SortTop.
func ParseSort(s string) SortMode {
	switch SortMode(s) {
	case SortAZ:
		return SortAZ
	case SortGoogle:
		return SortGoogle
	default:
		return SortTop
	}
}

type BusinessRepository interface {
	// Write paths
	CreateBusiness(ctx context.Context, b *Business) error
	UpdateBusiness(ctx context.Context, b *Business) error
	DeleteBusiness(ctx context.Context, id int64) error
	CreateReview(ctx context.Context, rv *Review) error

	// Read paths
	GetBySlug(ctx context.Context, slug string) (Business, error)
	ListBusinesses(ctx context.Context, sort SortMode) ([]BusinessCard, error)
	ListByIDs(ctx context.Context, ids []int64) ([]BusinessCard, error)
	ListReviews(ctx context.Context, businessID int64, limit int) ([]Review, error)
	ReviewSummary(ctx context.Context, businessID int64) (RatingSummary, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// PlaceClient fetches a rating summary from the external places API.
// Failures come back classified inside the result, never as an error.
type PlaceClient interface {
	Details(ctx context.Context, placeID string) PlaceResult
}

// CaptchaVerifier checks a client-supplied CAPTCHA token. Every failure
// mode surfaces as an error whose message is safe to show the visitor.
type CaptchaVerifier interface {
	Configured() bool
	Verify(ctx context.Context, token, remoteIP string) error
}

type Mailer interface {
	Configured() bool
	Send(ctx context.Context, subject, body string) error
}

// BookmarkStore keeps the visitor-scoped set of bookmarked business
// IDs, persisted in canonical sorted order.
type BookmarkStore interface {
	List(ctx context.Context, sid string) ([]int64, error)
	Toggle(ctx context.Context, sid string, businessID int64) (bool, error)
}

package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cavanpasek/ouray-info/internal/app"
	"github.com/cavanpasek/ouray-info/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	business domain.Business
	cards    []domain.BusinessCard
	reviews  []domain.Review
	summary  domain.RatingSummary

	created []domain.Review
}

func (f *fakeRepo) CreateBusiness(ctx context.Context, b *domain.Business) error { return nil }
func (f *fakeRepo) UpdateBusiness(ctx context.Context, b *domain.Business) error { return nil }
func (f *fakeRepo) DeleteBusiness(ctx context.Context, id int64) error           { return nil }
func (f *fakeRepo) CreateReview(ctx context.Context, rv *domain.Review) error {
	f.created = append(f.created, *rv)
	return nil
}
func (f *fakeRepo) GetBySlug(ctx context.Context, slug string) (domain.Business, error) {
	if slug != f.business.Slug {
		return domain.Business{}, domain.ErrNotFound
	}
	return f.business, nil
}
func (f *fakeRepo) ListBusinesses(ctx context.Context, sort domain.SortMode) ([]domain.BusinessCard, error) {
	return f.cards, nil
}
func (f *fakeRepo) ListByIDs(ctx context.Context, ids []int64) ([]domain.BusinessCard, error) {
	var out []domain.BusinessCard
	for _, c := range f.cards {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}
func (f *fakeRepo) ListReviews(ctx context.Context, businessID int64, limit int) ([]domain.Review, error) {
	if limit > len(f.reviews) {
		limit = len(f.reviews)
	}
	return f.reviews[:limit], nil
}
func (f *fakeRepo) ReviewSummary(ctx context.Context, businessID int64) (domain.RatingSummary, error) {
	return f.summary, nil
}

// fakeCache round-trips values through JSON like the redis adapter,
// so tests cover the real serialization boundary.
type fakeCache struct{ store map[string][]byte }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

type fakePlaces struct {
	calls   int32
	results map[string]domain.PlaceResult
}

func (p *fakePlaces) Details(ctx context.Context, placeID string) domain.PlaceResult {
	atomic.AddInt32(&p.calls, 1)
	if r, ok := p.results[placeID]; ok {
		return r
	}
	return domain.PlaceResult{Status: domain.PlaceTransport, ErrorLabel: "dial refused"}
}

func okPlace(rating float64, count int) domain.PlaceResult {
	return domain.PlaceResult{Status: domain.PlaceOK, Rating: rating, ReviewCount: count, FetchedAt: time.Now()}
}

// ---- tests ----

func TestPlaceSummary_EmptyIDIsNoneWithoutCall(t *testing.T) {
	places := &fakePlaces{}
	q := app.NewDirectoryService(&fakeRepo{}, places, &fakeCache{}, 300*time.Second)

	res := q.PlaceSummary(context.Background(), "")
	if res.Status != domain.PlaceNone {
		t.Fatalf("status = %s, want none", res.Status)
	}
	if atomic.LoadInt32(&places.calls) != 0 {
		t.Fatal("expected no client call for empty place ID")
	}
}

func TestPlaceSummary_SecondFetchServedFromCache(t *testing.T) {
	places := &fakePlaces{results: map[string]domain.PlaceResult{"abc": okPlace(4.5, 100)}}
	q := app.NewDirectoryService(&fakeRepo{}, places, &fakeCache{}, 300*time.Second)

	first := q.PlaceSummary(context.Background(), "abc")
	if !first.OK() || first.Rating != 4.5 {
		t.Fatalf("unexpected first result: %+v", first)
	}

	// Mutate the upstream to prove the second read comes from cache
	places.results["abc"] = okPlace(1.0, 1)

	second := q.PlaceSummary(context.Background(), "abc")
	if second.Rating != 4.5 || second.ReviewCount != 100 {
		t.Fatalf("expected cached payload, got %+v", second)
	}
	if n := atomic.LoadInt32(&places.calls); n != 1 {
		t.Fatalf("expected 1 network call, got %d", n)
	}
}

func TestPlaceSummary_FailuresAreNotCached(t *testing.T) {
	places := &fakePlaces{} // every lookup fails as transport
	q := app.NewDirectoryService(&fakeRepo{}, places, &fakeCache{}, 300*time.Second)

	for i := 0; i < 2; i++ {
		res := q.PlaceSummary(context.Background(), "abc")
		if res.Status != domain.PlaceTransport {
			t.Fatalf("status = %s, want transport", res.Status)
		}
	}
	if n := atomic.LoadInt32(&places.calls); n != 2 {
		t.Fatalf("expected 2 network calls (no caching of failures), got %d", n)
	}
}

func TestDetail_CombinedListCapAndOrder(t *testing.T) {
	ext := okPlace(4.8, 500)
	for i := 0; i < 5; i++ {
		ext.Reviews = append(ext.Reviews, domain.PlaceReview{
			Rating: 5, Author: fmt.Sprintf("ext-%d", i), Text: "external",
		})
	}
	var local []domain.Review
	for i := 0; i < 30; i++ {
		local = append(local, domain.Review{
			Rating: 4, Name: fmt.Sprintf("local-%d", i), Comment: "local", Approved: true,
		})
	}
	repo := &fakeRepo{
		business: domain.Business{ID: 1, Slug: "ouray-brewery", PlaceID: "abc"},
		reviews:  local,
		summary:  domain.RatingSummary{Average: 4, Count: 30},
	}
	places := &fakePlaces{results: map[string]domain.PlaceResult{"abc": ext}}
	q := app.NewDirectoryService(repo, places, &fakeCache{}, 300*time.Second)

	view, err := q.Detail(context.Background(), "ouray-brewery")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(view.Reviews) != app.MaxCombinedReviews {
		t.Fatalf("combined length = %d, want %d", len(view.Reviews), app.MaxCombinedReviews)
	}
	for i, rv := range view.Reviews {
		want := app.SourceLocal
		if i < 5 {
			want = app.SourceExternal
		}
		if rv.Source != want {
			t.Fatalf("review %d source = %s, want %s", i, rv.Source, want)
		}
	}
	if view.Fill != 80 {
		t.Fatalf("fill = %v, want 80", view.Fill)
	}
}

func TestDetail_DegradedExternalKeepsLocalReviews(t *testing.T) {
	repo := &fakeRepo{
		business: domain.Business{ID: 1, Slug: "ouray-brewery", PlaceID: "abc"},
		reviews:  []domain.Review{{Rating: 5, Name: "Ana", Comment: "great", Approved: true}},
		summary:  domain.RatingSummary{Average: 5, Count: 1},
	}
	places := &fakePlaces{} // transport failure
	q := app.NewDirectoryService(repo, places, &fakeCache{}, 300*time.Second)

	view, err := q.Detail(context.Background(), "ouray-brewery")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if view.Place.Status != domain.PlaceTransport {
		t.Fatalf("place status = %s", view.Place.Status)
	}
	if len(view.Reviews) != 1 || view.Reviews[0].Source != app.SourceLocal {
		t.Fatalf("unexpected reviews: %+v", view.Reviews)
	}
}

func TestListing_GoogleSortMissingDataIsZero(t *testing.T) {
	cards := []domain.BusinessCard{
		{Business: domain.Business{ID: 1, Name: "Alpine", PlaceID: ""}},          // no place ID
		{Business: domain.Business{ID: 2, Name: "Bighorn", PlaceID: "high"}},     // 4.9
		{Business: domain.Business{ID: 3, Name: "Cascade", PlaceID: "low"}},      // 3.0
		{Business: domain.Business{ID: 4, Name: "Amphitheater", PlaceID: "bad"}}, // lookup fails -> 0
	}
	places := &fakePlaces{results: map[string]domain.PlaceResult{
		"high": okPlace(4.9, 1000),
		"low":  okPlace(3.0, 10),
	}}
	q := app.NewDirectoryService(&fakeRepo{cards: cards}, places, &fakeCache{}, 300*time.Second)

	items, err := q.Listing(context.Background(), domain.SortGoogle)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	want := []string{"Bighorn", "Cascade", "Alpine", "Amphitheater"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order = %v, want %v", names, want)
		}
	}
}

func TestListing_TopPassesThroughRepoOrder(t *testing.T) {
	cards := []domain.BusinessCard{
		{Business: domain.Business{ID: 1, Name: "Bighorn"}, Rating: domain.RatingSummary{Average: 4.5, Count: 9}},
		{Business: domain.Business{ID: 2, Name: "Alpine"}, Rating: domain.RatingSummary{Average: 4.0, Count: 3}},
	}
	q := app.NewDirectoryService(&fakeRepo{cards: cards}, &fakePlaces{}, &fakeCache{}, 300*time.Second)

	items, err := q.Listing(context.Background(), domain.SortTop)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if items[0].Name != "Bighorn" || items[1].Name != "Alpine" {
		t.Fatalf("unexpected order: %+v", items)
	}
	if items[0].Fill != 90 {
		t.Fatalf("fill = %v, want 90", items[0].Fill)
	}
}

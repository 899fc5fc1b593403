package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/cavanpasek/ouray-info/internal/domain"
)

// placeFanout bounds concurrent external lookups when a listing needs
// summaries for many businesses at once.
const placeFanout = 8

type DirectoryService struct {
	repo     domain.BusinessRepository
	places   domain.PlaceClient
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewDirectoryService(r domain.BusinessRepository, p domain.PlaceClient, c domain.Cache, ttl time.Duration) *DirectoryService {
	return &DirectoryService{repo: r, places: p, cache: c, cacheTTL: ttl}
}

// PlaceSummary returns the external rating summary for a place ID,
// serving from cache when a prior success is younger than the TTL.
// Failures pass through uncached so the next request retries.
func (s *DirectoryService) PlaceSummary(ctx context.Context, placeID string) domain.PlaceResult {
	if placeID == "" {
		return domain.PlaceResult{Status: domain.PlaceNone}
	}
	key := fmt.Sprintf("place:%s", placeID)
	var cached domain.PlaceResult
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached
	}

	res := s.places.Details(ctx, placeID)
	if res.OK() {
		if err := s.cache.Set(ctx, key, res, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("place_id", placeID).Msg("place cache set failed")
		}
	} else if res.Status != domain.PlaceNone {
		log.Warn().
			Str("place_id", placeID).
			Str("status", string(res.Status)).
			Str("label", res.ErrorLabel).
			Msg("place lookup failed")
	}
	return res
}

// Listing returns ordered listing items. top and az come pre-sorted
// from storage; google re-sorts on external data fetched through the
// cache, treating missing data as zero.
func (s *DirectoryService) Listing(ctx context.Context, mode domain.SortMode) ([]ListingItem, error) {
	cards, err := s.repo.ListBusinesses(ctx, mode)
	if err != nil {
		return nil, err
	}
	items := s.attachPlaces(ctx, cards)
	if mode == domain.SortGoogle {
		sortByExternal(items)
	}
	return items, nil
}

// ListingByIDs renders the bookmarked subset, keeping top ordering.
func (s *DirectoryService) ListingByIDs(ctx context.Context, ids []int64) ([]ListingItem, error) {
	cards, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.attachPlaces(ctx, cards), nil
}

// Business resolves a slug without assembling the full detail view.
func (s *DirectoryService) Business(ctx context.Context, slug string) (domain.Business, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Detail assembles the full display model for one business page.
func (s *DirectoryService) Detail(ctx context.Context, slug string) (DetailView, error) {
	b, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return DetailView{}, err
	}

	summary, err := s.repo.ReviewSummary(ctx, b.ID)
	if err != nil {
		return DetailView{}, err
	}
	local, err := s.repo.ListReviews(ctx, b.ID, MaxCombinedReviews)
	if err != nil {
		return DetailView{}, err
	}

	place := s.PlaceSummary(ctx, b.PlaceID)

	return DetailView{
		Business: b,
		Summary:  summary,
		Fill:     domain.FillPercent(summary.Average),
		Place:    place,
		Reviews:  combineReviews(place, local),
	}, nil
}

// attachPlaces resolves external summaries for every card with a place
// ID, fanning out under a weighted semaphore. Cache hits make the
// common case cheap; a cold cache costs one bounded round per card.
func (s *DirectoryService) attachPlaces(ctx context.Context, cards []domain.BusinessCard) []ListingItem {
	items := make([]ListingItem, len(cards))
	sem := semaphore.NewWeighted(placeFanout)
	var wg sync.WaitGroup

	for i, c := range cards {
		items[i] = ListingItem{
			BusinessCard: c,
			Fill:         domain.FillPercent(c.Rating.Average),
			Place:        domain.PlaceResult{Status: domain.PlaceNone},
		}
		if c.PlaceID == "" {
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			break // context gone; remaining cards keep their "none" result
		}
		wg.Add(1)
		go func(i int, placeID string) {
			defer wg.Done()
			defer sem.Release(1)
			items[i].Place = s.PlaceSummary(ctx, placeID)
		}(i, c.PlaceID)
	}
	wg.Wait()
	return items
}

// sortByExternal orders by external rating desc, external review count
// desc, then name asc. Anything without a successful external result
// counts as zero.
func sortByExternal(items []ListingItem) {
	ext := func(it ListingItem) (float64, int) {
		if !it.Place.OK() {
			return 0, 0
		}
		return it.Place.Rating, it.Place.ReviewCount
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, ci := ext(items[i])
		rj, cj := ext(items[j])
		if ri != rj {
			return ri > rj
		}
		if ci != cj {
			return ci > cj
		}
		return items[i].Name < items[j].Name
	})
}

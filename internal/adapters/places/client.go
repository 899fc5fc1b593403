package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/cavanpasek/ouray-info/internal/adapters/observability"
	"github.com/cavanpasek/ouray-info/internal/domain"
)

// Client talks to the Google Place Details endpoint. Authentication is
// a key in the query string; the response is a JSON envelope with its
// own status field on top of the HTTP status.
type Client struct {
	base string
	key  string
	hc   *http.Client
	rl   *rate.Limiter
	now  func() time.Time
}

func New(base, key string, timeout time.Duration, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		key:  key,
		hc:   &http.Client{Timeout: timeout},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
		now:  time.Now,
	}
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		URL              string  `json:"url"`
		Reviews          []struct {
			Rating                  int    `json:"rating"`
			AuthorName              string `json:"author_name"`
			RelativeTimeDescription string `json:"relative_time_description"`
			Text                    string `json:"text"`
			AuthorURL               string `json:"author_url"`
		} `json:"reviews"`
	} `json:"result"`
}

// Details fetches a rating summary for one place. Failures never come
// back as errors: the result carries a classified status plus a bounded
// label, and an unconfigured client or empty ID yields PlaceNone.
func (c *Client) Details(ctx context.Context, placeID string) domain.PlaceResult {
	if placeID == "" || c.key == "" {
		return domain.PlaceResult{Status: domain.PlaceNone}
	}

	if err := c.rl.Wait(ctx); err != nil {
		return c.failure(domain.PlaceTransport, err.Error())
	}

	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("key", c.key)
	q.Set("fields", "rating,user_ratings_total,reviews,url")
	u := c.base + "/details/json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return c.failure(domain.PlaceUnknown, err.Error())
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		// network error, timeout, or canceled context
		observability.ObserveExternal("places", "transport_error", time.Since(start))
		return c.failure(domain.PlaceTransport, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.ObserveExternal("places", "http_error", time.Since(start))
		return c.failure(domain.PlaceUpstream, fmt.Sprintf("places API returned HTTP %d", resp.StatusCode))
	}

	var payload detailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		observability.ObserveExternal("places", "decode_error", time.Since(start))
		return c.failure(domain.PlaceMalformed, err.Error())
	}

	if payload.Status != "OK" {
		observability.ObserveExternal("places", "api_error", time.Since(start))
		label := payload.Status
		if payload.ErrorMessage != "" {
			label += ": " + payload.ErrorMessage
		}
		return c.failure(domain.PlaceUpstream, label)
	}

	observability.ObserveExternal("places", "ok", time.Since(start))
	out := domain.PlaceResult{
		Status:      domain.PlaceOK,
		Rating:      payload.Result.Rating,
		ReviewCount: payload.Result.UserRatingsTotal,
		MapURL:      payload.Result.URL,
		FetchedAt:   c.now(),
	}
	for _, rv := range payload.Result.Reviews {
		out.Reviews = append(out.Reviews, domain.PlaceReview{
			Rating:       rv.Rating,
			Author:       rv.AuthorName,
			RelativeTime: rv.RelativeTimeDescription,
			Text:         rv.Text,
			AuthorURL:    rv.AuthorURL,
		})
	}
	return out
}

func (c *Client) failure(status domain.PlaceStatus, label string) domain.PlaceResult {
	return domain.PlaceResult{
		Status:     status,
		ErrorLabel: domain.TruncateLabel(label),
		FetchedAt:  c.now(),
	}
}

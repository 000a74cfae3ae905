package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public storefront API.
const DefaultBaseURL = "https://store.steampowered.com/api"

// Client talks to the Steam storefront API. It is a pure I/O boundary:
// no state beyond the HTTP client and the detail-call rate limiter.
//
// The limiter paces AppDetails only. Search volume is bounded by the tag
// list, but detail calls scale with the number of new candidates and the
// unauthenticated tier throttles aggressively, so a fixed floor between
// successive detail calls is enforced.
type Client struct {
	BaseURL string
	Client  *http.Client

	limiter *rate.Limiter
}

// NewClient creates a storefront client enforcing detailInterval between
// successive AppDetails calls. A zero interval disables pacing (tests).
func NewClient(baseURL string, detailInterval time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if detailInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(detailInterval), 1)
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 12 * time.Second},
		limiter: limiter,
	}
}

// Search returns candidate stubs for a storefront search term. A response
// without an items array is an empty result, not an error.
func (s *Client) Search(ctx context.Context, term string) ([]Candidate, error) {
	return s.SearchPage(ctx, term, 0)
}

// SearchPage is Search with an explicit result page; page <= 0 omits the
// parameter.
func (s *Client) SearchPage(ctx context.Context, term string, page int) ([]Candidate, error) {
	u, err := url.Parse(s.BaseURL + "/storesearch/")
	if err != nil {
		return nil, fmt.Errorf("steam: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("term", term)
	q.Set("l", "english")
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	var out searchResponse
	if err := s.getJSON(ctx, u.String(), &out); err != nil {
		return nil, fmt.Errorf("steam: search %q: %w", term, err)
	}
	return out.Items, nil
}

// AppDetails fetches the full record for an app id. It returns (nil, nil)
// both when the storefront has no record and when the per-id success flag
// is false; either way the candidate is skipped this run and stays
// eligible for the next one.
func (s *Client) AppDetails(ctx context.Context, id string) (*DetailPayload, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("steam: rate limit wait: %w", err)
	}

	u, err := url.Parse(s.BaseURL + "/appdetails")
	if err != nil {
		return nil, fmt.Errorf("steam: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("appids", id)
	q.Set("l", "english")
	u.RawQuery = q.Encode()

	var out map[string]detailResult
	if err := s.getJSON(ctx, u.String(), &out); err != nil {
		return nil, fmt.Errorf("steam: appdetails %s: %w", id, err)
	}

	res, ok := out[id]
	if !ok || !res.Success || res.Data == nil {
		return nil, nil
	}
	return res.Data, nil
}

func (s *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

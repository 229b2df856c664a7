package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"spaces-community-backend/config"
	"spaces-community-backend/internal/apperr"
)

const spaceFields = "title,created_at,state,participant_count,host_ids,scheduled_start"

// SpacesView is the result of a spaces-by-creator lookup: the spaces plus the
// host expansion needed to resolve usernames.
type SpacesView struct {
	Spaces   []Space
	Includes *Includes
}

// SpaceView is the result of a single-space lookup.
type SpaceView struct {
	Space    *Space
	Includes *Includes
}

// Client talks to the Twitter v2 API. Every call is expected to be guarded by
// the rate limiter before it is issued.
type Client struct {
	baseURL string
	bearer  string
	client  *http.Client
}

// NewClient creates a Twitter API client from configuration.
func NewClient(cfg *config.TwitterConfig) *Client {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Twitter client will not use a proxy.", cfg.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	return &Client{
		baseURL: cfg.BaseURL,
		bearer:  cfg.BearerToken,
		client: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// UserByUsername resolves a username to its user record. Returns
// apperr.ErrNotFound when no such user exists.
func (c *Client) UserByUsername(ctx context.Context, username string) (*User, error) {
	endpoint := fmt.Sprintf("%s/2/users/by/username/%s", c.baseURL, url.PathEscape(username))

	var resp userResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("user %s: %w", username, apperr.ErrNotFound)
	}
	return resp.Data, nil
}

// SpacesByCreator fetches all spaces created by the given user id. An empty
// result is valid and not an error.
func (c *Client) SpacesByCreator(ctx context.Context, userID string) (*SpacesView, error) {
	q := url.Values{}
	q.Set("user_ids", userID)
	q.Set("space.fields", spaceFields)
	q.Set("expansions", "host_ids")
	q.Set("user.fields", "username")
	endpoint := fmt.Sprintf("%s/2/spaces/by/creator_ids?%s", c.baseURL, q.Encode())

	var resp spacesResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &SpacesView{Spaces: resp.Data, Includes: resp.Includes}, nil
}

// SpaceByID fetches a single space. Returns apperr.ErrNotFound when the space
// does not exist.
func (c *Client) SpaceByID(ctx context.Context, spaceID string) (*SpaceView, error) {
	q := url.Values{}
	q.Set("space.fields", spaceFields)
	q.Set("expansions", "host_ids")
	q.Set("user.fields", "username")
	endpoint := fmt.Sprintf("%s/2/spaces/%s?%s", c.baseURL, url.PathEscape(spaceID), q.Encode())

	var resp spaceResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("space %s: %w", spaceID, apperr.ErrNotFound)
	}
	return &SpaceView{Space: resp.Data, Includes: resp.Includes}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: twitter request failed: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return c.rateLimitError(resp)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: twitter returned status %d", apperr.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read twitter response: %v", apperr.ErrUpstream, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to unmarshal twitter response: %v", apperr.ErrUpstream, err)
	}
	return nil
}

// rateLimitError turns an upstream 429 into a RateLimitedError, reading the
// reset time from the x-rate-limit-reset header when present.
func (c *Client) rateLimitError(resp *http.Response) error {
	resetAt := time.Now().Add(15 * time.Minute)
	if v := resp.Header.Get("x-rate-limit-reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			resetAt = time.Unix(epoch, 0)
		}
	}
	return apperr.NewRateLimited(resetAt)
}

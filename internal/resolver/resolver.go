package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"spaces-community-backend/config"
	"spaces-community-backend/internal/apperr"
	"spaces-community-backend/internal/cache"
	"spaces-community-backend/internal/ratelimit"
	"spaces-community-backend/internal/store"
	"spaces-community-backend/internal/twitter"
)

const (
	defaultTitle = "Untitled Space"
	defaultHost  = "Unknown Host"
)

// LiveSpace is the cache-only view of a space served to page renders.
// LastUpdated is the time of the fetch that produced the value; a stale cache
// hit keeps the original fetch time, not the read time.
type LiveSpace struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	HostUsername     string     `json:"hostUsername"`
	IsLive           bool       `json:"isLive"`
	ParticipantCount int        `json:"participantCount"`
	ScheduledStart   *time.Time `json:"scheduledStart,omitempty"`
	LastUpdated      time.Time  `json:"lastUpdated"`
}

// TwitterAPI is the slice of the Twitter client the resolver needs.
type TwitterAPI interface {
	UserByUsername(ctx context.Context, username string) (*twitter.User, error)
	SpacesByCreator(ctx context.Context, userID string) (*twitter.SpacesView, error)
	SpaceByID(ctx context.Context, spaceID string) (*twitter.SpaceView, error)
}

// Resolver answers live/scheduled space lookups cache-first, falling back to
// the Twitter API under the rate limiter, and degrading to cached or stored
// data when the API is unavailable.
type Resolver struct {
	api     TwitterAPI
	cache   *cache.Cache
	limiter *ratelimit.Limiter
	store   store.Store

	spaceTTL     time.Duration
	userTTL      time.Duration
	hostUsername string
}

// New creates a Resolver.
func New(api TwitterAPI, c *cache.Cache, l *ratelimit.Limiter, s store.Store, cfg *config.Config) *Resolver {
	return &Resolver{
		api:          api,
		cache:        c,
		limiter:      l,
		store:        s,
		spaceTTL:     time.Duration(cfg.Cache.SpaceTTLSeconds) * time.Second,
		userTTL:      time.Duration(cfg.Cache.UserTTLHours) * time.Hour,
		hostUsername: cfg.Twitter.HostUsername,
	}
}

// LiveSpaces returns the currently-live spaces hosted by username. A fresh
// cache entry short-circuits without touching the API; an empty result is
// cached like any other.
func (r *Resolver) LiveSpaces(ctx context.Context, username string) ([]LiveSpace, error) {
	key := cache.LiveSpacesKey(username)

	var spaces []LiveSpace
	if ok, err := r.cache.GetFresh(ctx, key, &spaces); err != nil {
		log.Printf("Warning: cache read failed for %s: %v", key, err)
	} else if ok {
		return spaces, nil
	}

	userID, err := r.resolveUserID(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return r.staleLiveSpaces(ctx, key, err)
	}

	res, err := r.limiter.Acquire(ctx, ratelimit.CategorySpacesLookup, "twitter")
	if err != nil {
		return r.staleLiveSpaces(ctx, key, fmt.Errorf("%w: %v", apperr.ErrUpstream, err))
	}
	if !res.Allowed {
		return r.staleLiveSpaces(ctx, key, apperr.NewRateLimited(res.ResetAt))
	}

	view, err := r.api.SpacesByCreator(ctx, userID)
	if err != nil {
		return r.staleLiveSpaces(ctx, key, err)
	}

	now := time.Now().UTC()
	spaces = make([]LiveSpace, 0, len(view.Spaces))
	for _, s := range view.Spaces {
		if !s.IsLive() {
			continue
		}
		spaces = append(spaces, mapSpace(s, view.Includes, now))
	}

	if err := r.cache.Set(ctx, key, spaces, r.spaceTTL); err != nil {
		log.Printf("Warning: cache write failed for %s: %v", key, err)
	}
	return spaces, nil
}

// SpaceByID returns the current view of a single space. Falls back to a stale
// cache entry when the API is unavailable, and to a degraded store-backed
// view when there is no cache entry either.
func (r *Resolver) SpaceByID(ctx context.Context, spaceID string) (*LiveSpace, error) {
	key := cache.LiveSpaceKey(spaceID)

	var space LiveSpace
	if ok, err := r.cache.GetFresh(ctx, key, &space); err != nil {
		log.Printf("Warning: cache read failed for %s: %v", key, err)
	} else if ok {
		return &space, nil
	}

	res, err := r.limiter.Acquire(ctx, ratelimit.CategorySpacesLookup, "twitter")
	if err != nil {
		return r.degradedSpace(ctx, key, spaceID, fmt.Errorf("%w: %v", apperr.ErrUpstream, err))
	}
	if !res.Allowed {
		return r.degradedSpace(ctx, key, spaceID, apperr.NewRateLimited(res.ResetAt))
	}

	view, err := r.api.SpaceByID(ctx, spaceID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return r.degradedSpace(ctx, key, spaceID, err)
	}

	mapped := mapSpace(*view.Space, view.Includes, time.Now().UTC())
	if err := r.cache.Set(ctx, key, &mapped, r.spaceTTL); err != nil {
		log.Printf("Warning: cache write failed for %s: %v", key, err)
	}
	return &mapped, nil
}

// resolveUserID looks up the stable user id for a username, cached under its
// own budget since user ids effectively never change.
func (r *Resolver) resolveUserID(ctx context.Context, username string) (string, error) {
	key := cache.UserKey(username)

	var user twitter.User
	if ok, err := r.cache.GetFresh(ctx, key, &user); err != nil {
		log.Printf("Warning: cache read failed for %s: %v", key, err)
	} else if ok {
		return user.ID, nil
	}

	res, err := r.limiter.Acquire(ctx, ratelimit.CategoryUserLookup, "twitter")
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	if !res.Allowed {
		return "", apperr.NewRateLimited(res.ResetAt)
	}

	fetched, err := r.api.UserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if err := r.cache.Set(ctx, key, fetched, r.userTTL); err != nil {
		log.Printf("Warning: cache write failed for %s: %v", key, err)
	}
	return fetched.ID, nil
}

// staleLiveSpaces serves the last cached list for the key, however old, in
// preference to surfacing cause.
func (r *Resolver) staleLiveSpaces(ctx context.Context, key string, cause error) ([]LiveSpace, error) {
	var spaces []LiveSpace
	if ok, err := r.cache.GetStale(ctx, key, &spaces); err == nil && ok {
		log.Printf("Serving stale live spaces for %s: %v", key, cause)
		return spaces, nil
	}
	return nil, cause
}

// degradedSpace tries the stale cache entry first, then reconstructs a view
// from the persistent store. Liveness cannot be asserted without the API, so
// the store-backed view reports not-live with zero participants.
func (r *Resolver) degradedSpace(ctx context.Context, key, spaceID string, cause error) (*LiveSpace, error) {
	var space LiveSpace
	if ok, err := r.cache.GetStale(ctx, key, &space); err == nil && ok {
		log.Printf("Serving stale space %s: %v", spaceID, cause)
		return &space, nil
	}

	scheduled, err := r.store.GetScheduledSpace(ctx, spaceID)
	if err != nil {
		return nil, cause
	}
	log.Printf("Serving store-backed view of space %s: %v", spaceID, cause)
	start := scheduled.ScheduledFor
	return &LiveSpace{
		ID:               scheduled.ID,
		Title:            scheduled.Title,
		HostUsername:     r.hostUsername,
		IsLive:           false,
		ParticipantCount: 0,
		ScheduledStart:   &start,
		LastUpdated:      time.Now().UTC(),
	}, nil
}

func mapSpace(s twitter.Space, inc *twitter.Includes, fetchedAt time.Time) LiveSpace {
	title := s.Title
	if title == "" {
		title = defaultTitle
	}
	host := inc.HostUsername(s.HostIDs)
	if host == "" {
		host = defaultHost
	}
	start := s.ScheduledStart
	if start == nil {
		start = s.CreatedAt
	}
	return LiveSpace{
		ID:               s.ID,
		Title:            title,
		HostUsername:     host,
		IsLive:           s.IsLive(),
		ParticipantCount: s.ParticipantCount,
		ScheduledStart:   start,
		LastUpdated:      fetchedAt,
	}
}

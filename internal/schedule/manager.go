package schedule

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"spaces-community-backend/config"
	"spaces-community-backend/internal/apperr"
	"spaces-community-backend/internal/cache"
	"spaces-community-backend/internal/model"
	"spaces-community-backend/internal/store"
)

// CreateInput carries the admin-entered fields for a new scheduled space.
type CreateInput struct {
	Title        string    `json:"title" binding:"required"`
	ScheduledFor time.Time `json:"scheduledFor" binding:"required"`
	GuestSpeaker string    `json:"guestSpeaker"`
	Description  string    `json:"description" binding:"required"`
}

// Manager implements create/list for scheduled spaces, writing through the
// store and cache.
type Manager struct {
	store    store.Store
	cache    *cache.Cache
	spaceTTL time.Duration
	listTTL  time.Duration
}

// NewManager creates a Manager.
func NewManager(s store.Store, c *cache.Cache, cfg *config.Config) *Manager {
	return &Manager{
		store:    s,
		cache:    c,
		spaceTTL: time.Duration(cfg.Cache.SpaceTTLSeconds) * time.Second,
		listTTL:  time.Duration(cfg.Cache.ListTTLSeconds) * time.Second,
	}
}

// Create validates the input, persists the space and primes the cache. The
// cached list is dropped so the next read does not serve a stale list.
func (m *Manager) Create(ctx context.Context, input CreateInput, adminID string) (*model.ScheduledSpace, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperr.ErrBadRequest)
	}
	if input.Description == "" {
		return nil, fmt.Errorf("%w: description is required", apperr.ErrBadRequest)
	}
	if input.ScheduledFor.IsZero() {
		return nil, fmt.Errorf("%w: scheduledFor is required", apperr.ErrBadRequest)
	}

	space := &model.ScheduledSpace{
		ID:           fmt.Sprintf("space_%d", time.Now().UnixMilli()),
		Title:        input.Title,
		ScheduledFor: input.ScheduledFor.UTC(),
		GuestSpeaker: input.GuestSpeaker,
		Description:  input.Description,
		CreatedAt:    time.Now().UTC(),
		CreatedBy:    adminID,
	}

	if err := m.store.CreateScheduledSpace(ctx, space); err != nil {
		return nil, err
	}

	// Cache writes after the store write are best-effort; a brief window of
	// inconsistency between store and cache is accepted.
	if err := m.cache.Set(ctx, cache.SpaceKey(space.ID), space, m.spaceTTL); err != nil {
		log.Printf("Warning: failed to cache space %s: %v", space.ID, err)
	}
	if err := m.cache.AddToSet(ctx, cache.SpacesIndexKey, space.ID); err != nil {
		log.Printf("Warning: failed to index space %s: %v", space.ID, err)
	}
	if err := m.cache.Delete(ctx, cache.SpacesListKey); err != nil {
		log.Printf("Warning: failed to invalidate spaces list: %v", err)
	}

	return space, nil
}

// List returns all scheduled spaces ordered by start time, cache-aside with
// the list TTL. When the store read fails, the list is reassembled from the
// per-space cache entries indexed by the Redis set as a last resort.
func (m *Manager) List(ctx context.Context) ([]model.ScheduledSpace, error) {
	var spaces []model.ScheduledSpace
	if ok, err := m.cache.GetFresh(ctx, cache.SpacesListKey, &spaces); err != nil {
		log.Printf("Warning: cache read failed for spaces list: %v", err)
	} else if ok {
		return spaces, nil
	}

	spaces, err := m.store.ListScheduledSpaces(ctx)
	if err != nil {
		log.Printf("Store read failed, reassembling spaces list from cache: %v", err)
		return m.listFromCache(ctx, err)
	}

	if err := m.cache.Set(ctx, cache.SpacesListKey, spaces, m.listTTL); err != nil {
		log.Printf("Warning: failed to cache spaces list: %v", err)
	}
	return spaces, nil
}

func (m *Manager) listFromCache(ctx context.Context, cause error) ([]model.ScheduledSpace, error) {
	ids, err := m.cache.SetMembers(ctx, cache.SpacesIndexKey)
	if err != nil {
		return nil, cause
	}

	spaces := make([]model.ScheduledSpace, 0, len(ids))
	for _, id := range ids {
		var space model.ScheduledSpace
		ok, err := m.cache.GetStale(ctx, cache.SpaceKey(id), &space)
		if err != nil || !ok {
			continue
		}
		spaces = append(spaces, space)
	}
	if len(spaces) == 0 {
		return nil, cause
	}

	sort.Slice(spaces, func(i, j int) bool {
		return spaces[i].ScheduledFor.Before(spaces[j].ScheduledFor)
	})
	return spaces, nil
}

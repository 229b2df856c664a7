package twitter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spaces-community-backend/config"
	"spaces-community-backend/internal/apperr"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(&config.TwitterConfig{
		BearerToken:    "test-token",
		BaseURL:        server.URL,
		TimeoutSeconds: 5,
	})
	return client, server
}

func TestSpaceByID_ParsesSpaceAndHost(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/2/spaces/1kvKpbAmbnDJE", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": {"id": "1kvKpbAmbnDJE", "title": "Friday Gossip", "state": "live", "participant_count": 42, "host_ids": ["99"]},
			"includes": {"users": [{"id": "99", "name": "Host", "username": "brother_elkana"}]}
		}`))
	})
	defer server.Close()

	view, err := client.SpaceByID(context.Background(), "1kvKpbAmbnDJE")
	require.NoError(t, err)
	assert.Equal(t, "Friday Gossip", view.Space.Title)
	assert.True(t, view.Space.IsLive())
	assert.Equal(t, 42, view.Space.ParticipantCount)
	assert.Equal(t, "brother_elkana", view.Includes.HostUsername(view.Space.HostIDs))
}

func TestSpaceByID_MissingDataIsNotFound(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors": [{"title": "Not Found Error", "detail": "Could not find space"}]}`))
	})
	defer server.Close()

	_, err := client.SpaceByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUserByUsername_NotFound(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors": [{"title": "Not Found Error"}]}`))
	})
	defer server.Close()

	_, err := client.UserByUsername(context.Background(), "no_such_user")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestGet_UpstreamTooManyRequests(t *testing.T) {
	reset := time.Now().Add(10 * time.Minute).Unix()
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-rate-limit-reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer server.Close()

	_, err := client.SpaceByID(context.Background(), "x")
	rl, ok := apperr.IsRateLimited(err)
	require.True(t, ok, "a 429 must surface as a rate-limit error")
	assert.Equal(t, reset, rl.ResetAt.Unix())
}

func TestSpacesByCreator_EmptyResultIsValid(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/spaces/by/creator_ids", r.URL.Path)
		assert.Equal(t, "99", r.URL.Query().Get("user_ids"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"meta": {"result_count": 0}}`))
	})
	defer server.Close()

	view, err := client.SpacesByCreator(context.Background(), "99")
	require.NoError(t, err)
	assert.Empty(t, view.Spaces)
}

func TestGet_ServerErrorIsUpstreamFailure(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.SpaceByID(context.Background(), "x")
	assert.True(t, errors.Is(err, apperr.ErrUpstream))
}

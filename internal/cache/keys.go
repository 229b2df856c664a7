package cache

import "fmt"

// Key builders for the shared Redis namespace.
func SpaceKey(spaceID string) string      { return fmt.Sprintf("scheduled_space:%s", spaceID) }
func LiveSpacesKey(username string) string { return fmt.Sprintf("live_spaces:%s", username) }
func LiveSpaceKey(spaceID string) string  { return fmt.Sprintf("live_space:%s", spaceID) }
func UserKey(username string) string      { return fmt.Sprintf("twitter_user:%s", username) }

// SpacesListKey holds the cached ordered list of scheduled spaces.
const SpacesListKey = "scheduled_spaces_list"

// SpacesIndexKey is a Redis SET of scheduled space ids, kept alongside the
// per-space entries so the list can be reassembled when the store is down.
const SpacesIndexKey = "scheduled_spaces_index"

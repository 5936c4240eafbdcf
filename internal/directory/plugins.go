package directory

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchPlugins loads the names of plugins currently installed on the backend.
type FetchPlugins func(ctx context.Context) ([]string, error)

type pluginSnapshot struct {
	plugins   []string
	expiresAt time.Time
}

// PluginCache is a TTL cache of the backend's installed-plugin list. It
// follows the same snapshot-swap pattern as AppCache, with one difference:
// when a refresh fails but an earlier snapshot exists, the stale snapshot is
// served so a transient backend hiccup doesn't flip plugin-gated tool
// categories to forbidden mid-session.
type PluginCache struct {
	ttl   time.Duration
	now   func() time.Time
	snap  atomic.Pointer[pluginSnapshot]
	group singleflight.Group
}

// NewPluginCache creates an empty cache.
func NewPluginCache(ttl time.Duration) *PluginCache {
	return &PluginCache{ttl: ttl, now: time.Now}
}

// Installed returns the installed-plugin names, refreshing through fetch
// when the snapshot is missing or expired. The returned error is non-nil
// only when a refresh fails and there is no earlier snapshot to fall back
// on; the returned bool reports whether the result is stale.
func (c *PluginCache) Installed(ctx context.Context, fetch FetchPlugins) ([]string, bool, error) {
	snap := c.snap.Load()
	if snap != nil && c.now().Before(snap.expiresAt) {
		return snap.plugins, false, nil
	}

	_, err, _ := c.group.Do("plugins", func() (any, error) {
		plugins, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.snap.Store(&pluginSnapshot{
			plugins:   plugins,
			expiresAt: c.now().Add(c.ttl),
		})
		return nil, nil
	})
	if err != nil {
		if snap != nil {
			return snap.plugins, true, nil
		}
		return nil, false, fmt.Errorf("directory: refresh plugin list: %w", err)
	}

	return c.snap.Load().plugins, false, nil
}

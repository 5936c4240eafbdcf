package directory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchApps loads the current app list from the backend. The pipeline wires
// this to the request-scoped backend client.
type FetchApps func(ctx context.Context) ([]App, error)

// ErrMissingReference is returned by Resolve when the caller supplied
// neither an app ID nor an app name.
var ErrMissingReference = errors.New("either app_id or app_name is required")

// NotFoundError is returned when an app name has no exact match in the
// current snapshot. Known lists every cached app name so the caller can see
// what is actually available.
type NotFoundError struct {
	Name  string
	Known []string
}

func (e *NotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("no app named %q (no apps visible to this API key)", e.Name)
	}
	return fmt.Sprintf("no app named %q; known apps: %s", e.Name, strings.Join(e.Known, ", "))
}

type appSnapshot struct {
	apps      []App
	expiresAt time.Time
}

// AppCache is a TTL cache of the caller's app records. The zero value is not
// usable; construct with NewAppCache.
type AppCache struct {
	ttl   time.Duration
	now   func() time.Time
	snap  atomic.Pointer[appSnapshot]
	group singleflight.Group
}

// NewAppCache creates an empty cache. The first resolution populates it.
func NewAppCache(ttl time.Duration) *AppCache {
	return &AppCache{ttl: ttl, now: time.Now}
}

// Expired reports whether the cache needs a refresh before the next name
// lookup. An empty cache is expired.
func (c *AppCache) Expired() bool {
	snap := c.snap.Load()
	return snap == nil || c.now().After(snap.expiresAt)
}

// Refresh atomically replaces the snapshot and resets the shared expiry to
// now + TTL. The expiry is per-snapshot, not per-record.
func (c *AppCache) Refresh(apps []App) {
	c.snap.Store(&appSnapshot{
		apps:      apps,
		expiresAt: c.now().Add(c.ttl),
	})
}

// Apps returns the cached app list, possibly stale or nil. Callers must not
// mutate the returned slice.
func (c *AppCache) Apps() []App {
	if snap := c.snap.Load(); snap != nil {
		return snap.apps
	}
	return nil
}

// Resolve turns an app reference into a stable app ID.
//
// A non-empty appID is returned unchanged without a membership check — the
// caller asked for that app by ID and gets exactly it, with no round trip.
// Otherwise appName is matched exactly against the current snapshot,
// refreshing once via fetch if the snapshot is expired (a failed refresh is
// not retried within the same resolution). A name miss lists every known
// name; neither argument given is a usage error.
func (c *AppCache) Resolve(ctx context.Context, fetch FetchApps, appID, appName string) (string, error) {
	if appID != "" {
		return appID, nil
	}
	if appName == "" {
		return "", ErrMissingReference
	}

	if c.Expired() {
		if err := c.refresh(ctx, fetch); err != nil {
			return "", fmt.Errorf("directory: refresh app list: %w", err)
		}
	}

	apps := c.Apps()
	for _, app := range apps {
		if app.Name == appName {
			return app.ID, nil
		}
	}

	known := make([]string, 0, len(apps))
	for _, app := range apps {
		known = append(known, app.Name)
	}
	sort.Strings(known)
	return "", &NotFoundError{Name: appName, Known: known}
}

// refresh fetches and installs a new snapshot, collapsing concurrent
// refreshes into one backend call.
func (c *AppCache) refresh(ctx context.Context, fetch FetchApps) error {
	_, err, _ := c.group.Do("apps", func() (any, error) {
		apps, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.Refresh(apps)
		return nil, nil
	})
	return err
}

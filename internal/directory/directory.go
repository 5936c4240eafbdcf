// Package directory caches slow-moving facts about the analytics backend:
// the caller's app (tenant) list and the set of installed plugins.
//
// Both caches hold one immutable snapshot with a single shared expiry
// timestamp. Readers see either the whole old snapshot or the whole new one
// (atomic.Pointer swap); concurrent refreshes are collapsed with
// singleflight, though overlapping refreshes would also be harmless since a
// refresh is an idempotent overwrite.
package directory

import (
	"time"
)

// App is one tenant workspace on the analytics backend. ID is the stable
// identifier; Name is a display name the backend does not guarantee to be
// unique, but name lookup treats it as such.
type App struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"created_at"`
	Timezone  string    `json:"timezone"`
	Category  string    `json:"category,omitempty"`
}

// Package ids issues the identifiers used as primary keys across the
// filing, consent, delegation, evidence and audit tables.
package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a ULID: lexicographically sortable, safe to embed in URNs
// and storage paths.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID stamped with the given time. Exposed so tests can
// produce identifiers with a known ordering.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

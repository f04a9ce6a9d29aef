package cache

import "time"

// State is the freshness of the cache slot at the time Status was read.
type State int

const (
	StateEmpty State = iota
	StateFresh
	StateStale
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	default:
		return "empty"
	}
}

// Status is a point-in-time read of the slot. Age, FetchedAt and Digest are
// only meaningful when Cached is true.
type Status struct {
	Cached    bool
	State     State
	Age       time.Duration
	TTL       time.Duration
	FetchedAt time.Time
	Digest    string
}

// Remaining is TTL minus Age. It goes negative once the entry is stale.
func (s Status) Remaining() time.Duration {
	return s.TTL - s.Age
}

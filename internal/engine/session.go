package engine

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// loadCounter numbers dataset loads across all engines
var loadCounter uint64

// Session is the lifetime of one loaded dataset. Filter, sort and page
// state belong to it and start over with every load.
type Session struct {
	ID       string    // Unique session identifier
	Load     uint64    // Sequence number of the load that opened it
	Source   string    // Where the dataset came from (path or "memory")
	LoadedAt time.Time // When the dataset was loaded
}

func newSession(source string) Session {
	return Session{
		ID:       uuid.New().String(),
		Load:     atomic.AddUint64(&loadCounter, 1),
		Source:   source,
		LoadedAt: time.Now(),
	}
}

package xid

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// StampLayout is the MMDDYYYYHHMMSS form used for cart and debt ids.
const StampLayout = "01022006150405"

// Stamp formats t in its own location.
func Stamp(t time.Time) string {
	return t.Format(StampLayout)
}

// Sequence hands out millisecond timestamps as numeric record ids. Two calls
// within the same millisecond still get distinct, increasing values.
type Sequence struct {
	mu   sync.Mutex
	last int64
}

func (s *Sequence) Next(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := now.UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

func RequestID() string {
	return uuid.NewString()
}

package internal

import (
	stdnet "net"
	"sync/atomic"
	"time"

	"github.com/bytepowered/cache"
)

// SourceTracker 以来源IP为键统计活跃连接数，超过上限的连接在派发前被拒绝。
// Counters live in an LRU cache with an idle TTL, so the cap is
// best-effort: an evicted counter restarts at zero.
type SourceTracker struct {
	limit  int
	cached cache.Cache
}

func NewSourceTracker(limit int) *SourceTracker {
	return NewSourceTrackerWith(limit, 4096, 10*time.Minute)
}

func NewSourceTrackerWith(limit int, size int, ttl time.Duration) *SourceTracker {
	return &SourceTracker{
		limit: limit,
		cached: cache.New(size).
			LRU().
			Expiration(ttl).
			Build(),
	}
}

// Acquire reserves a slot for the source, false when the cap is reached.
func (s *SourceTracker) Acquire(addr stdnet.Addr) bool {
	counter := s.counterOf(addr)
	if int(counter.Add(1)) > s.limit {
		counter.Add(-1)
		return false
	}
	return true
}

func (s *SourceTracker) Release(addr stdnet.Addr) {
	s.counterOf(addr).Add(-1)
}

func (s *SourceTracker) counterOf(addr stdnet.Addr) *atomic.Int32 {
	v, err := s.cached.GetOrLoad(sourceKey(addr), func(_ interface{}) (cache.Expirable, error) {
		return cache.NewDefault(&atomic.Int32{}), nil
	})
	if err != nil {
		// fail open
		return &atomic.Int32{}
	}
	return v.(*atomic.Int32)
}

func sourceKey(addr stdnet.Addr) string {
	if tcpAddr, ok := addr.(*stdnet.TCPAddr); ok {
		return tcpAddr.IP.String()
	}
	host, _, err := stdnet.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

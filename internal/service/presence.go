package service

import (
	"github.com/netigo/netigo-go/internal/infra/observability"
	"github.com/netigo/netigo-go/internal/port"
)

// PresenceTracker marks users online for a short TTL; a user whose entry
// has expired is considered offline. Backed by the in-memory TTL cache, so
// presence is process-local and resets on restart, like the version counter.
type PresenceTracker struct {
	seen    port.Cache[struct{}]
	metrics *observability.Metrics
}

// NewPresenceTracker creates a presence tracker over the given cache.
func NewPresenceTracker(seen port.Cache[struct{}], metrics *observability.Metrics) *PresenceTracker {
	return &PresenceTracker{seen: seen, metrics: metrics}
}

// MarkOnline refreshes a user's online window.
func (p *PresenceTracker) MarkOnline(username string) {
	p.seen.Set(username, struct{}{})
	p.metrics.SetOnlineUsers(len(p.seen.Keys()))
}

// Online lists the users currently online, sorted.
func (p *PresenceTracker) Online() []string {
	keys := p.seen.Keys()
	p.metrics.SetOnlineUsers(len(keys))
	return keys
}

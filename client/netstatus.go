package client

import (
	"sync"
	"time"
)

// NetworkStatus records whether the backend was recently unreachable. The
// signal stays active only for a bounded window; older signals are stale and
// read as cleared even when never explicitly removed. UI banners poll
// Active(); user dismissal calls Clear().
type NetworkStatus struct {
	mu     sync.Mutex
	at     time.Time
	target string
	window time.Duration
	now    func() time.Time
}

func newNetworkStatus(window time.Duration) *NetworkStatus {
	return &NetworkStatus{window: window, now: time.Now}
}

// Set records a connectivity failure against the given base URL.
func (n *NetworkStatus) Set(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.at = n.now()
	n.target = target
}

func (n *NetworkStatus) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.at = time.Time{}
	n.target = ""
}

// Active reports whether a failure was recorded within the window.
func (n *NetworkStatus) Active() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.at.IsZero() {
		return false
	}
	return n.now().Sub(n.at) < n.window
}

// Last returns the most recent failure time and target, zero when none.
func (n *NetworkStatus) Last() (time.Time, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.at, n.target
}

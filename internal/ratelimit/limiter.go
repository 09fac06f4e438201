// Package ratelimit provides per-IP connection and request throttling for
// the v8 game server, ahead of anything touching the cryptographic session
// core.
package ratelimit

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter provides per-IP request rate limiting, keyed on the remote
// address so one misbehaving client cannot starve the handshake queue for
// everyone else.
type RateLimiter struct {
	limiters    map[string]*rate.Limiter
	mu          sync.RWMutex
	rateLimit   rate.Limit
	burstLimit  int
	cleanupTick time.Duration
}

// NewRateLimiter creates a rate limiter. ratePerSecond is the sustained rate
// and burst the allowed burst size, both applied per source IP.
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters:    make(map[string]*rate.Limiter),
		rateLimit:   rate.Limit(ratePerSecond),
		burstLimit:  burst,
		cleanupTick: 5 * time.Minute,
	}

	go rl.cleanup()

	return rl
}

// Allow reports whether a request from ip may proceed now.
func (rl *RateLimiter) Allow(ip string) bool {
	limiter := rl.getLimiter(ip)
	return limiter.Allow()
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[ip]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists = rl.limiters[ip]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rl.rateLimit, rl.burstLimit)
	rl.limiters[ip] = limiter
	return limiter
}

// cleanup periodically drops the whole limiter table once it grows large,
// trading a round of re-warmed limits for bounded memory use.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		if len(rl.limiters) > 10000 {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		rl.mu.Unlock()
	}
}

// ExtractIP extracts the host portion of a net.Conn.RemoteAddr string,
// falling back to the address verbatim if it carries no port.
func ExtractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// ConnectionLimiter bounds the number of concurrent TCP connections accepted
// per source IP, independent of request rate.
type ConnectionLimiter struct {
	connections map[string]int
	mu          sync.RWMutex
	maxPerIP    int
}

// NewConnectionLimiter creates a connection limiter admitting at most
// maxPerIP simultaneous connections from any one IP.
func NewConnectionLimiter(maxPerIP int) *ConnectionLimiter {
	return &ConnectionLimiter{
		connections: make(map[string]int),
		maxPerIP:    maxPerIP,
	}
}

// Acquire attempts to reserve a connection slot for ip, returning false if
// the per-IP limit is already reached.
func (cl *ConnectionLimiter) Acquire(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	current := cl.connections[ip]
	if current >= cl.maxPerIP {
		return false
	}

	cl.connections[ip] = current + 1
	return true
}

// Release frees a connection slot previously reserved by Acquire.
func (cl *ConnectionLimiter) Release(ip string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if current := cl.connections[ip]; current > 0 {
		cl.connections[ip] = current - 1
		if cl.connections[ip] == 0 {
			delete(cl.connections, ip)
		}
	}
}

// Count returns the number of connections currently held open by ip.
func (cl *ConnectionLimiter) Count(ip string) int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return cl.connections[ip]
}

// TotalConnections returns the number of connections held open across all
// IPs, for metrics reporting.
func (cl *ConnectionLimiter) TotalConnections() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	total := 0
	for _, count := range cl.connections {
		total += count
	}
	return total
}

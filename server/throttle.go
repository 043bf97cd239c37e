package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedClients caps the failed-attempts table, idle entries are pruned past it
const maxTrackedClients = 10000

// failedAttempts throttles requests with a wrong token, separately for each client address.
// A client over its budget gets 429 without affecting anybody else.
type failedAttempts struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*rate.Limiter
}

func newFailedAttempts(perMinute int) *failedAttempts {
	return &failedAttempts{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		clients: make(map[string]*rate.Limiter),
	}
}

// allow records a failed attempt from addr and reports whether it is still within the budget
func (f *failedAttempts) allow(addr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	lim, ok := f.clients[addr]
	if !ok {
		if len(f.clients) >= maxTrackedClients {
			f.prune(time.Now())
		}
		lim = rate.NewLimiter(f.limit, f.burst)
		f.clients[addr] = lim
	}
	return lim.Allow()
}

// prune drops clients whose budget refilled completely, they are indistinguishable from new ones
func (f *failedAttempts) prune(now time.Time) {
	for addr, lim := range f.clients {
		if lim.TokensAt(now) >= float64(f.burst) {
			delete(f.clients, addr)
		}
	}
}

package ratelimit

import "sync"

// Registry hands out one shared Limiter per account profile. Every
// submission for a profile goes through the same limiter, regardless of
// which worker issues it.
type Registry struct {
	mu       sync.Mutex
	cfg      Config
	limiters map[string]*Limiter
}

// NewRegistry creates a registry whose limiters all use cfg.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg,
		limiters: make(map[string]*Limiter),
	}
}

// For returns the limiter for the given profile, creating it on first use.
func (r *Registry) For(profileID string) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.limiters[profileID]; ok {
		return l
	}

	l := New(r.cfg)
	r.limiters[profileID] = l
	return l
}

// Stop shuts down every limiter in the registry.
func (r *Registry) Stop() {
	r.mu.Lock()
	limiters := make([]*Limiter, 0, len(r.limiters))
	for _, l := range r.limiters {
		limiters = append(limiters, l)
	}
	r.limiters = make(map[string]*Limiter)
	r.mu.Unlock()

	for _, l := range limiters {
		l.Stop()
	}
}

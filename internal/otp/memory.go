package otp

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	code    string
	expires time.Time
}

// MemoryRegistry is a process-local Registry for tests and single-instance dev runs.
type MemoryRegistry struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewMemoryRegistry builds an in-memory registry whose codes live for ttl.
func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	return &MemoryRegistry{ttl: ttl, now: time.Now, entries: make(map[string]entry)}
}

func (r *MemoryRegistry) Issue(_ context.Context, phone, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[phone] = entry{code: code, expires: r.now().Add(r.ttl)}
	return nil
}

func (r *MemoryRegistry) Consume(_ context.Context, phone, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[phone]
	if !ok {
		return ErrInvalidCode
	}
	if !r.now().Before(e.expires) {
		delete(r.entries, phone)
		return ErrInvalidCode
	}
	if e.code != code {
		return ErrInvalidCode
	}
	delete(r.entries, phone)
	return nil
}

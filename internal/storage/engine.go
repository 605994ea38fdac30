package storage

import (
	"sync"
	"time"
)

// Engine is an in-memory key-value store with lazy expiration.
// Expired entries stay in the map until the key is written again.
type Engine struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// expired reports whether the entry is past its expiry at now. An entry is
// still live at the exact instant it expires.
func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces the wall clock used to compute and check expiry
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a new Engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		data: make(map[string]entry),
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Get gets a value from the engine. It never modifies the engine, expired
// entries included.
func (e *Engine) Get(key string) (string, bool) {
	e.mu.RLock()
	el, exists := e.data[key]
	e.mu.RUnlock()

	if !exists || el.expired(e.now()) {
		return "", false
	}

	return el.value, true
}

// Set sets a key-value pair that never expires, discarding any previous expiry
func (e *Engine) Set(key, value string) {
	e.mu.Lock()
	e.data[key] = entry{value: value}
	e.mu.Unlock()
}

// SetWithTTL sets a key-value pair that expires ttl after now
func (e *Engine) SetWithTTL(key, value string, ttl time.Duration) {
	e.mu.Lock()
	e.data[key] = entry{value: value, expiresAt: e.now().Add(ttl)}
	e.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.data)
}

package storage

import "time"

// Storage is an interface that defines the storage operations
type Storage interface {
	// Get returns the value of a key that is present and not expired
	Get(key string) (string, bool)
	// Set sets a key-value pair that never expires
	Set(key, value string)
	// SetWithTTL sets a key-value pair that expires ttl after the write
	SetWithTTL(key, value string, ttl time.Duration)
}

package cache

import "time"

// BytesCache stores serialized API responses with a TTL. Handlers cache the
// marshaled payload rather than domain values so a hit skips encoding too.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}

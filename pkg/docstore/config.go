package docstore

import "time"

// RedisOption configures the Redis document store.
type RedisOption func(*RedisConfig)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	PoolTimeout  time.Duration
	MinIdleConns int
	Prefix       string
	DefaultLimit int
}

// WithRedisHost sets the Redis host.
func WithRedisHost(host string) RedisOption {
	return func(c *RedisConfig) {
		c.Host = host
	}
}

// WithRedisPort sets the Redis port.
func WithRedisPort(port int) RedisOption {
	return func(c *RedisConfig) {
		c.Port = port
	}
}

// WithRedisPassword sets the Redis password.
func WithRedisPassword(password string) RedisOption {
	return func(c *RedisConfig) {
		c.Password = password
	}
}

// WithRedisDB sets the Redis database number.
func WithRedisDB(db int) RedisOption {
	return func(c *RedisConfig) {
		c.DB = db
	}
}

// WithRedisPool sets connection pool settings.
func WithRedisPool(poolSize, minIdleConns int, timeout time.Duration) RedisOption {
	return func(c *RedisConfig) {
		c.PoolSize = poolSize
		c.MinIdleConns = minIdleConns
		c.PoolTimeout = timeout
	}
}

// WithRedisPrefix sets the key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(c *RedisConfig) {
		c.Prefix = prefix
	}
}

// WithDefaultLimit sets the listing limit applied when a query has none.
func WithDefaultLimit(n int) RedisOption {
	return func(c *RedisConfig) {
		c.DefaultLimit = n
	}
}

// MemoryOption configures the in-memory store.
type MemoryOption func(*MemoryConfig)

// MemoryConfig holds in-memory store settings.
type MemoryConfig struct {
	DefaultLimit int
}

// WithMemoryDefaultLimit sets the listing limit applied when a query has none.
func WithMemoryDefaultLimit(n int) MemoryOption {
	return func(c *MemoryConfig) {
		c.DefaultLimit = n
	}
}

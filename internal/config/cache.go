package config

import "time"

// CacheConfig defines settings for the ledger's GET response cache.  When
// Enabled is false or no Redis client is available, caching is disabled and
// requests pass straight through.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads cache settings from the environment.  The default
// TTL is short: event availability changes with every reservation and stale
// reads only affect the advisory pre-check, never the atomic update.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 2*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "cache"),
	}
}

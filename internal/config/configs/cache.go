package configs

import "time"

// Cache selects the cache backend and the TTL of each cached resource.
// The memory backend lives as long as the process; the redis backend lets
// consecutive CLI runs share cached responses.
type Cache struct {
	Backend      string        `env:"BACKEND" envDefault:"memory"`
	ListTTL      time.Duration `env:"LIST_TTL" envDefault:"5m"`
	RuleTypesTTL time.Duration `env:"RULE_TYPES_TTL" envDefault:"10m"`
	TenantTTL    time.Duration `env:"TENANT_TTL" envDefault:"5m"`
	StatsTTL     time.Duration `env:"STATS_TTL" envDefault:"5m"`
	IdentityTTL  time.Duration `env:"IDENTITY_TTL" envDefault:"30m"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"mesa-admin:"`
}

// UseRedis reports whether the redis backend is selected.
func (c Cache) UseRedis() bool {
	return c.Backend == "redis"
}

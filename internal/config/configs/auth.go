package configs

import "time"

// Auth configures API key signing on the devserver. BootstrapEmail, when
// set, gets an owner key printed to the log at startup so a fresh server
// can be logged into.
type Auth struct {
	Secret          string        `env:"SECRET" envDefault:"dev-secret-change-me"`
	Tenant          string        `env:"TENANT" envDefault:"demo"`
	BootstrapEmail  string        `env:"BOOTSTRAP_EMAIL"`
	BootstrapKeyTTL time.Duration `env:"BOOTSTRAP_KEY_TTL" envDefault:"720h"`
}

package configs

import "time"

// API points the client at the backend.
type API struct {
	URL     string        `env:"URL" envDefault:"http://localhost:8080"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
	// Key overrides the stored session key for one invocation.
	Key string `env:"KEY"`
}

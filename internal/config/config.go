package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"mesa-admin/internal/config/configs"
)

// Client is the configuration of adminctl. Sections are read from
// environment variables under their envPrefix.
type Client struct {
	API     configs.API     `envPrefix:"API_"`
	Cache   configs.Cache   `envPrefix:"CACHE_"`
	Session configs.Session `envPrefix:"SESSION_"`
	// The CLI writes results to stdout, so it logs to stderr and only at
	// warn unless LOG_LEVEL says otherwise.
	Log configs.Logger `envPrefix:"LOG_"`
}

// Server is the configuration of the development backend.
type Server struct {
	// Env names the deployment environment (e.g. dev, ci).
	Env string `env:"ENV" envDefault:"dev"`

	HTTP configs.HTTP     `envPrefix:"HTTP_"`
	Log  configs.Logger   `envPrefix:"LOG_"`
	Psql configs.Postgres `envPrefix:"PSQL_"`
	Auth configs.Auth     `envPrefix:"AUTH_"`
	Jobs configs.Jobs     `envPrefix:"JOBS_"`
}

// LoadClient reads the client configuration. A .env file in the working
// directory is applied first; variables already set win.
func LoadClient() (Client, error) {
	var cfg Client
	err := load(&cfg)
	return cfg, err
}

// LoadServer reads the devserver configuration.
func LoadServer() (Server, error) {
	var cfg Server
	err := load(&cfg)
	return cfg, err
}

func load(cfg any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return env.Parse(cfg)
}

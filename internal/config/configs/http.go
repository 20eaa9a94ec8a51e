package configs

// HTTP configures the devserver listener.
type HTTP struct {
	// Port is the TCP port the server listens on. Defaults to 8080.
	Port uint16 `env:"PORT" envDefault:"8080"`
	// Host restricts the listener to one interface; empty listens on all.
	Host string `env:"HOST"`
}

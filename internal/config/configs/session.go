package configs

// Session locates the stored session. An empty File uses the default under
// the user's config directory.
type Session struct {
	File string `env:"FILE"`
}

package configs

// Jobs schedules the devserver's background jobs in cron syntax.
type Jobs struct {
	CompleteSpec string `env:"COMPLETE_SPEC" envDefault:"@every 1m"`
}

// Package cli implements the adminctl subcommands on top of the resource
// services and the session manager.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"mesa-admin/internal/adapter/usecase"
	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/session"
)

// ErrUsage reports a malformed command line. The usage text has already
// been printed.
var ErrUsage = errors.New("usage error")

// App runs one adminctl command line.
type App struct {
	svc     *usecase.Services
	session *session.Manager
	out     io.Writer
	errOut  io.Writer
	logger  *slog.Logger
	now     func() time.Time
	// apiKey overrides the stored session key for this run.
	apiKey string
}

// Option configures an App.
type Option func(*App)

// WithOutput redirects standard and error output.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
	}
}

// WithAPIKey authenticates with a fixed key instead of the saved session.
func WithAPIKey(key string) Option {
	return func(a *App) { a.apiKey = key }
}

// WithClock overrides the clock used for stats windows.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// New builds the command tree over the given services.
func New(svc *usecase.Services, sess *session.Manager, logger *slog.Logger, opts ...Option) *App {
	a := &App{
		svc:     svc,
		session: sess,
		out:     io.Discard,
		errOut:  io.Discard,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// handler runs a command with the arguments after its name.
type handler func(ctx context.Context, args []string) error

type command struct {
	summary string
	// public commands run without a session.
	public bool
	run    handler
	sub    map[string]command
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"login":     {summary: "store an API key after validating it", public: true, run: a.login},
		"logout":    {summary: "forget the stored API key", public: true, run: a.logout},
		"whoami":    {summary: "show the logged in identity", run: a.whoami},
		"dashboard": {summary: "active counts, sync state and last 7 days", run: a.dashboard},
		"campaigns": {summary: "manage campaigns", sub: map[string]command{
			"list":    {summary: "list campaigns", run: a.campaignsList},
			"get":     {summary: "show a campaign with its targeting and payouts", run: a.campaignsGet},
			"create":  {summary: "create a campaign", run: a.campaignsCreate},
			"update":  {summary: "edit a campaign", run: a.campaignsUpdate},
			"pause":   {summary: "pause a campaign", run: a.campaignsSetStatus(domain.CampaignPaused)},
			"resume":  {summary: "resume a paused campaign", run: a.campaignsSetStatus(domain.CampaignActive)},
			"delete":  {summary: "delete a campaign", run: a.campaignsDelete},
			"rules":   {summary: "list targeting rules", run: a.campaignsRules},
			"payouts": {summary: "list payout rules", run: a.campaignsPayouts},
		}},
		"zones": {summary: "manage publisher zones", sub: map[string]command{
			"list":   {summary: "list zones", run: a.zonesList},
			"get":    {summary: "show a zone", run: a.zonesGet},
			"create": {summary: "create a zone", run: a.zonesCreate},
			"update": {summary: "edit a zone", run: a.zonesUpdate},
			"delete": {summary: "delete an inactive zone", run: a.zonesDelete},
		}},
		"stats": {summary: "delivery statistics", run: a.stats},
		"conversions": {summary: "list or export conversions", sub: map[string]command{
			"list":   {summary: "list conversions", run: a.conversionsList},
			"export": {summary: "export conversions to xlsx", run: a.conversionsExport},
		}},
		"keys": {summary: "manage team API keys", sub: map[string]command{
			"list":   {summary: "list API keys", run: a.keysList},
			"create": {summary: "issue an API key", run: a.keysCreate},
			"revoke": {summary: "revoke an API key", run: a.keysRevoke},
		}},
		"tenant": {summary: "tenant branding and timezone", sub: map[string]command{
			"get":    {summary: "show tenant settings", run: a.tenantGet},
			"set":    {summary: "change tenant settings", run: a.tenantSet},
			"public": {summary: "show public branding", public: true, run: a.tenantPublic},
		}},
		"sync": {summary: "edge sync", sub: map[string]command{
			"state":    {summary: "show sync state", run: a.syncState},
			"campaign": {summary: "push a campaign", run: a.syncCampaign},
			"zone":     {summary: "push a zone", run: a.syncZone},
		}},
	}
}

// Run executes args, e.g. ["campaigns", "list", "--status", "active"].
func (a *App) Run(ctx context.Context, args []string) error {
	cmds := a.commands()
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage("adminctl", cmds)
		if len(args) == 0 {
			return ErrUsage
		}
		return nil
	}

	name := args[0]
	cmd, ok := cmds[name]
	if !ok {
		fmt.Fprintf(a.errOut, "unknown command %q\n", name)
		a.usage("adminctl", cmds)
		return ErrUsage
	}
	args = args[1:]
	if cmd.sub != nil {
		if len(args) == 0 {
			a.usage("adminctl "+name, cmd.sub)
			return ErrUsage
		}
		sub, ok := cmd.sub[args[0]]
		if !ok {
			fmt.Fprintf(a.errOut, "unknown command %q\n", name+" "+args[0])
			a.usage("adminctl "+name, cmd.sub)
			return ErrUsage
		}
		cmd, args = sub, args[1:]
	}

	if !cmd.public {
		if _, err := a.session.Restore(ctx, a.apiKey); err != nil {
			return err
		}
	}
	if err := cmd.run(ctx, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return a.session.HandleError(ctx, err)
	}
	return nil
}

func (a *App) usage(prefix string, cmds map[string]command) {
	names := make([]string, 0, len(cmds))
	for n := range cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Fprintf(a.errOut, "usage: %s <command> [flags]\n\ncommands:\n", prefix)
	tw := newTable(a.errOut)
	for _, n := range names {
		tw.row("  "+n, cmds[n].summary)
	}
	tw.flush()
}

// flags returns a flag set that reports errors on the error output.
func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// parse parses args and returns the positional arguments, requiring exactly
// want of them. want < 0 accepts any number.
func (a *App) parse(fs *flag.FlagSet, args []string, want int, names ...string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, ErrUsage
	}
	rest := fs.Args()
	if want >= 0 && len(rest) != want {
		fmt.Fprintf(a.errOut, "usage: %s %s [flags]\n", fs.Name(), strings.Join(names, " "))
		fs.PrintDefaults()
		return nil, ErrUsage
	}
	return rest, nil
}

// location is the tenant's timezone, falling back to UTC.
func (a *App) location(ctx context.Context) *time.Location {
	t, err := a.session.Tenant(ctx)
	if err != nil || t.Timezone == "" {
		if err != nil {
			a.logger.Warn("tenant settings unavailable, using UTC", slog.Any("error", err))
		}
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		a.logger.Warn("unknown tenant timezone, using UTC", slog.String("timezone", t.Timezone))
		return time.UTC
	}
	return loc
}

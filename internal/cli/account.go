package cli

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"mesa-admin/internal/core/domain"
)

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	key := fs.String("key", a.apiKey, "API key to log in with")
	if _, err := a.parse(fs, args, -1); err != nil {
		return err
	}
	if *key == "" && fs.NArg() == 1 {
		*key = fs.Arg(0)
	}
	id, err := a.session.Login(ctx, *key)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s) on %s\n", id.Email, id.Role, id.Namespace)
	return nil
}

func (a *App) logout(ctx context.Context, args []string) error {
	if _, err := a.parse(a.flags("logout"), args, 0); err != nil {
		return err
	}
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) whoami(ctx context.Context, args []string) error {
	if _, err := a.parse(a.flags("whoami"), args, 0); err != nil {
		return err
	}
	id, err := a.session.Require()
	if err != nil {
		return err
	}
	t := newTable(a.out)
	t.row("Email", id.Email)
	t.row("Role", id.Role)
	t.row("Tenant", id.Namespace)
	if len(id.Permissions) > 0 {
		t.row("Permissions", strings.Join(id.Permissions, ", "))
	}
	if s, err := a.session.Tenant(ctx); err == nil {
		t.row("Company", s.CompanyName)
		t.row("Timezone", s.Timezone)
	}
	t.flush()
	return nil
}

func (a *App) keysList(ctx context.Context, args []string) error {
	if _, err := a.parse(a.flags("keys list"), args, 0); err != nil {
		return err
	}
	keys, err := a.svc.Users.Keys(ctx)
	if err != nil {
		return err
	}
	loc := a.location(ctx)
	now := a.now()
	t := newTable(a.out)
	t.row("EMAIL", "ROLE", "CREATED", "EXPIRES", "STATUS", "TOKEN")
	for _, k := range keys {
		status := "active"
		if k.Revoked(now) {
			status = "revoked"
		}
		t.row(k.Email, k.Role, formatEpoch(k.CreatedAt, loc), formatEpochPtr(k.ExpiresAt, loc), status, k.Token)
	}
	t.flush()
	return nil
}

func (a *App) keysCreate(ctx context.Context, args []string) error {
	fs := a.flags("keys create")
	email := fs.String("email", "", "team member email")
	role := fs.String("role", string(domain.RolePublisher), "owner, manager, publisher or advertiser")
	var perms listValue
	fs.Var(&perms, "perms", "comma separated permissions")
	expires := fs.String("expires", "", "expiry date; empty never expires")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}

	in := domain.APIKeyInput{Email: *email, Role: domain.Role(*role), Permissions: perms}
	if *expires != "" {
		at, err := parseTime(*expires, a.location(ctx))
		if err != nil {
			return domain.NewError(domain.KindValidation, err.Error(), err)
		}
		in.ExpiresAt = domain.MillisPtr(at)
	}
	key, err := a.svc.Users.CreateKey(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s key for %s\n%s\n", key.Role, key.Email, key.Token)
	return nil
}

func (a *App) keysRevoke(ctx context.Context, args []string) error {
	rest, err := a.parse(a.flags("keys revoke"), args, 1, "<token>")
	if err != nil {
		return err
	}
	if err = a.svc.Users.RevokeKey(ctx, rest[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Key revoked")
	return nil
}

func (a *App) tenantGet(ctx context.Context, args []string) error {
	fs := a.flags("tenant get")
	fresh := fs.Bool("fresh", false, "bypass the cache")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}
	s, err := a.svc.Tenant.Get(ctx, *fresh)
	if err != nil {
		return err
	}
	t := newTable(a.out)
	t.row("Company", s.CompanyName)
	t.row("Timezone", s.Timezone)
	t.row("Primary color", s.PrimaryColor)
	t.row("Secondary color", s.SecondaryColor)
	t.flush()
	return nil
}

// tenantSet changes only the settings whose flags were given.
func (a *App) tenantSet(ctx context.Context, args []string) error {
	fs := a.flags("tenant set")
	company := fs.String("company", "", "company name")
	tz := fs.String("timezone", "", "IANA timezone, e.g. Europe/Berlin")
	primary := fs.String("primary", "", "primary color, e.g. #1f6feb")
	secondary := fs.String("secondary", "", "secondary color")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}

	current, err := a.svc.Tenant.Get(ctx, true)
	if err != nil {
		return err
	}
	s := *current
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "company":
			s.CompanyName = *company
		case "timezone":
			s.Timezone = *tz
		case "primary":
			s.PrimaryColor = *primary
		case "secondary":
			s.SecondaryColor = *secondary
		}
	})
	if _, err = a.session.SaveTenant(ctx, s); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Tenant settings saved")
	return nil
}

func (a *App) tenantPublic(ctx context.Context, args []string) error {
	if _, err := a.parse(a.flags("tenant public"), args, 0); err != nil {
		return err
	}
	p, err := a.svc.Tenant.Public(ctx)
	if err != nil {
		return err
	}
	t := newTable(a.out)
	t.row("Company", p.CompanyName)
	t.row("Primary color", p.PrimaryColor)
	t.row("Secondary color", p.SecondaryColor)
	t.flush()
	return nil
}

func (a *App) syncState(ctx context.Context, args []string) error {
	if _, err := a.parse(a.flags("sync state"), args, 0); err != nil {
		return err
	}
	st, err := a.svc.Sync.State(ctx)
	if err != nil {
		return err
	}
	a.printSyncState(ctx, st)
	return nil
}

func (a *App) printSyncState(ctx context.Context, st *domain.SyncState) {
	t := newTable(a.out)
	t.row("Last sync", formatEpochPtr(st.LastSyncedAt, a.location(ctx)))
	t.row("Campaigns synced", st.CampaignsSynced)
	t.row("Zones synced", st.ZonesSynced)
	t.row("Pending", st.Pending)
	t.flush()
}

func (a *App) syncCampaign(ctx context.Context, args []string) error {
	rest, err := a.parse(a.flags("sync campaign"), args, 1, "<id>")
	if err != nil {
		return err
	}
	id, err := parseCampaignID(rest[0])
	if err != nil {
		return err
	}
	if err = a.svc.Sync.Campaign(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Campaign %d synced\n", id)
	return nil
}

func (a *App) syncZone(ctx context.Context, args []string) error {
	rest, err := a.parse(a.flags("sync zone"), args, 1, "<id>")
	if err != nil {
		return err
	}
	if err = a.svc.Sync.Zone(ctx, domain.ZoneID(rest[0])); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Zone %s synced\n", rest[0])
	return nil
}

// dashboard shows the overview: active counts, sync state and the last
// seven days of delivery. Counts that fail to load show as zero.
func (a *App) dashboard(ctx context.Context, args []string) error {
	if _, err := a.parse(a.flags("dashboard"), args, 0); err != nil {
		return err
	}
	t := newTable(a.out)
	t.row("Active campaigns", a.svc.Campaigns.ActiveCount(ctx))
	t.row("Active zones", a.svc.Zones.ActiveCount(ctx))
	t.flush()

	if st, err := a.svc.Sync.State(ctx); err != nil {
		a.logger.Warn("sync state unavailable", slog.Any("error", err))
	} else {
		fmt.Fprintln(a.out)
		a.printSyncState(ctx, st)
	}

	stats, err := a.svc.Stats.Get(ctx, a.svc.Stats.LastSevenDays(), false)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "\nLast 7 days")
	a.printTotals(stats.Totals)
	return nil
}

func (a *App) printTotals(tot domain.StatsTotals) {
	t := newTable(a.out)
	t.row("Impressions", tot.Impressions)
	t.row("Clicks", tot.Clicks)
	t.row("Conversions", tot.Conversions)
	t.row("CTR", fmt.Sprintf("%.2f%%", tot.CTR()))
	t.row("Spend", tot.Spend.StringFixed(2))
	t.flush()
}

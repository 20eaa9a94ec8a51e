package cli

import (
	"context"
	"flag"
	"fmt"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/pagination"
)

func (a *App) zonesList(ctx context.Context, args []string) error {
	fs := a.flags("zones list")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "items per page")
	status := fs.String("status", "", "active or inactive")
	search := fs.String("search", "", "name contains")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}

	p := pagination.New(a.svc.Zones.List, pagination.Options{
		ItemsPerPage: *limit,
		Status:       *status,
		Search:       *search,
		Now:          a.now,
	})
	if err := p.FetchItems(ctx, true, *page); err != nil {
		return err
	}

	t := newTable(a.out)
	t.row("ID", "NAME", "STATUS", "SITE")
	for _, z := range p.Items() {
		t.row(z.ID, z.Name, z.Status, z.SiteURL)
	}
	t.flush()
	pageFooter(a.out, p.CurrentPage(), p.TotalPages(), p.TotalItems())
	return nil
}

func (a *App) zonesGet(ctx context.Context, args []string) error {
	rest, err := a.parse(a.flags("zones get"), args, 1, "<id>")
	if err != nil {
		return err
	}
	z, err := a.svc.Zones.Get(ctx, domain.ZoneID(rest[0]))
	if err != nil {
		return err
	}
	t := newTable(a.out)
	t.row("ID", z.ID)
	t.row("Name", z.Name)
	t.row("Status", z.Status)
	t.row("Site URL", z.SiteURL)
	t.row("Traffic back URL", orDash(z.TrafficBackURL))
	t.row("Postback URL", orDash(z.PostbackURL))
	t.row("Created", formatEpoch(z.CreatedAt, a.location(ctx)))
	t.flush()
	return nil
}

type zoneFlags struct {
	fs          *flag.FlagSet
	name        *string
	site        *string
	trafficBack *string
	postback    *string
	status      *string
}

func newZoneFlags(fs *flag.FlagSet) *zoneFlags {
	return &zoneFlags{
		fs:          fs,
		name:        fs.String("name", "", "zone name"),
		site:        fs.String("site", "", "site URL"),
		trafficBack: fs.String("traffic-back", "", "traffic back URL"),
		postback:    fs.String("postback", "", "postback URL"),
		status:      fs.String("status", "", "active or inactive"),
	}
}

func (f *zoneFlags) apply(in *domain.ZoneInput) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			in.Name = *f.name
		case "site":
			in.SiteURL = *f.site
		case "traffic-back":
			in.TrafficBackURL = *f.trafficBack
		case "postback":
			in.PostbackURL = *f.postback
		case "status":
			in.Status = domain.ZoneStatus(*f.status)
		}
	})
}

func (a *App) zonesCreate(ctx context.Context, args []string) error {
	fs := a.flags("zones create")
	f := newZoneFlags(fs)
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}
	in := domain.ZoneInput{Status: domain.ZoneActive}
	f.apply(&in)
	z, err := a.svc.Zones.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created zone %s\n", z.ID)
	return nil
}

func (a *App) zonesUpdate(ctx context.Context, args []string) error {
	fs := a.flags("zones update")
	f := newZoneFlags(fs)
	rest, err := a.parse(fs, reorder(args), 1, "<id>")
	if err != nil {
		return err
	}
	id := domain.ZoneID(rest[0])
	z, err := a.svc.Zones.Get(ctx, id)
	if err != nil {
		return err
	}
	in := z.Input()
	f.apply(&in)
	if z, err = a.svc.Zones.Update(ctx, id, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated zone %s\n", z.ID)
	return nil
}

func (a *App) zonesDelete(ctx context.Context, args []string) error {
	rest, err := a.parse(a.flags("zones delete"), args, 1, "<id>")
	if err != nil {
		return err
	}
	id := domain.ZoneID(rest[0])
	if err = a.svc.Zones.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted zone %s\n", id)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

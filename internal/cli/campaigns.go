package cli

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mesa-admin/internal/adapter/usecase"
	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/pagination"
	"mesa-admin/internal/targeting"
)

func (a *App) campaignsList(ctx context.Context, args []string) error {
	fs := a.flags("campaigns list")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "items per page")
	status := fs.String("status", "", "active, paused or completed")
	search := fs.String("search", "", "name contains")
	sortBy := fs.String("sort", "created_at", "sort field")
	order := fs.String("order", "desc", "asc or desc")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}

	p := pagination.New(a.svc.Campaigns.List, pagination.Options{
		ItemsPerPage: *limit,
		Sort:         *sortBy,
		Order:        *order,
		Status:       *status,
		Search:       *search,
		Now:          a.now,
	})
	if err := p.FetchItems(ctx, true, *page); err != nil {
		return err
	}

	loc := a.location(ctx)
	t := newTable(a.out)
	t.row("ID", "NAME", "STATUS", "MODEL", "RATE", "START", "END")
	for _, c := range p.Items() {
		t.row(c.ID, c.Name, c.Status, c.PaymentModel, formatDecimal(c.Rate),
			formatEpoch(c.StartDate, loc), formatEpochPtr(c.EndDate, loc))
	}
	t.flush()
	pageFooter(a.out, p.CurrentPage(), p.TotalPages(), p.TotalItems())
	return nil
}

func (a *App) campaignsGet(ctx context.Context, args []string) error {
	rest, err := a.parse(a.flags("campaigns get"), args, 1, "<id>")
	if err != nil {
		return err
	}
	id, err := parseCampaignID(rest[0])
	if err != nil {
		return err
	}
	c, form, err := a.svc.Editor.Load(ctx, id)
	if err != nil {
		return err
	}

	loc := a.location(ctx)
	t := newTable(a.out)
	t.row("ID", c.ID)
	t.row("Name", c.Name)
	t.row("Status", c.Status)
	t.row("Redirect URL", c.RedirectURL)
	t.row("Payment model", c.PaymentModel)
	t.row("Rate", formatDecimal(c.Rate))
	t.row("Start", formatEpoch(c.StartDate, loc))
	t.row("End", formatEpochPtr(c.EndDate, loc))
	t.flush()

	fmt.Fprintln(a.out, "\nTargeting")
	a.printTargeting(form.Targeting)
	fmt.Fprintln(a.out, "\nPayouts")
	a.printPayouts(*form.Payouts)
	return nil
}

var targetingOrder = []targeting.Dimension{
	targeting.Devices, targeting.Countries, targeting.Zones, targeting.Browsers, targeting.OS, targeting.UniqueUsers,
}

func (a *App) printTargeting(form targeting.Form) {
	t := newTable(a.out)
	restricted := false
	for _, d := range targetingOrder {
		sel, ok := form[d]
		if !ok {
			continue
		}
		restricted = true
		if d == targeting.UniqueUsers {
			t.row(d, fmt.Sprintf("%d per 24h", form.UniqueUsers()))
			continue
		}
		t.row(d, sel.Method, strings.Join(sel.Values, ","))
	}
	if !restricted {
		t.row("no restrictions")
	}
	t.flush()
}

func (a *App) printPayouts(set usecase.PayoutSet) {
	t := newTable(a.out)
	t.row("ZONE", "PAYOUT")
	if set.Global != nil {
		t.row("global", set.Global.String())
	}
	zones := make([]string, 0, len(set.Zones))
	for z := range set.Zones {
		zones = append(zones, z.String())
	}
	sort.Strings(zones)
	for _, z := range zones {
		t.row(z, set.Zones[domain.ZoneID(z)].String())
	}
	t.flush()
}

// campaignFlags binds the campaign form onto a flag set.
type campaignFlags struct {
	fs           *flag.FlagSet
	name         *string
	url          *string
	start        *string
	end          *string
	model        *string
	rate         decimalValue
	status       *string
	devices      listValue
	countries    listValue
	countriesM   *string
	zones        listValue
	zonesM       *string
	browsers     listValue
	browsersM    *string
	os           listValue
	osM          *string
	uniqueUsers  *int
	payout       decimalValue
	zonePayouts  zonePayoutValue
	clearPayouts *bool
}

func newCampaignFlags(fs *flag.FlagSet) *campaignFlags {
	f := &campaignFlags{fs: fs, zonePayouts: zonePayoutValue{}}
	f.name = fs.String("name", "", "campaign name")
	f.url = fs.String("url", "", "redirect URL")
	f.start = fs.String("start", "", "start date (tenant timezone)")
	f.end = fs.String("end", "", "end date; 'none' clears it")
	f.model = fs.String("model", string(domain.PaymentCPM), "payment model: cpm or cpa")
	fs.Var(&f.rate, "rate", "rate")
	f.status = fs.String("status", "", "active or paused")
	fs.Var(&f.devices, "devices", "device types: "+strings.Join(targeting.DeviceTypes, ","))
	fs.Var(&f.countries, "countries", "country codes")
	f.countriesM = fs.String("countries-method", string(domain.Whitelist), "whitelist or blacklist")
	fs.Var(&f.zones, "zones", "zone ids")
	f.zonesM = fs.String("zones-method", string(domain.Whitelist), "whitelist or blacklist")
	fs.Var(&f.browsers, "browsers", "browsers")
	f.browsersM = fs.String("browsers-method", string(domain.Whitelist), "whitelist or blacklist")
	fs.Var(&f.os, "os", "operating systems")
	f.osM = fs.String("os-method", string(domain.Whitelist), "whitelist or blacklist")
	f.uniqueUsers = fs.Int("unique-users", 0, "unique users per 24h; 0 removes the cap")
	fs.Var(&f.payout, "payout", "global payout")
	fs.Var(f.zonePayouts, "zone-payout", "zone payouts as zone=amount, repeatable")
	f.clearPayouts = fs.Bool("clear-payouts", false, "remove every payout rule")
	return f
}

func (f *campaignFlags) set() map[string]bool {
	seen := make(map[string]bool)
	f.fs.Visit(func(fl *flag.Flag) { seen[fl.Name] = true })
	return seen
}

// apply writes the given flags onto form. Flags that were not given leave
// the form untouched, so create starts from an empty form and update from
// the loaded one.
func (f *campaignFlags) apply(form *usecase.CampaignForm, loc *time.Location) error {
	seen := f.set()
	in := &form.Campaign
	if seen["name"] {
		in.Name = *f.name
	}
	if seen["url"] {
		in.RedirectURL = *f.url
	}
	if seen["start"] {
		t, err := parseTime(*f.start, loc)
		if err != nil {
			return err
		}
		in.StartDate = t.UnixMilli()
	}
	if seen["end"] {
		if *f.end == "none" || *f.end == "" {
			in.EndDate = nil
		} else {
			t, err := parseTime(*f.end, loc)
			if err != nil {
				return err
			}
			in.EndDate = domain.MillisPtr(t)
		}
	}
	if seen["model"] || in.PaymentModel == "" {
		in.PaymentModel = domain.PaymentModel(*f.model)
	}
	if seen["rate"] {
		in.Rate = f.rate.v
	}
	if seen["status"] {
		in.Status = domain.CampaignStatus(*f.status)
	}

	if form.Targeting == nil {
		form.Targeting = targeting.Form{}
	}
	dims := []struct {
		flag   string
		dim    targeting.Dimension
		values listValue
		method *string
	}{
		{"devices", targeting.Devices, f.devices, nil},
		{"countries", targeting.Countries, f.countries, f.countriesM},
		{"zones", targeting.Zones, f.zones, f.zonesM},
		{"browsers", targeting.Browsers, f.browsers, f.browsersM},
		{"os", targeting.OS, f.os, f.osM},
	}
	for _, d := range dims {
		sel, ok := form.Targeting[d.dim]
		if seen[d.flag] {
			sel.Values = d.values
			ok = true
		}
		if d.method != nil && seen[d.flag+"-method"] {
			sel.Method = domain.TargetingMethod(*d.method)
			ok = true
		}
		if !ok {
			continue
		}
		if d.method != nil && sel.Method == "" {
			sel.Method = domain.TargetingMethod(*d.method)
		}
		if len(sel.Values) == 0 {
			delete(form.Targeting, d.dim)
			continue
		}
		form.Targeting[d.dim] = sel
	}
	if seen["unique-users"] {
		form.Targeting.SetUniqueUsers(*f.uniqueUsers)
	}

	if seen["payout"] || seen["zone-payout"] || seen["clear-payouts"] {
		set := usecase.PayoutSet{}
		if form.Payouts != nil && !*f.clearPayouts {
			set = *form.Payouts
		}
		if set.Zones == nil || *f.clearPayouts {
			set.Zones = make(map[domain.ZoneID]decimal.Decimal)
		}
		if seen["payout"] {
			set.Global = f.payout.v
		}
		for z, p := range f.zonePayouts {
			set.Zones[z] = p
		}
		form.Payouts = &set
	}
	return nil
}

func (a *App) campaignsCreate(ctx context.Context, args []string) error {
	fs := a.flags("campaigns create")
	f := newCampaignFlags(fs)
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}
	loc := a.location(ctx)
	form := usecase.CampaignForm{}
	if err := f.apply(&form, loc); err != nil {
		return domain.NewError(domain.KindValidation, err.Error(), err)
	}
	if form.Campaign.StartDate == 0 {
		form.Campaign.StartDate = a.now().UnixMilli()
	}

	res, err := a.svc.Editor.Create(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created campaign %d\n", res.Campaign.ID)
	a.printWarnings(res.PayoutWarnings)
	return nil
}

func (a *App) campaignsUpdate(ctx context.Context, args []string) error {
	fs := a.flags("campaigns update")
	f := newCampaignFlags(fs)
	rest, err := a.parse(fs, reorder(args), 1, "<id>")
	if err != nil {
		return err
	}
	id, err := parseCampaignID(rest[0])
	if err != nil {
		return err
	}

	_, form, err := a.svc.Editor.Load(ctx, id)
	if err != nil {
		return err
	}
	if seen := f.set(); !seen["payout"] && !seen["zone-payout"] && !seen["clear-payouts"] {
		form.Payouts = nil
	}
	if err = f.apply(&form, a.location(ctx)); err != nil {
		return domain.NewError(domain.KindValidation, err.Error(), err)
	}

	res, err := a.svc.Editor.Save(ctx, id, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated campaign %d\n", res.Campaign.ID)
	a.printWarnings(res.PayoutWarnings)
	return nil
}

func (a *App) printWarnings(warnings []error) {
	for _, w := range warnings {
		fmt.Fprintf(a.errOut, "warning: %v\n", w)
	}
}

func (a *App) campaignsSetStatus(status domain.CampaignStatus) handler {
	return func(ctx context.Context, args []string) error {
		rest, err := a.parse(a.flags("campaigns "+string(status)), args, 1, "<id>")
		if err != nil {
			return err
		}
		id, err := parseCampaignID(rest[0])
		if err != nil {
			return err
		}
		c, err := a.svc.Campaigns.Get(ctx, id)
		if err != nil {
			return err
		}
		c, err = a.svc.Campaigns.SetStatus(ctx, *c, status)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Campaign %d is %s\n", c.ID, c.Status)
		return nil
	}
}

func (a *App) campaignsDelete(ctx context.Context, args []string) error {
	rest, err := a.parse(a.flags("campaigns delete"), args, 1, "<id>")
	if err != nil {
		return err
	}
	id, err := parseCampaignID(rest[0])
	if err != nil {
		return err
	}
	if err = a.svc.Campaigns.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted campaign %d\n", id)
	return nil
}

func (a *App) campaignsRules(ctx context.Context, args []string) error {
	rest, err := a.parse(a.flags("campaigns rules"), args, 1, "<id>")
	if err != nil {
		return err
	}
	id, err := parseCampaignID(rest[0])
	if err != nil {
		return err
	}
	rules, err := a.svc.Campaigns.TargetingRules(ctx, id)
	if err != nil {
		return err
	}
	types, err := a.svc.RuleTypes.List(ctx)
	if err != nil {
		return err
	}
	names := make(map[int64]string, len(types))
	for _, rt := range types {
		names[rt.ID] = rt.Name
	}
	t := newTable(a.out)
	t.row("TYPE", "METHOD", "RULE")
	for _, r := range rules {
		name := names[r.TargetingRuleTypeID]
		if name == "" {
			name = fmt.Sprintf("#%d", r.TargetingRuleTypeID)
		}
		t.row(name, r.TargetingMethod, r.Rule)
	}
	t.flush()
	return nil
}

func (a *App) campaignsPayouts(ctx context.Context, args []string) error {
	rest, err := a.parse(a.flags("campaigns payouts"), args, 1, "<id>")
	if err != nil {
		return err
	}
	id, err := parseCampaignID(rest[0])
	if err != nil {
		return err
	}
	rules, err := a.svc.Campaigns.PayoutRules(ctx, id)
	if err != nil {
		return err
	}
	a.printPayouts(usecase.PayoutSetOf(rules))
	return nil
}

// reorder moves a leading positional argument behind the flags so both
// "update 7 --name x" and "update --name x 7" parse.
func reorder(args []string) []string {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return args
	}
	return append(append([]string{}, args[1:]...), args[0])
}

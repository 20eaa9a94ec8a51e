package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/export"
)

func (a *App) stats(ctx context.Context, args []string) error {
	fs := a.flags("stats")
	from := fs.String("from", "", "window start (tenant timezone)")
	to := fs.String("to", "", "window end (tenant timezone)")
	campaign := fs.Int64("campaign", 0, "campaign id")
	zone := fs.String("zone", "", "zone id")
	groupBy := fs.String("group-by", "date", "date, campaign or zone")
	fresh := fs.Bool("fresh", false, "bypass the cache")
	out := fs.String("export", "", "write the report to an xlsx file")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}

	loc := a.location(ctx)
	q := a.svc.Stats.LastSevenDays()
	if *from != "" {
		t, err := parseTime(*from, loc)
		if err != nil {
			return domain.NewError(domain.KindValidation, err.Error(), err)
		}
		q.From = t.UnixMilli()
	}
	if *to != "" {
		t, err := parseTime(*to, loc)
		if err != nil {
			return domain.NewError(domain.KindValidation, err.Error(), err)
		}
		q.To = t.UnixMilli()
	}
	if *campaign > 0 {
		q.CampaignID = campaign
	}
	if *zone != "" {
		q.ZoneID = domain.ZoneIDPtr(*zone)
	}
	q.GroupBy = *groupBy

	st, err := a.svc.Stats.Get(ctx, q, *fresh)
	if err != nil {
		return err
	}

	if *out != "" {
		if err = writeFile(*out, func(f *os.File) error { return export.Stats(f, st) }); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Wrote %d rows to %s\n", len(st.Items), *out)
		return nil
	}

	t := newTable(a.out)
	t.row(statsKeyHeader(q.GroupBy), "IMPRESSIONS", "CLICKS", "CONVERSIONS", "SPEND")
	for _, r := range st.Items {
		t.row(statsKey(q.GroupBy, r), r.Impressions, r.Clicks, r.Conversions, r.Spend.StringFixed(2))
	}
	t.flush()
	fmt.Fprintln(a.out)
	a.printTotals(st.Totals)
	return nil
}

func statsKeyHeader(groupBy string) string {
	switch groupBy {
	case "campaign":
		return "CAMPAIGN"
	case "zone":
		return "ZONE"
	}
	return "DATE"
}

func statsKey(groupBy string, r domain.StatsRow) string {
	switch groupBy {
	case "campaign":
		return fmt.Sprint(r.CampaignID)
	case "zone":
		if r.ZoneID == nil {
			return "-"
		}
		return r.ZoneID.String()
	}
	return r.Date
}

// timeFilters turns --from/--to into list filters in epoch milliseconds.
func (a *App) timeFilters(from, to string, loc *time.Location) (map[string]any, error) {
	filters := make(map[string]any)
	for key, v := range map[string]string{"from": from, "to": to} {
		if v == "" {
			continue
		}
		t, err := parseTime(v, loc)
		if err != nil {
			return nil, domain.NewError(domain.KindValidation, err.Error(), err)
		}
		filters[key] = t.UnixMilli()
	}
	return filters, nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (a *App) conversionsList(ctx context.Context, args []string) error {
	fs := a.flags("conversions list")
	from := fs.String("from", "", "created at or after")
	to := fs.String("to", "", "created before")
	search := fs.String("search", "", "click or event id contains")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "items per page")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}

	loc := a.location(ctx)
	filters, err := a.timeFilters(*from, *to, loc)
	if err != nil {
		return err
	}
	res, err := a.svc.Conversions.List(ctx, domain.ListOptions{
		Page:      *page,
		Limit:     *limit,
		Search:    *search,
		Filters:   filters,
		SkipCache: true,
	})
	if err != nil {
		return err
	}

	t := newTable(a.out)
	t.row("TIME", "CLICK", "EVENT", "PAYLOAD")
	for _, c := range res.Items {
		t.row(c.Time().In(loc).Format(dateTimeLayout), c.ClickID, c.AdEventID, orDash(c.Payload))
	}
	t.flush()
	pageFooter(a.out, res.Pagination.Page, max(res.Pagination.TotalPages, 1), res.Pagination.Total)
	return nil
}

func (a *App) conversionsExport(ctx context.Context, args []string) error {
	fs := a.flags("conversions export")
	from := fs.String("from", "", "created at or after")
	to := fs.String("to", "", "created before")
	out := fs.String("out", "conversions.xlsx", "output file")
	if _, err := a.parse(fs, args, 0); err != nil {
		return err
	}

	loc := a.location(ctx)
	filters, err := a.timeFilters(*from, *to, loc)
	if err != nil {
		return err
	}
	all, err := a.svc.Conversions.All(ctx, domain.ListOptions{Filters: filters}, 100)
	if err != nil {
		return err
	}
	if err = writeFile(*out, func(f *os.File) error { return export.Conversions(f, all, loc) }); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wrote %d conversions to %s\n", len(all), *out)
	return nil
}

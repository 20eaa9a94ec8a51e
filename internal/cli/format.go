package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"mesa-admin/internal/core/domain"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer) *table {
	return &table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (t *table) row(cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(t.tw, strings.Join(parts, "\t"))
}

func (t *table) flush() {
	_ = t.tw.Flush()
}

// formatEpoch renders an epoch in seconds or milliseconds in loc.
func formatEpoch(v int64, loc *time.Location) string {
	if v == 0 {
		return "-"
	}
	return domain.EpochTime(v).In(loc).Format(dateTimeLayout)
}

func formatEpochPtr(v *int64, loc *time.Location) string {
	if v == nil {
		return "-"
	}
	return formatEpoch(*v, loc)
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

// parseTime accepts a date or date-time in loc, RFC 3339 or an epoch.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return domain.EpochTime(n), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{dateTimeLayout, dateLayout} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use YYYY-MM-DD, 'YYYY-MM-DD HH:MM', RFC 3339 or epoch", s)
}

// listValue is a comma separated flag that may also be repeated.
type listValue []string

func (l *listValue) String() string { return strings.Join(*l, ",") }

func (l *listValue) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// zonePayoutValue collects zone=amount pairs.
type zonePayoutValue map[domain.ZoneID]decimal.Decimal

func (z zonePayoutValue) String() string {
	parts := make([]string, 0, len(z))
	for id, p := range z {
		parts = append(parts, id.String()+"="+p.String())
	}
	return strings.Join(parts, ",")
}

func (z zonePayoutValue) Set(v string) error {
	for _, pair := range strings.Split(v, ",") {
		id, amount, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || id == "" {
			return fmt.Errorf("want zone=amount, got %q", pair)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("zone %s: %w", id, err)
		}
		z[domain.ZoneID(id)] = d
	}
	return nil
}

// decimalValue is an optional decimal flag.
type decimalValue struct {
	v *decimal.Decimal
}

func (d *decimalValue) String() string {
	if d.v == nil {
		return ""
	}
	return d.v.String()
}

func (d *decimalValue) Set(s string) error {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	d.v = &v
	return nil
}

func parseCampaignID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewError(domain.KindValidation, fmt.Sprintf("invalid campaign id %q", s), err)
	}
	return id, nil
}

func pageFooter(w io.Writer, page, pages, total int) {
	fmt.Fprintf(w, "\npage %d/%d, %d total\n", page, pages, total)
}

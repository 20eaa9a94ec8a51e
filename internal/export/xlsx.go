// Package export writes reports as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"mesa-admin/internal/core/domain"
)

const (
	statsSheet       = "Stats"
	conversionsSheet = "Conversions"
	timeLayout       = "2006-01-02 15:04:05"
)

// Stats writes a report with one row per line and a totals row.
func Stats(w io.Writer, stats *domain.Stats) error {
	header := []any{"Date", "Campaign", "Zone", "Impressions", "Clicks", "Conversions", "CTR %", "Spend"}
	rows := make([][]any, 0, len(stats.Items)+1)
	for _, r := range stats.Items {
		zone := ""
		if r.ZoneID != nil {
			zone = r.ZoneID.String()
		}
		campaign := any("")
		if r.CampaignID != 0 {
			campaign = r.CampaignID
		}
		t := domain.StatsTotals{Impressions: r.Impressions, Clicks: r.Clicks}
		rows = append(rows, []any{
			r.Date, campaign, zone, r.Impressions, r.Clicks, r.Conversions,
			round2(t.CTR()), r.Spend.InexactFloat64(),
		})
	}
	t := stats.Totals
	rows = append(rows, []any{
		"Total", "", "", t.Impressions, t.Clicks, t.Conversions,
		round2(t.CTR()), t.Spend.InexactFloat64(),
	})
	return write(w, statsSheet, header, rows)
}

// Conversions writes conversions with their creation time rendered in loc.
func Conversions(w io.Writer, conversions []domain.Conversion, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	header := []any{"ID", "Ad event", "Click ID", "Created at", "Payload"}
	rows := make([][]any, 0, len(conversions))
	for _, c := range conversions {
		rows = append(rows, []any{
			c.ID, c.AdEventID, c.ClickID, c.Time().In(loc).Format(timeLayout), c.Payload,
		})
	}
	return write(w, conversionsSheet, header, rows)
}

func write(w io.Writer, sheet string, header []any, rows [][]any) error {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := xl.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := xl.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := xl.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	if _, err := xl.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

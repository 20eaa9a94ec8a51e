package domain

import "github.com/shopspring/decimal"

// StatsQuery selects a statistics window. From and To are epoch
// milliseconds; the optional ids narrow the report.
type StatsQuery struct {
	From       int64   `json:"from"`
	To         int64   `json:"to"`
	CampaignID *int64  `json:"campaign_id,omitempty"`
	ZoneID     *ZoneID `json:"zone_id,omitempty"`
	GroupBy    string  `json:"group_by,omitempty"`
}

// StatsRow is one aggregated line of a report.
type StatsRow struct {
	Date        string          `json:"date"`
	CampaignID  int64           `json:"campaign_id,omitempty"`
	ZoneID      *ZoneID         `json:"zone_id,omitempty"`
	Impressions int64           `json:"impressions"`
	Clicks      int64           `json:"clicks"`
	Conversions int64           `json:"conversions"`
	Spend       decimal.Decimal `json:"spend"`
}

// StatsTotals sums a report.
type StatsTotals struct {
	Impressions int64           `json:"impressions"`
	Clicks      int64           `json:"clicks"`
	Conversions int64           `json:"conversions"`
	Spend       decimal.Decimal `json:"spend"`
}

// CTR is the click-through rate in percent.
func (t StatsTotals) CTR() float64 {
	if t.Impressions == 0 {
		return 0
	}
	return float64(t.Clicks) / float64(t.Impressions) * 100
}

// Stats is the response of GET /api/stats.
type Stats struct {
	Items  []StatsRow  `json:"items"`
	Totals StatsTotals `json:"totals"`
}

package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mesa-admin/internal/core/domain"
)

func TestStatsWorkbook(t *testing.T) {
	stats := &domain.Stats{
		Items: []domain.StatsRow{
			{Date: "2025-03-01", CampaignID: 4, Impressions: 200, Clicks: 3, Spend: decimal.RequireFromString("1.25")},
		},
		Totals: domain.StatsTotals{Impressions: 200, Clicks: 3, Spend: decimal.RequireFromString("1.25")},
	}

	var buf bytes.Buffer
	require.NoError(t, Stats(&buf, stats))

	xl, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer xl.Close()

	rows, err := xl.GetRows(statsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Impressions", rows[0][3])
	assert.Equal(t, "2025-03-01", rows[1][0])
	assert.Equal(t, "1.5", rows[1][6])
	assert.Equal(t, "Total", rows[2][0])
}

func TestConversionsUseLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	conversions := []domain.Conversion{
		// Seconds, as the backend sends them.
		{ID: 1, AdEventID: "ev-1", ClickID: "c-1", Payload: `{"sum":3}`, CreatedAt: 1_700_000_000},
	}

	var buf bytes.Buffer
	require.NoError(t, Conversions(&buf, conversions, berlin))

	xl, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer xl.Close()

	value, err := xl.GetCellValue(conversionsSheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "2023-11-14 23:13:20", value)
}

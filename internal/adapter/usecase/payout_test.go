package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesa-admin/internal/core/domain"
)

func TestPayoutDiffReplacesChangedRules(t *testing.T) {
	existing := []domain.PayoutRule{
		{CampaignID: 5, Payout: decimal.NewFromInt(10)},
		{CampaignID: 5, ZoneID: domain.ZoneIDPtr("z1"), Payout: decimal.NewFromInt(5)},
	}
	desired := PayoutSet{Zones: map[domain.ZoneID]decimal.Decimal{"z1": decimal.NewFromInt(7)}}

	plan := PayoutDiff(existing, desired)
	require.Len(t, plan, 3)
	assert.Equal(t, "delete global payout", plan[0].String())
	assert.Equal(t, "delete zone z1 payout", plan[1].String())
	assert.Equal(t, "create zone z1 payout 7", plan[2].String())
}

func TestPayoutDiffSkipsUnchangedValues(t *testing.T) {
	existing := []domain.PayoutRule{
		{Payout: decimal.RequireFromString("2.50")},
		{ZoneID: domain.ZoneIDPtr("z1"), Payout: decimal.NewFromInt(5)},
	}
	desired := PayoutSet{
		Global: ptr(decimal.RequireFromString("2.5")),
		Zones:  map[domain.ZoneID]decimal.Decimal{"z1": decimal.NewFromInt(5)},
	}

	assert.Empty(t, PayoutDiff(existing, desired))
}

func TestPayoutDiffCreatesNewRulesInZoneOrder(t *testing.T) {
	desired := PayoutSet{
		Global: ptr(decimal.NewFromInt(1)),
		Zones: map[domain.ZoneID]decimal.Decimal{
			"b": decimal.NewFromInt(3),
			"a": decimal.NewFromInt(2),
		},
	}

	plan := PayoutDiff(nil, desired)
	require.Len(t, plan, 3)
	assert.Nil(t, plan[0].ZoneID)
	assert.Equal(t, "a", plan[1].ZoneID.String())
	assert.Equal(t, "b", plan[2].ZoneID.String())
	for _, step := range plan {
		assert.Equal(t, PayoutCreate, step.Op)
	}
}

func TestPayoutSetOf(t *testing.T) {
	set := PayoutSetOf([]domain.PayoutRule{
		{Payout: decimal.NewFromInt(4)},
		{ZoneID: domain.ZoneIDPtr("9"), Payout: decimal.NewFromInt(6)},
	})
	require.NotNil(t, set.Global)
	assert.True(t, set.Global.Equal(decimal.NewFromInt(4)))
	assert.True(t, set.Zones["9"].Equal(decimal.NewFromInt(6)))
}

package db

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/core/port"
)

// Seeder is what Seed needs from a store.
type Seeder interface {
	port.BackendStore
	port.EventRecorder
}

const seedDays = 14

// Seed fills an empty tenant with demo campaigns, zones, payouts and two
// weeks of stats and conversions. A tenant that already has campaigns is
// left alone.
func Seed(ctx context.Context, store Seeder, tenant string, now time.Time) error {
	_, total, err := store.ListCampaigns(ctx, tenant, domain.ListOptions{Limit: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	if err = store.UpdateTenant(ctx, tenant, domain.TenantSettings{
		CompanyName:    "Mesa Demo",
		Timezone:       "Europe/Moscow",
		PrimaryColor:   "#1f6feb",
		SecondaryColor: "#f78166",
	}); err != nil {
		return err
	}

	r := rand.New(rand.NewSource(now.UnixNano()))

	zones := make([]domain.Zone, 0, 3)
	for i := 1; i <= 3; i++ {
		z, err := store.CreateZone(ctx, tenant, domain.ZoneInput{
			Name:           fmt.Sprintf("Zone %d", i),
			SiteURL:        fmt.Sprintf("https://publisher%d.example.com", i),
			TrafficBackURL: fmt.Sprintf("https://publisher%d.example.com/back", i),
			PostbackURL:    fmt.Sprintf("https://publisher%d.example.com/postback", i),
		})
		if err != nil {
			return err
		}
		zones = append(zones, *z)
	}

	start := now.AddDate(0, 0, -seedDays)
	for i := 1; i <= 5; i++ {
		in := domain.CampaignInput{
			Name:         fmt.Sprintf("Campaign %d", i),
			RedirectURL:  fmt.Sprintf("https://advertiser.example.com/landing/%d", i),
			StartDate:    start.UnixMilli(),
			EndDate:      domain.MillisPtr(now.AddDate(0, 1, 0)),
			PaymentModel: domain.PaymentCPM,
			Rate:         decimalPtr(decimal.NewFromFloat(0.5)),
			TargetingRules: []domain.TargetingRule{
				{TargetingRuleTypeID: 2, TargetingMethod: domain.Whitelist, Rule: "AM,RU"},
				{TargetingRuleTypeID: 1, TargetingMethod: domain.Whitelist, Rule: "desktop,mobile"},
			},
		}
		if i%2 == 0 {
			in.PaymentModel = domain.PaymentCPA
			in.Rate = decimalPtr(decimal.NewFromInt(3))
			in.Status = domain.CampaignPaused
		}
		c, err := store.CreateCampaign(ctx, tenant, in)
		if err != nil {
			return err
		}

		if _, err = store.CreatePayoutRule(ctx, tenant, c.ID, domain.PayoutRuleInput{Payout: decimal.NewFromInt(2)}); err != nil {
			return err
		}
		zone := zones[(i-1)%len(zones)]
		if _, err = store.CreatePayoutRule(ctx, tenant, c.ID, domain.PayoutRuleInput{
			ZoneID: &zone.ID,
			Payout: decimal.NewFromFloat(2.5),
		}); err != nil {
			return err
		}

		if err = seedEvents(ctx, store, tenant, r, c, zone, start); err != nil {
			return err
		}
	}
	return nil
}

func seedEvents(ctx context.Context, store Seeder, tenant string, r *rand.Rand, c *domain.Campaign, zone domain.Zone, start time.Time) error {
	for d := 0; d < seedDays; d++ {
		day := start.AddDate(0, 0, d)
		impressions := int64(500 + r.Intn(1500))
		clicks := impressions / int64(20+r.Intn(30))
		conversions := clicks / int64(5+r.Intn(10))
		row := domain.StatsRow{
			Date:        day.UTC().Format(time.DateOnly),
			CampaignID:  c.ID,
			ZoneID:      &zone.ID,
			Impressions: impressions,
			Clicks:      clicks,
			Conversions: conversions,
			Spend:       decimal.NewFromInt(impressions).Div(decimal.NewFromInt(1000)).Mul(decimal.NewFromFloat(0.5)).Round(4),
		}
		if err := store.RecordStats(ctx, tenant, row); err != nil {
			return err
		}
		for j := int64(0); j < conversions; j++ {
			if err := store.RecordConversion(ctx, tenant, domain.Conversion{
				AdEventID: uuid.NewString(),
				ClickID:   uuid.NewString(),
				Payload:   "campaign=" + strconv.FormatInt(c.ID, 10) + "&zone=" + zone.ID.String(),
				CreatedAt: day.Add(time.Duration(r.Intn(86400)) * time.Second).Unix(),
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

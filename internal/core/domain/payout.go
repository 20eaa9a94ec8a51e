package domain

import "github.com/shopspring/decimal"

func init() {
	// The backend expects payouts and rates as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// PayoutRule sets the payout for a campaign, either globally (ZoneID nil) or
// for one zone. A campaign has at most one global rule and one rule per zone.
type PayoutRule struct {
	ID         int64           `json:"id,omitempty"`
	CampaignID int64           `json:"campaign_id"`
	ZoneID     *ZoneID         `json:"zone_id"`
	Payout     decimal.Decimal `json:"payout"`
}

// IsGlobal reports whether r is the campaign's default payout.
func (r PayoutRule) IsGlobal() bool {
	return r.ZoneID == nil
}

// PayoutRuleInput is the body of a payout rule create request.
type PayoutRuleInput struct {
	ZoneID *ZoneID         `json:"zone_id,omitempty"`
	Payout decimal.Decimal `json:"payout" validate:"positive_decimal"`
}

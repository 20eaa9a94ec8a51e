package domain

import "github.com/shopspring/decimal"

// CampaignStatus is the lifecycle state of a campaign. Completed is terminal
// and is only ever set by the backend.
type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignActive, CampaignPaused, CampaignCompleted:
		return true
	}
	return false
}

// PaymentModel is how an advertiser pays for a campaign.
type PaymentModel string

const (
	PaymentCPM PaymentModel = "cpm"
	PaymentCPA PaymentModel = "cpa"
)

// Campaign represents an advertising campaign as returned by the backend.
// Dates are epoch milliseconds; a nil EndDate means the campaign runs
// indefinitely.
type Campaign struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	RedirectURL    string           `json:"redirect_url"`
	StartDate      int64            `json:"start_date"`
	EndDate        *int64           `json:"end_date"`
	Status         CampaignStatus   `json:"status"`
	PaymentModel   PaymentModel     `json:"payment_model"`
	Rate           *decimal.Decimal `json:"rate"`
	TargetingRules []TargetingRule  `json:"targeting_rules,omitempty"`
	CreatedAt      int64            `json:"created_at,omitempty"`
	UpdatedAt      int64            `json:"updated_at,omitempty"`
}

// CampaignInput is the body of campaign create and update requests.
// Submitting TargetingRules replaces the campaign's rule set wholesale.
type CampaignInput struct {
	Name           string           `json:"name" validate:"required,min=3,max=255"`
	RedirectURL    string           `json:"redirect_url" validate:"required,url,max=2048"`
	StartDate      int64            `json:"start_date" validate:"required,gt=0"`
	EndDate        *int64           `json:"end_date,omitempty" validate:"omitempty,gtfield=StartDate"`
	Status         CampaignStatus   `json:"status,omitempty" validate:"omitempty,oneof=active paused"`
	PaymentModel   PaymentModel     `json:"payment_model" validate:"required,oneof=cpm cpa"`
	Rate           *decimal.Decimal `json:"rate,omitempty" validate:"omitempty,positive_decimal"`
	TargetingRules []TargetingRule  `json:"targeting_rules,omitempty" validate:"omitempty,dive"`
}

// Input returns the editable fields of c as a CampaignInput. Status is left
// out; it changes through the dedicated status toggle.
func (c Campaign) Input() CampaignInput {
	return CampaignInput{
		Name:           c.Name,
		RedirectURL:    c.RedirectURL,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		PaymentModel:   c.PaymentModel,
		Rate:           c.Rate,
		TargetingRules: c.TargetingRules,
	}
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/targeting"
)

// CampaignForm is everything the campaign create and edit forms submit.
type CampaignForm struct {
	Campaign  domain.CampaignInput
	Targeting targeting.Form
	// Payouts is nil when the form leaves payout rules untouched.
	Payouts *PayoutSet
}

// SaveResult reports a saved campaign and the payout steps that failed.
type SaveResult struct {
	Campaign       *domain.Campaign
	PayoutWarnings []error
}

// CampaignEditor sequences the multi-request create and edit flows.
type CampaignEditor struct {
	campaigns *CampaignUseCase
	ruleTypes *TargetingRuleTypeUseCase
	logger    *slog.Logger
}

// NewCampaignEditor builds the editor over the campaign and rule-type
// services.
func NewCampaignEditor(campaigns *CampaignUseCase, ruleTypes *TargetingRuleTypeUseCase, logger *slog.Logger) *CampaignEditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CampaignEditor{campaigns: campaigns, ruleTypes: ruleTypes, logger: logger}
}

// Create submits a new campaign with its derived targeting rules, then
// creates the requested payout rules and syncs the campaign once. Payout
// failures do not fail the create.
func (e *CampaignEditor) Create(ctx context.Context, form CampaignForm) (*SaveResult, error) {
	ids, err := e.ruleTypes.TypeIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load targeting rule types: %w", err)
	}
	in := form.Campaign
	in.TargetingRules = targeting.Forward(form.Targeting, ids)

	c, err := e.campaigns.create(ctx, in)
	if err != nil {
		return nil, err
	}
	res := &SaveResult{Campaign: c}
	if form.Payouts != nil {
		plan := PayoutDiff(nil, *form.Payouts)
		res.PayoutWarnings = e.campaigns.ApplyPayoutPlan(ctx, c.ID, plan)
	}
	e.campaigns.syncBestEffort(ctx, c.ID)
	return res, nil
}

// Save updates an existing campaign in three steps: base fields, the full
// targeting rule set, then the payout diff, and syncs the campaign once at
// the end. A targeting failure returns ErrTargetingUpdate with the base
// update already applied and synced. Payout failures are returned as
// warnings.
func (e *CampaignEditor) Save(ctx context.Context, id int64, form CampaignForm) (*SaveResult, error) {
	ids, err := e.ruleTypes.TypeIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load targeting rule types: %w", err)
	}

	in := form.Campaign
	in.TargetingRules = nil
	c, err := e.campaigns.update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	defer e.campaigns.syncBestEffort(ctx, id)

	rules := targeting.Forward(form.Targeting, ids)
	saved, err := e.campaigns.ReplaceTargetingRules(ctx, id, rules)
	if err != nil {
		e.logger.Error("targeting rules update failed", slog.Int64("campaign_id", id), slog.Any("error", err))
		return &SaveResult{Campaign: c}, &domain.Error{
			Kind:    domain.KindOf(err),
			Message: domain.ErrTargetingUpdate.Error(),
			Err:     fmt.Errorf("%w: %w", domain.ErrTargetingUpdate, err),
		}
	}
	c.TargetingRules = saved

	res := &SaveResult{Campaign: c}
	if form.Payouts != nil {
		existing, err := e.campaigns.PayoutRules(ctx, id)
		if err != nil {
			e.logger.Warn("payout rules load failed", slog.Int64("campaign_id", id), slog.Any("error", err))
			res.PayoutWarnings = []error{fmt.Errorf("load payout rules: %w", err)}
			return res, nil
		}
		res.PayoutWarnings = e.campaigns.ApplyPayoutPlan(ctx, id, PayoutDiff(existing, *form.Payouts))
	}
	return res, nil
}

// Load returns a campaign with its targeting rules reversed into form state
// and its payout rules as a PayoutSet.
func (e *CampaignEditor) Load(ctx context.Context, id int64) (*domain.Campaign, CampaignForm, error) {
	c, err := e.campaigns.Get(ctx, id)
	if err != nil {
		return nil, CampaignForm{}, err
	}
	ids, err := e.ruleTypes.TypeIDs(ctx)
	if err != nil {
		return nil, CampaignForm{}, fmt.Errorf("load targeting rule types: %w", err)
	}
	rules := c.TargetingRules
	if rules == nil {
		if rules, err = e.campaigns.TargetingRules(ctx, id); err != nil {
			return nil, CampaignForm{}, err
		}
	}
	payouts, err := e.campaigns.PayoutRules(ctx, id)
	if err != nil {
		return nil, CampaignForm{}, err
	}
	set := PayoutSetOf(payouts)
	return c, CampaignForm{
		Campaign:  c.Input(),
		Targeting: targeting.Reverse(rules, ids),
		Payouts:   &set,
	}, nil
}

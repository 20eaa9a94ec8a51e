package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"mesa-admin/internal/core/domain"
)

// PayoutSet is the desired payout configuration of a campaign. A nil Global
// means no default payout.
type PayoutSet struct {
	Global *decimal.Decimal
	Zones  map[domain.ZoneID]decimal.Decimal
}

// PayoutOp is the kind of a payout plan step.
type PayoutOp string

const (
	PayoutDelete PayoutOp = "delete"
	PayoutCreate PayoutOp = "create"
)

// PayoutStep is one request of a payout plan. ZoneID nil targets the global
// rule.
type PayoutStep struct {
	Op     PayoutOp
	ZoneID *domain.ZoneID
	Payout decimal.Decimal
}

func (s PayoutStep) String() string {
	target := "global"
	if s.ZoneID != nil {
		target = "zone " + s.ZoneID.String()
	}
	if s.Op == PayoutDelete {
		return "delete " + target + " payout"
	}
	return fmt.Sprintf("create %s payout %s", target, s.Payout)
}

// PayoutSetOf converts rules into a PayoutSet.
func PayoutSetOf(rules []domain.PayoutRule) PayoutSet {
	set := PayoutSet{Zones: make(map[domain.ZoneID]decimal.Decimal)}
	for _, r := range rules {
		if r.IsGlobal() {
			p := r.Payout
			set.Global = &p
			continue
		}
		set.Zones[*r.ZoneID] = r.Payout
	}
	return set
}

// PayoutDiff plans the requests that turn existing into desired. There is
// no update endpoint, so a changed value is a delete followed by a create.
// Unchanged rules produce no steps. The global rule comes first, then zones
// in id order.
func PayoutDiff(existing []domain.PayoutRule, desired PayoutSet) []PayoutStep {
	have := PayoutSetOf(existing)

	var plan []PayoutStep
	plan = appendPayoutSteps(plan, nil, have.Global, desired.Global)

	ids := make([]domain.ZoneID, 0, len(have.Zones)+len(desired.Zones))
	seen := make(map[domain.ZoneID]bool)
	for id := range have.Zones {
		ids = append(ids, id)
		seen[id] = true
	}
	for id := range desired.Zones {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		var from, to *decimal.Decimal
		if v, ok := have.Zones[id]; ok {
			from = &v
		}
		if v, ok := desired.Zones[id]; ok {
			to = &v
		}
		zoneID := id
		plan = appendPayoutSteps(plan, &zoneID, from, to)
	}
	return plan
}

func appendPayoutSteps(plan []PayoutStep, zoneID *domain.ZoneID, have, want *decimal.Decimal) []PayoutStep {
	if have != nil && want != nil && have.Equal(*want) {
		return plan
	}
	if have != nil {
		plan = append(plan, PayoutStep{Op: PayoutDelete, ZoneID: zoneID, Payout: *have})
	}
	if want != nil {
		plan = append(plan, PayoutStep{Op: PayoutCreate, ZoneID: zoneID, Payout: *want})
	}
	return plan
}

// ApplyPayoutPlan runs plan in order and returns the failed steps. A failed
// delete skips the create for the same target, which would otherwise
// collide with the rule still in place.
func (u *CampaignUseCase) ApplyPayoutPlan(ctx context.Context, campaignID int64, plan []PayoutStep) []error {
	var (
		errs    []error
		blocked = make(map[string]bool)
	)
	for _, step := range plan {
		target := "global"
		if step.ZoneID != nil {
			target = step.ZoneID.String()
		}

		var err error
		switch step.Op {
		case PayoutDelete:
			err = u.DeletePayoutRule(ctx, campaignID, step.ZoneID)
			if err != nil {
				blocked[target] = true
			}
		case PayoutCreate:
			if blocked[target] {
				continue
			}
			_, err = u.CreatePayoutRule(ctx, campaignID, domain.PayoutRuleInput{ZoneID: step.ZoneID, Payout: step.Payout})
		}
		if err != nil {
			u.logger.Warn("payout rule step failed",
				slog.Int64("campaign_id", campaignID),
				slog.String("step", step.String()),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", step, err))
		}
	}
	return errs
}

package usecase

import (
	"context"
	"time"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/core/port"
	"mesa-admin/internal/targeting"
)

const ruleTypesKey = "all"

// TargetingRuleTypeUseCase reads the targeting rule type catalog, which
// rarely changes and is cached for longer than lists.
type TargetingRuleTypeUseCase struct {
	client port.APIClient
	cache  port.Cache
	ttl    time.Duration
}

// NewTargetingRuleTypeUseCase builds the rule-type catalog service.
func NewTargetingRuleTypeUseCase(deps Deps) *TargetingRuleTypeUseCase {
	deps = deps.withDefaults()
	return &TargetingRuleTypeUseCase{
		client: deps.Client,
		cache:  deps.Caches.Named(cacheRuleTypes),
		ttl:    deps.TTL.RuleTypes,
	}
}

// List returns the catalog.
func (u *TargetingRuleTypeUseCase) List(ctx context.Context) ([]domain.TargetingRuleType, error) {
	var types []domain.TargetingRuleType
	if getCached(ctx, u.cache, ruleTypesKey, &types) {
		return types, nil
	}
	if err := u.client.Get(ctx, "/api/targeting-rule-types", &types); err != nil {
		return nil, err
	}
	setCached(ctx, u.cache, ruleTypesKey, types, u.ttl)
	return types, nil
}

// TypeIDs resolves the catalog into the ids of the known dimensions.
func (u *TargetingRuleTypeUseCase) TypeIDs(ctx context.Context) (targeting.TypeIDs, error) {
	types, err := u.List(ctx)
	if err != nil {
		return nil, err
	}
	return targeting.ResolveTypeIDs(types), nil
}

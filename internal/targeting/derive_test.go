package targeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesa-admin/internal/core/domain"
)

var catalog = []domain.TargetingRuleType{
	{ID: 1, Name: "Device Type"},
	{ID: 2, Name: "Country"},
	{ID: 3, Name: "Zone"},
	{ID: 4, Name: "Browser"},
	{ID: 5, Name: "OS"},
	{ID: 6, Name: "Unique Users"},
}

func TestResolveTypeIDs(t *testing.T) {
	ids := ResolveTypeIDs(append(catalog, domain.TargetingRuleType{ID: 9, Name: "carrier"}))
	assert.Equal(t, TypeIDs{Devices: 1, Countries: 2, Zones: 3, Browsers: 4, OS: 5, UniqueUsers: 6}, ids)
}

func TestForwardAllDevicesEmitsNoDeviceRule(t *testing.T) {
	ids := ResolveTypeIDs(catalog)
	form := Form{Devices: {Values: []string{"desktop", "mobile", "tablet", "tv"}}}

	assert.Empty(t, Forward(form, ids))
}

func TestForwardDevicesAlwaysWhitelist(t *testing.T) {
	ids := ResolveTypeIDs(catalog)
	form := Form{Devices: {Values: []string{"mobile", "tablet"}, Method: domain.Blacklist}}

	rules := Forward(form, ids)
	require.Len(t, rules, 1)
	assert.Equal(t, domain.TargetingRule{TargetingRuleTypeID: 1, TargetingMethod: domain.Whitelist, Rule: "mobile,tablet"}, rules[0])
}

func TestForwardUniqueUsersEncoding(t *testing.T) {
	ids := ResolveTypeIDs(catalog)
	form := Form{}
	form.SetUniqueUsers(3)

	rules := Forward(form, ids)
	require.Len(t, rules, 1)
	assert.Equal(t, "3,24", rules[0].Rule)
	assert.Equal(t, domain.Whitelist, rules[0].TargetingMethod)

	form.SetUniqueUsers(0)
	assert.Empty(t, Forward(form, ids))
}

func TestForwardSkipsUnknownTypesAndEmptySelections(t *testing.T) {
	ids := TypeIDs{Countries: 2}
	form := Form{
		Countries: {Values: []string{" ", ""}, Method: domain.Blacklist},
		Browsers:  {Values: []string{"chrome"}, Method: domain.Whitelist},
	}
	assert.Empty(t, Forward(form, ids))
}

func TestForwardNeverDuplicatesRuleTypes(t *testing.T) {
	// two dimensions resolved to the same catalog id
	ids := TypeIDs{Countries: 2, Zones: 2}
	form := Form{
		Countries: {Values: []string{"US"}, Method: domain.Whitelist},
		Zones:     {Values: []string{"z1"}, Method: domain.Blacklist},
	}
	rules := Forward(form, ids)
	require.Len(t, rules, 1)
	assert.Equal(t, "z1", rules[0].Rule)
}

func TestRoundTrip(t *testing.T) {
	ids := ResolveTypeIDs(catalog)
	form := Form{
		Devices:   {Values: []string{"desktop", "tv"}, Method: domain.Whitelist},
		Countries: {Values: []string{"US", "DE"}, Method: domain.Blacklist},
		Zones:     {Values: []string{"z1", "6f1c0c2e-8d8e-4f0f-9d43-4d0f3a0c9b11"}, Method: domain.Whitelist},
		Browsers:  {Values: []string{"chrome"}, Method: domain.Blacklist},
		OS:        {Values: []string{"ios", "android"}, Method: domain.Whitelist},
	}
	form.SetUniqueUsers(5)

	assert.Equal(t, form, Reverse(Forward(form, ids), ids))
}

func TestRoundTripAllDevicesIsAsymmetric(t *testing.T) {
	ids := ResolveTypeIDs(catalog)
	form := Form{Devices: {Values: DeviceTypes, Method: domain.Whitelist}}

	back := Reverse(Forward(form, ids), ids)
	_, ok := back[Devices]
	assert.False(t, ok, "collapsed device rule must come back as no selection")
}

func TestReverseTakesCountOfUniqueUsers(t *testing.T) {
	ids := ResolveTypeIDs(catalog)
	form := Reverse([]domain.TargetingRule{{TargetingRuleTypeID: 6, TargetingMethod: domain.Whitelist, Rule: "12,24"}}, ids)
	assert.Equal(t, 12, form.UniqueUsers())
}

func TestUpsertReplacesInPlace(t *testing.T) {
	rules := []domain.TargetingRule{
		{TargetingRuleTypeID: 2, TargetingMethod: domain.Whitelist, Rule: "US"},
		{TargetingRuleTypeID: 4, TargetingMethod: domain.Whitelist, Rule: "chrome"},
	}
	out := Upsert(rules, domain.TargetingRule{TargetingRuleTypeID: 2, TargetingMethod: domain.Blacklist, Rule: "FR"})

	require.Len(t, out, 2)
	assert.Equal(t, int64(4), out[0].TargetingRuleTypeID)
	assert.Equal(t, "FR", out[1].Rule)
	assert.Equal(t, "US", rules[0].Rule)
}

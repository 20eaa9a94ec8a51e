package targeting

import (
	"strconv"
	"strings"

	"mesa-admin/internal/core/domain"
)

// Selection is the form state of one dimension.
type Selection struct {
	Values []string
	Method domain.TargetingMethod
}

// Form holds the selections of every dimension. A missing dimension means no
// restriction.
type Form map[Dimension]Selection

// SetUniqueUsers sets the per-24h unique users cap; n <= 0 clears it.
func (f Form) SetUniqueUsers(n int) {
	if n <= 0 {
		delete(f, UniqueUsers)
		return
	}
	f[UniqueUsers] = Selection{Values: []string{strconv.Itoa(n)}, Method: domain.Whitelist}
}

// UniqueUsers returns the per-24h unique users cap, or 0.
func (f Form) UniqueUsers() int {
	n, _ := strconv.Atoi(firstValue(f[UniqueUsers].Values))
	return n
}

// Forward derives the rule list submitted with a campaign. It emits at most
// one rule per rule type, skips dimensions without a known type id and skips
// selections that do not restrict anything.
func Forward(form Form, ids TypeIDs) []domain.TargetingRule {
	rules := make([]domain.TargetingRule, 0, len(dimensions))
	for _, d := range dimensions {
		id, ok := ids[d.key]
		if !ok {
			continue
		}
		sel := form[d.key]
		values := cleanValues(sel.Values)
		if len(values) == 0 {
			continue
		}
		if d.unrestricted != nil && d.unrestricted(values) {
			continue
		}

		method := sel.Method
		if d.whitelistOnly || !method.Valid() {
			method = domain.Whitelist
		}
		rule := strings.Join(values, ",")
		if d.encode != nil {
			rule = d.encode(values)
		}
		rules = Upsert(rules, domain.TargetingRule{
			TargetingRuleTypeID: id,
			TargetingMethod:     method,
			Rule:                rule,
		})
	}
	return rules
}

// Reverse seeds form state from a campaign's rules. Rules whose type is not
// a known dimension are ignored. A dimension without a rule is absent, so an
// all-devices form that Forward collapsed comes back empty rather than full.
func Reverse(rules []domain.TargetingRule, ids TypeIDs) Form {
	form := make(Form)
	for _, d := range dimensions {
		id, ok := ids[d.key]
		if !ok {
			continue
		}
		for _, r := range rules {
			if r.TargetingRuleTypeID != id {
				continue
			}
			var values []string
			if d.decode != nil {
				values = d.decode(r.Rule)
			} else {
				values = cleanValues(strings.Split(r.Rule, ","))
			}
			if len(values) == 0 {
				break
			}
			method := r.TargetingMethod
			if d.whitelistOnly || !method.Valid() {
				method = domain.Whitelist
			}
			form[d.key] = Selection{Values: values, Method: method}
			break
		}
	}
	return form
}

// Upsert replaces the rule of the same type in place, or appends rule.
func Upsert(rules []domain.TargetingRule, rule domain.TargetingRule) []domain.TargetingRule {
	out := rules[:0:0]
	for _, r := range rules {
		if r.TargetingRuleTypeID != rule.TargetingRuleTypeID {
			out = append(out, r)
		}
	}
	return append(out, rule)
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

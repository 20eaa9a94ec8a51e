package domain

// TargetingMethod decides whether a rule's values are allowed or excluded.
type TargetingMethod string

const (
	Whitelist TargetingMethod = "whitelist"
	Blacklist TargetingMethod = "blacklist"
)

// Valid reports whether m is a known targeting method.
func (m TargetingMethod) Valid() bool {
	return m == Whitelist || m == Blacklist
}

// TargetingRule restricts a campaign along one dimension. Rule is the
// comma-joined wire encoding of a set of values. A campaign carries at most
// one rule per TargetingRuleTypeID.
type TargetingRule struct {
	TargetingRuleTypeID int64           `json:"targeting_rule_type_id" validate:"required,gt=0"`
	TargetingMethod     TargetingMethod `json:"targeting_method" validate:"required,oneof=whitelist blacklist"`
	Rule                string          `json:"rule" validate:"required"`
}

// TargetingRuleType is an entry of the backend's rule-type catalog.
type TargetingRuleType struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Package targeting maps campaign form selections onto targeting rules and
// back.
package targeting

import (
	"strconv"
	"strings"

	"mesa-admin/internal/core/domain"
)

// Dimension is one targeting axis of the campaign form.
type Dimension string

const (
	Devices     Dimension = "devices"
	Countries   Dimension = "countries"
	Zones       Dimension = "zones"
	Browsers    Dimension = "browsers"
	OS          Dimension = "os"
	UniqueUsers Dimension = "unique_users"
)

// DeviceTypes lists every device value. Selecting all of them is the same as
// not restricting devices at all.
var DeviceTypes = []string{"desktop", "mobile", "tablet", "tv"}

// uniqueUsersWindowHours is the fixed frequency-cap window sent with the
// unique users rule.
const uniqueUsersWindowHours = 24

type dimension struct {
	key Dimension
	// names are the lower-cased catalog names that resolve to this dimension.
	names []string
	// whitelistOnly dimensions ignore the selected method.
	whitelistOnly bool
	// unrestricted reports selections that must not produce a rule.
	unrestricted func(values []string) bool
	encode       func(values []string) string
	decode       func(rule string) []string
}

var dimensions = []dimension{
	{
		key:           Devices,
		names:         []string{"device_type", "device", "devices", "device_types"},
		whitelistOnly: true,
		unrestricted:  allDevices,
	},
	{key: Countries, names: []string{"country", "countries", "geo"}},
	{key: Zones, names: []string{"zone", "zones"}},
	{key: Browsers, names: []string{"browser", "browsers"}},
	{key: OS, names: []string{"os", "operating_system", "operating_systems"}},
	{
		key:           UniqueUsers,
		names:         []string{"unique_users", "unique_user", "unique_users_per_24h", "frequency_cap"},
		whitelistOnly: true,
		unrestricted: func(values []string) bool {
			n, err := strconv.Atoi(firstValue(values))
			return err != nil || n <= 0
		},
		encode: func(values []string) string {
			return firstValue(values) + "," + strconv.Itoa(uniqueUsersWindowHours)
		},
		decode: func(rule string) []string {
			count, _, _ := strings.Cut(rule, ",")
			count = strings.TrimSpace(count)
			if count == "" {
				return nil
			}
			return []string{count}
		},
	},
}

func allDevices(values []string) bool {
	have := make(map[string]bool, len(values))
	for _, v := range values {
		have[strings.ToLower(v)] = true
	}
	for _, d := range DeviceTypes {
		if !have[d] {
			return false
		}
	}
	return true
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// normalizeName lower-cases a catalog name and joins words with '_'.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

// TypeIDs maps each dimension to its rule-type id in the backend catalog.
type TypeIDs map[Dimension]int64

// ResolveTypeIDs matches catalog entries to dimensions by name. Dimensions
// with no catalog entry are absent and never produce rules.
func ResolveTypeIDs(catalog []domain.TargetingRuleType) TypeIDs {
	byName := make(map[string]int64, len(catalog))
	for _, t := range catalog {
		byName[normalizeName(t.Name)] = t.ID
	}
	ids := make(TypeIDs, len(dimensions))
	for _, d := range dimensions {
		for _, n := range d.names {
			if id, ok := byName[n]; ok {
				ids[d.key] = id
				break
			}
		}
	}
	return ids
}

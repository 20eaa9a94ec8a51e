// Package query turns option maps into URL query strings.
package query

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Transform overrides the encoding of one field. Returning false drops the
// field from the query.
type Transform func(v any) (string, bool)

// Config customises Build per field.
type Config struct {
	Transforms map[string]Transform
	Omit       []string
}

// Build encodes params as a query string without the leading '?'. Nil values
// and omitted keys are skipped, slices are comma-joined and scalars are
// stringified. A Transform for a key takes precedence over all of that. Keys
// are emitted in sorted order.
func Build(params map[string]any, cfg Config) string {
	values := make(url.Values, len(params))
	for key, raw := range params {
		if omitted(cfg.Omit, key) {
			continue
		}
		if tr, ok := cfg.Transforms[key]; ok && tr != nil {
			if s, keep := tr(raw); keep {
				values.Set(key, s)
			}
			continue
		}
		if s, ok := Encode(raw); ok {
			values.Set(key, s)
		}
	}
	return values.Encode()
}

// WithQuery appends the encoded query to path.
func WithQuery(path, q string) string {
	if q == "" {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + q
	}
	return path + "?" + q
}

// Encode renders a single value the way Build does. It reports false for
// nil values, nil pointers and empty slices.
func Encode(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case []string:
		if len(t) == 0 {
			return "", false
		}
		return strings.Join(t, ","), true
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", false
		}
		return t.String(), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
		return Encode(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "", false
		}
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if s, ok := Encode(rv.Index(i).Interface()); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ","), true
	case reflect.Map:
		return "", false
	}
	return fmt.Sprint(v), true
}

func omitted(omit []string, key string) bool {
	for _, o := range omit {
		if o == key {
			return true
		}
	}
	return false
}

var sortSuffix = regexp.MustCompile(`_\d+$`)

// StripSortSuffix removes a trailing cache-busting timestamp from a sort
// field, so "created_at_1717171717171" reaches the wire as "created_at".
func StripSortSuffix(v any) (string, bool) {
	s, ok := Encode(v)
	if !ok || s == "" {
		return "", false
	}
	return sortSuffix.ReplaceAllString(s, ""), true
}

// SortConfig is the configuration shared by list endpoints.
func SortConfig() Config {
	return Config{Transforms: map[string]Transform{"sort": StripSortSuffix}}
}

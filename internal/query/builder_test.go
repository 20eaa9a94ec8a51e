package query

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSkipsNilAndOmitted(t *testing.T) {
	var nilPtr *int64
	q := Build(map[string]any{
		"page":   1,
		"status": nil,
		"zone":   nilPtr,
		"secret": "x",
		"search": "spring sale",
	}, Config{Omit: []string{"secret"}})

	values, err := url.ParseQuery(q)
	require.NoError(t, err)
	assert.Equal(t, "1", values.Get("page"))
	assert.Equal(t, "spring sale", values.Get("search"))
	for _, key := range []string{"status", "zone", "secret"} {
		assert.NotContains(t, values, key)
	}
}

func TestBuildJoinsSlicesOnce(t *testing.T) {
	q := Build(map[string]any{
		"countries": []string{"US", "DE", "FR"},
		"ids":       []int64{3, 5},
		"empty":     []string{},
	}, Config{})

	values, err := url.ParseQuery(q)
	require.NoError(t, err)
	assert.Equal(t, []string{"US,DE,FR"}, values["countries"])
	assert.Equal(t, []string{"3,5"}, values["ids"])
	assert.NotContains(t, values, "empty")
	assert.Equal(t, 1, strings.Count(q, "countries="))
}

func TestBuildScalars(t *testing.T) {
	q := Build(map[string]any{"active": true, "rate": 1.5, "limit": int64(10)}, Config{})
	assert.Equal(t, "active=true&limit=10&rate=1.5", q)
}

func TestTransformOverridesAndMayDrop(t *testing.T) {
	cfg := Config{Transforms: map[string]Transform{
		"sort":  StripSortSuffix,
		"order": func(any) (string, bool) { return "", false },
	}}
	q := Build(map[string]any{"sort": "created_at_1717171717171", "order": "desc"}, cfg)
	assert.Equal(t, "sort=created_at", q)
}

func TestStripSortSuffixLeavesPlainFields(t *testing.T) {
	s, ok := StripSortSuffix("created_at")
	require.True(t, ok)
	assert.Equal(t, "created_at", s)

	_, ok = StripSortSuffix(nil)
	assert.False(t, ok)
}

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "/api/zones", WithQuery("/api/zones", ""))
	assert.Equal(t, "/api/zones?page=2", WithQuery("/api/zones", "page=2"))
	assert.Equal(t, "/api/zones?a=1&page=2", WithQuery("/api/zones?a=1", "page=2"))
}

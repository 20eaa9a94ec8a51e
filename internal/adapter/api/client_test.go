package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/metrics"
)

func TestClientSendsBearerAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"name":"Spring"}`))
	}))
	defer srv.Close()

	m := metrics.NewClient(nil)
	c := NewClient(srv.URL+"/", WithMetrics(m))
	c.SetAPIKey("secret")

	var got domain.Campaign
	require.NoError(t, c.Get(context.Background(), "/api/campaigns/7", &got))
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "Spring", got.Name)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "200")))
}

func TestClientOmitsAuthorizationWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL).Delete(context.Background(), "/api/keys/x", nil))
}

func TestClientErrorContract(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantKind    domain.Kind
		wantMessage string
	}{
		{"json business", http.StatusConflict, "application/json", `{"error":"completed campaigns cannot be reactivated"}`, domain.KindBusiness, "completed campaigns cannot be reactivated"},
		{"json auth", http.StatusUnauthorized, "application/json", `{"error":"invalid api key"}`, domain.KindAuth, "invalid api key"},
		{"json validation", http.StatusBadRequest, "application/json", `{"error":"invalid input","fields":{"name":"is required"}}`, domain.KindValidation, "invalid input"},
		{"html gateway", http.StatusBadGateway, "text/html", `<html>bad gateway</html>`, domain.KindUnknown, "API error (502)"},
		{"plain not found", http.StatusNotFound, "text/plain", `404 page not found`, domain.KindBusiness, "API error (404)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewClient(srv.URL).Post(context.Background(), "/api/campaigns", map[string]string{"name": "x"}, nil)
			require.Error(t, err)

			var apiErr *domain.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Error())
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewClient(url).Get(context.Background(), "/api/me", nil)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNetwork))
}

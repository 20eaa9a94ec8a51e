// Package metrics holds the Prometheus collectors of the admin client and
// the development backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Client groups the collectors recorded by the API client and list services.
type Client struct {
	// Requests counts backend calls partitioned by method and status code.
	Requests *prometheus.CounterVec
	// Duration records backend latencies in seconds.
	Duration *prometheus.HistogramVec
	// CacheLookups counts cache reads per cache and result (hit, miss, skip).
	CacheLookups *prometheus.CounterVec
}

// NewClient creates the collectors and registers them on reg. A nil reg
// leaves them unregistered, which is what tests want.
func NewClient(reg prometheus.Registerer) *Client {
	f := promauto.With(reg)
	return &Client{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mesa_admin_api_requests_total",
			Help: "Total number of backend API requests",
		}, []string{"method", "status"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mesa_admin_api_request_duration_seconds",
			Help:    "Backend API request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mesa_admin_cache_lookups_total",
			Help: "Cache lookups partitioned by cache and result",
		}, []string{"cache", "result"}),
	}
}

// Server groups the collectors of the development backend.
type Server struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
	// CompletedCampaigns counts campaigns moved to completed by the
	// expiry job.
	CompletedCampaigns prometheus.Counter
}

// NewServer creates the devserver collectors on reg. Route labels use chi
// route patterns to keep cardinality low.
func NewServer(reg prometheus.Registerer) *Server {
	f := promauto.With(reg)
	return &Server{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mesa_devserver_http_requests_total",
			Help: "Total number of HTTP requests processed",
		}, []string{"method", "route", "status"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mesa_devserver_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "mesa_devserver_http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		}),
		CompletedCampaigns: f.NewCounter(prometheus.CounterOpts{
			Name: "mesa_devserver_campaigns_completed_total",
			Help: "Campaigns completed because their end date passed",
		}),
	}
}

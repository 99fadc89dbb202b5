package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup outcomes
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds the service's prometheus collectors
type Metrics struct {
	MessagesProcessed prometheus.Counter
	InterestScore     prometheus.Histogram
	MatchesReturned   prometheus.Histogram
	SearchRequests    prometheus.Counter
	CatalogCache      *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// NewMetrics registers all collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MessagesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "foodiebot_messages_processed_total",
			Help: "Total number of user messages scored",
		}),
		InterestScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "foodiebot_interest_score",
			Help:    "Distribution of engagement scores per message",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		MatchesReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "foodiebot_matches_returned",
			Help:    "Number of products recommended per message",
			Buckets: prometheus.LinearBuckets(0, 1, 7),
		}),
		SearchRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "foodiebot_search_requests_total",
			Help: "Total number of plain catalog searches",
		}),
		CatalogCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "foodiebot_catalog_cache_lookups_total",
			Help: "Catalog snapshot cache lookups by result",
		}, []string{"result"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "foodiebot_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodiebot_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

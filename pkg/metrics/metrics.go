package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SyncAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "trstyle", Name: "profile_sync_attempts_total", Help: "Profile sync write attempts by store path."},
		[]string{"path"},
	)
	SyncCommits = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "trstyle", Name: "profile_sync_commits_total", Help: "Successful profile sync commits by store path."},
		[]string{"path"},
	)
	SyncFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "trstyle", Name: "profile_sync_fallbacks_total", Help: "Fallbacks to the next store path, labelled by the failure kind that caused them."},
		[]string{"path", "kind"},
	)
	SyncFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "trstyle", Name: "profile_sync_failures_total", Help: "Sync invocations where every store path failed."},
	)
	CatalogSearches = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "trstyle", Name: "catalog_searches_total", Help: "Catalog search queries served."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "trstyle", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "trstyle", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(SyncAttempts)
	reg.MustRegister(SyncCommits)
	reg.MustRegister(SyncFallbacks)
	reg.MustRegister(SyncFailures)
	reg.MustRegister(CatalogSearches)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}

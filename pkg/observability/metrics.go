package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// UpstreamRequestsTotal tracks calls made against the YouTube Data API
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nichefy_upstream_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"endpoint", "status"}, // status: success, api_error, http_error, quota_exhausted
	)

	// UpstreamRequestDuration measures upstream request latency in seconds
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nichefy_upstream_request_duration_seconds",
			Help:    "Upstream API request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"endpoint"},
	)

	// QuotaUnitsConsumed tracks quota units charged to each key in the current epoch
	QuotaUnitsConsumed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nichefy_quota_units_consumed",
			Help: "Quota units consumed per API key in the current epoch",
		},
		[]string{"credential"},
	)

	// QuotaCredentialsAvailable tracks how many keys are below their daily cap
	QuotaCredentialsAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nichefy_quota_credentials_available",
			Help: "Number of API keys with remaining daily capacity",
		},
	)

	// CyclesTotal counts discovery cycles by outcome
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nichefy_cycles_total",
			Help: "Total number of discovery cycles",
		},
		[]string{"status"}, // status: success, failed, panicked
	)

	// CycleDuration measures discovery cycle duration in seconds
	CycleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nichefy_cycle_duration_seconds",
			Help:    "Discovery cycle duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~8.5m
		},
		[]string{"status"},
	)

	// CandidatesTotal counts unique search candidates found per cycle
	CandidatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nichefy_candidates_total",
			Help: "Total number of unique candidate videos found by search",
		},
	)

	// VideosEvaluatedTotal counts videos that reached the classifier
	VideosEvaluatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nichefy_videos_evaluated_total",
			Help: "Total number of videos evaluated by the classifier",
		},
	)

	// OutliersTotal counts qualifying outliers by type
	OutliersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nichefy_outliers_total",
			Help: "Total number of outliers found",
		},
		[]string{"type", "faceless"},
	)

	// EnrichmentTotal counts enrichment attempts by result
	EnrichmentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nichefy_enrichment_total",
			Help: "Total number of enrichment attempts",
		},
		[]string{"result"}, // result: generated, cached, fallback, disabled
	)

	// EnrichmentDuration measures text generation latency in seconds
	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nichefy_enrichment_duration_seconds",
			Help:    "Text generation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~100s
		},
	)

	// StoreUpsertsTotal counts upsert batches by status
	StoreUpsertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nichefy_store_upserts_total",
			Help: "Total number of outlier upsert batches",
		},
		[]string{"driver", "status"},
	)

	// StoreRowsUpserted counts rows written by upserts
	StoreRowsUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nichefy_store_rows_upserted_total",
			Help: "Total number of outlier rows upserted",
		},
		[]string{"driver"},
	)

	// SchedulerState is 1 for the scheduler's current state and 0 for the others
	SchedulerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nichefy_scheduler_state",
			Help: "Current scheduler state (1=active)",
		},
		[]string{"state"},
	)

	// QuotaSleepSeconds is the length of the most recent quota sleep
	QuotaSleepSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nichefy_quota_sleep_seconds",
			Help: "Duration of the most recent quota exhaustion sleep in seconds",
		},
	)

	// ErrorsTotal counts total number of errors
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nichefy_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordUpstreamRequest records an upstream API call
func RecordUpstreamRequest(endpoint, status string, duration float64) {
	UpstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
	if duration > 0 {
		UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration)
	}
}

// RecordQuotaUsage records the consumption of a single key
func RecordQuotaUsage(credential string, consumed int64) {
	QuotaUnitsConsumed.WithLabelValues(credential).Set(float64(consumed))
}

// RecordCredentialsAvailable records how many keys have capacity left
func RecordCredentialsAvailable(count int) {
	QuotaCredentialsAvailable.Set(float64(count))
}

// RecordCycle records a finished discovery cycle
func RecordCycle(status string, duration float64) {
	CyclesTotal.WithLabelValues(status).Inc()
	CycleDuration.WithLabelValues(status).Observe(duration)
}

// RecordCandidates records candidates found by the search fan-out
func RecordCandidates(count int) {
	CandidatesTotal.Add(float64(count))
}

// RecordVideosEvaluated records videos handed to the classifier
func RecordVideosEvaluated(count int) {
	VideosEvaluatedTotal.Add(float64(count))
}

// RecordOutlier records a qualifying outlier
func RecordOutlier(videoType string, faceless bool) {
	label := "false"
	if faceless {
		label = "true"
	}

	OutliersTotal.WithLabelValues(videoType, label).Inc()
}

// RecordEnrichment records an enrichment attempt
func RecordEnrichment(result string, duration float64) {
	EnrichmentTotal.WithLabelValues(result).Inc()
	if duration > 0 {
		EnrichmentDuration.Observe(duration)
	}
}

// RecordUpsert records an upsert batch
func RecordUpsert(driver, status string, rows int) {
	StoreUpsertsTotal.WithLabelValues(driver, status).Inc()
	if status == "success" {
		StoreRowsUpserted.WithLabelValues(driver).Add(float64(rows))
	}
}

// RecordSchedulerState marks state as the current scheduler state
func RecordSchedulerState(state string, all []string) {
	for _, s := range all {
		value := 0.0
		if s == state {
			value = 1
		}

		SchedulerState.WithLabelValues(s).Set(value)
	}
}

// RecordQuotaSleep records the length of a quota exhaustion sleep
func RecordQuotaSleep(seconds float64) {
	QuotaSleepSeconds.Set(seconds)
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

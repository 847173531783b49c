package inbox

import (
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/reports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_inbox_source_fetches_total",
	Help: "Report source reads by source and resulting load state",
}, []string{"source", "state"})

var sourceCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_inbox_source_cache_hits_total",
	Help: "Report source reads served from the inbox cache",
}, []string{"source"})

var inboxLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "moderation_inbox_load_duration_seconds",
	Help:    "Time to load and aggregate the inbox",
	Buckets: prometheus.DefBuckets,
})

var resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_reports_resolved_total",
	Help: "Reports moved to a terminal status by type and decision",
}, []string{"type", "decision"})

var creatorActions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_creator_actions_total",
	Help: "Creator moderation actions applied from the inbox",
}, []string{"action"})

// ObserveResolution counts a report reaching a terminal status.
func ObserveResolution(t reports.Type, d reports.Decision) {
	resolutions.WithLabelValues(string(t), string(d)).Inc()
}

func ObserveCreatorAction(a reports.CreatorAction) {
	creatorActions.WithLabelValues(string(a)).Inc()
}

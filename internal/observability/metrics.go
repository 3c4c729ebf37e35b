package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	persistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nutristep_import",
		Subsystem: "persistence",
		Name:      "last_record_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent record persisted to Postgres.",
	})
	stagedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nutristep_import",
		Subsystem: "pipeline",
		Name:      "candidates_staged_total",
		Help:      "Candidates returned to callers for review, by kind.",
	}, []string{"kind"})
	importedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nutristep_import",
		Subsystem: "pipeline",
		Name:      "records_imported_total",
		Help:      "Records persisted by commits, by kind.",
	}, []string{"kind"})
	skippedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nutristep_import",
		Subsystem: "pipeline",
		Name:      "commit_skipped_existing_total",
		Help:      "Selected entries skipped because the record already existed at commit time.",
	})
)

func init() {
	prometheus.MustRegister(persistGauge, stagedCounter, importedCounter, skippedCounter)
}

// RecordPersisted updates the persistence watermark gauge.
func RecordPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	persistGauge.Set(float64(ts.Unix()))
}

// RecordStaged counts candidates handed back for review.
func RecordStaged(steps, activities int) {
	stagedCounter.WithLabelValues("steps").Add(float64(steps))
	stagedCounter.WithLabelValues("activity").Add(float64(activities))
}

// RecordImported counts commit outcomes.
func RecordImported(steps, activities, skipped int) {
	importedCounter.WithLabelValues("steps").Add(float64(steps))
	importedCounter.WithLabelValues("activity").Add(float64(activities))
	skippedCounter.Add(float64(skipped))
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	syncRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mariiahub_sync",
			Name:      "runs_total",
			Help:      "Completed sync drain passes.",
		},
	)

	recordsSynced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mariiahub_sync",
			Name:      "records_synced_total",
			Help:      "Booking records successfully synced.",
		},
	)

	recordsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mariiahub_sync",
			Name:      "records_failed_total",
			Help:      "Booking records whose submission failed.",
		},
	)

	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mariiahub_sync",
			Name:      "queue_pending",
			Help:      "Booking records currently pending sync.",
		},
	)

	online = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mariiahub_sync",
			Name:      "connectivity_online",
			Help:      "1 when the device is considered online.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(syncRuns, recordsSynced, recordsFailed, queueDepth, online)
	})
}

// IncSyncRun counts one completed drain pass.
func IncSyncRun() {
	syncRuns.Inc()
}

// AddSynced counts successfully submitted records.
func AddSynced(n int) {
	recordsSynced.Add(float64(n))
}

// AddFailed counts failed submissions.
func AddFailed(n int) {
	recordsFailed.Add(float64(n))
}

// SetQueueDepth records the current pending backlog.
func SetQueueDepth(n int) {
	queueDepth.Set(float64(n))
}

// SetOnline records the connectivity state.
func SetOnline(up bool) {
	if up {
		online.Set(1)
		return
	}
	online.Set(0)
}

package bot

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aurimasl/voxpense/internal/pkg/metrics"
)

type serviceMetric struct {
	jobs     *prometheus.CounterVec
	stageDur *prometheus.HistogramVec
}

func initMetrics(data *ServiceData) error {
	namespace := "voxpense"
	data.metrics.jobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Processed voice notes by final status.",
		}, []string{"result"})
	err := metrics.Register(data.metrics.jobs)
	if err != nil {
		return err
	}
	data.metrics.stageDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage latency distributions.",
		}, []string{"stage"})
	return metrics.Register(data.metrics.stageDur)
}

func (m *serviceMetric) countJob(result string) {
	if m.jobs != nil {
		m.jobs.WithLabelValues(result).Inc()
	}
}

func (m *serviceMetric) observe(stage string, d time.Duration) {
	if m.stageDur != nil {
		m.stageDur.WithLabelValues(stage).Observe(d.Seconds())
	}
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Triggers that can lead to a post.
const (
	TriggerCron   = "cron"
	TriggerManual = "manual"
)

// Failure stages.
const (
	StageGenerate = "generate"
	StagePublish  = "publish"
)

// Metrics holds the bot counters on their own registry so several
// instances can coexist (one per test).
type Metrics struct {
	registry    *prometheus.Registry
	posts       *prometheus.CounterVec
	skips       prometheus.Counter
	failures    *prometheus.CounterVec
	storeErrors *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		posts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tweetbot_posts_total",
			Help: "Tweets published, by trigger",
		}, []string{"trigger"}),
		skips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tweetbot_skips_total",
			Help: "Scheduled checks that decided not to post",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tweetbot_failures_total",
			Help: "Failed post attempts, by stage",
		}, []string{"stage"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tweetbot_store_errors_total",
			Help: "Degraded last-post-time store operations",
		}, []string{"op"}),
	}
	m.registry.MustRegister(
		m.posts,
		m.skips,
		m.failures,
		m.storeErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Posted(trigger string) {
	m.posts.WithLabelValues(trigger).Inc()
}

func (m *Metrics) Skipped() {
	m.skips.Inc()
}

func (m *Metrics) Failed(stage string) {
	m.failures.WithLabelValues(stage).Inc()
}

// StoreError matches db.ErrorObserver.
func (m *Metrics) StoreError(op string) {
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

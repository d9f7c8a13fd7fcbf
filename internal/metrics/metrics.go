package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Webhook outcomes. Kept low-cardinality on purpose.
const (
	OutcomeOK               = "ok"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeDuplicate        = "duplicate"
	OutcomeRejected         = "rejected"
	OutcomeError            = "error"
)

// Webhook records the result and latency of every processed notification.
type Webhook struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewWebhook registers the webhook collectors on reg. A nil reg falls back
// to prometheus.DefaultRegisterer.
func NewWebhook(reg prometheus.Registerer) *Webhook {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_webhook_total",
		Help: "Payment notifications processed by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_webhook_duration_seconds",
		Help:    "Payment notification processing latency by outcome.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"outcome"})

	reg.MustRegister(total, duration)

	return &Webhook{
		total:    total,
		duration: duration,
	}
}

func (w *Webhook) Observe(outcome string, d time.Duration) {
	if w == nil {
		return
	}
	w.total.WithLabelValues(outcome).Inc()
	w.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

// Handler serves the collectors gathered by g, or the default gatherer when g is nil.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Recorder captures gateway traffic and authorization outcomes
type Recorder interface {
	ObserveRequest(method, route, status string, durationSeconds float64)
	IncDecision(stage, outcome string)
	IncAPIKeyEvent(event string)
}

// Noop implements Recorder without emitting anything.
type Noop struct{}

func (Noop) ObserveRequest(string, string, string, float64) {}
func (Noop) IncDecision(string, string)                     {}
func (Noop) IncAPIKeyEvent(string)                          {}

// Prom implements Recorder backed by Prometheus collectors.
type Prom struct {
	registry  *prometheus.Registry
	requests  *prometheus.HistogramVec
	decisions *prometheus.CounterVec
	apiKeys   *prometheus.CounterVec
}

func NewProm(namespace string) *Prom {
	p := &Prom{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authz_decisions_total",
			Help:      "Authorization pipeline outcomes by stage",
		}, []string{"stage", "outcome"}),
		apiKeys: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_key_events_total",
			Help:      "API key lifecycle events",
		}, []string{"event"}),
	}

	p.registry.MustRegister(
		p.requests,
		p.decisions,
		p.apiKeys,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// Registry exposes the private registry for the /metrics handler
func (p *Prom) Registry() *prometheus.Registry {
	return p.registry
}

func (p *Prom) ObserveRequest(method, route, status string, durationSeconds float64) {
	p.requests.WithLabelValues(method, route, status).Observe(durationSeconds)
}

func (p *Prom) IncDecision(stage, outcome string) {
	p.decisions.WithLabelValues(stage, outcome).Inc()
}

func (p *Prom) IncAPIKeyEvent(event string) {
	p.apiKeys.WithLabelValues(event).Inc()
}

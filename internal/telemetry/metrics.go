package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics - счётчики диалогового движка.
// Нулевой *Metrics допустим: все методы ничего не делают.
type Metrics struct {
	registry *prometheus.Registry

	events      *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	commits     *prometheus.CounterVec
	flowsOpened *prometheus.CounterVec
	flowsClosed *prometheus.CounterVec
	renderFails prometheus.Counter
}

// NewMetrics регистрирует метрики в отдельном реестре
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialog_events_total",
			Help:      "Inbound events dispatched by step and outcome",
		}, []string{"step", "outcome"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialog_rejections_total",
			Help:      "Inputs rejected by a guard",
		}, []string{"step", "reason"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialog_commits_total",
			Help:      "Commit phase results by flow",
		}, []string{"flow", "result"}),
		flowsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialog_flows_started_total",
			Help:      "Flows started",
		}, []string{"flow"}),
		flowsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialog_flows_cleared_total",
			Help:      "Flows cleared by reason",
		}, []string{"reason"}),
		renderFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialog_render_failures_total",
			Help:      "Outgoing prompts that failed to send",
		}),
	}

	registry.MustRegister(
		m.events,
		m.rejections,
		m.commits,
		m.flowsOpened,
		m.flowsClosed,
		m.renderFails,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry нужен тестам и для регистрации внешних коллекторов
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Event(step, outcome string) {
	if m != nil {
		m.events.WithLabelValues(step, outcome).Inc()
	}
}

func (m *Metrics) Rejection(step, reason string) {
	if m != nil {
		m.rejections.WithLabelValues(step, reason).Inc()
	}
}

func (m *Metrics) Commit(flow, result string) {
	if m != nil {
		m.commits.WithLabelValues(flow, result).Inc()
	}
}

func (m *Metrics) FlowStarted(flow string) {
	if m != nil {
		m.flowsOpened.WithLabelValues(flow).Inc()
	}
}

func (m *Metrics) FlowCleared(reason string) {
	if m != nil {
		m.flowsClosed.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) RenderFailed() {
	if m != nil {
		m.renderFails.Inc()
	}
}

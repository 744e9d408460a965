package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service counters. A nil *Metrics is valid and records
// nothing, so services and tests can run without a registry.
type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal      *prometheus.CounterVec
	SearchResults      prometheus.Histogram
	ChatTurnsTotal     *prometheus.CounterVec
	ChatSessions       prometheus.Gauge
	ValuationsTotal    prometheus.Counter
	ContactTotal       *prometheus.CounterVec
	NewsletterTotal    *prometheus.CounterVec
	AssistantFallbacks *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estate_searches_total",
			Help: "Natural language searches by parser source",
		}, []string{"source"}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "estate_search_results",
			Help:    "Number of candidates left after filtering",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 10},
		}),
		ChatTurnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estate_chat_turns_total",
			Help: "Chat turns by dispatched topic",
		}, []string{"topic"}),
		ChatSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "estate_chat_sessions",
			Help: "Open chat sessions",
		}),
		ValuationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "estate_valuations_total",
			Help: "Completed property valuations",
		}),
		ContactTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estate_contact_submissions_total",
			Help: "Contact form submissions by outcome",
		}, []string{"outcome"}),
		NewsletterTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estate_newsletter_subscriptions_total",
			Help: "Newsletter signups by outcome",
		}, []string{"outcome"}),
		AssistantFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estate_assistant_fallbacks_total",
			Help: "Generative assistant failures answered by the rule engine",
		}, []string{"operation"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estate_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"route", "method", "status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SearchesTotal,
		m.SearchResults,
		m.ChatTurnsTotal,
		m.ChatSessions,
		m.ValuationsTotal,
		m.ContactTotal,
		m.NewsletterTotal,
		m.AssistantFallbacks,
		m.HTTPRequests,
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveSearch(source string, results int) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(source).Inc()
	m.SearchResults.Observe(float64(results))
}

func (m *Metrics) ObserveChatTurn(topic string) {
	if m == nil {
		return
	}
	m.ChatTurnsTotal.WithLabelValues(topic).Inc()
}

func (m *Metrics) SetChatSessions(n int) {
	if m == nil {
		return
	}
	m.ChatSessions.Set(float64(n))
}

func (m *Metrics) ObserveValuation() {
	if m == nil {
		return
	}
	m.ValuationsTotal.Inc()
}

func (m *Metrics) ObserveContact(outcome string) {
	if m == nil {
		return
	}
	m.ContactTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveNewsletter(outcome string) {
	if m == nil {
		return
	}
	m.NewsletterTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveAssistantFallback(operation string) {
	if m == nil {
		return
	}
	m.AssistantFallbacks.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObserveHTTP(route, method, status string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, status).Inc()
}

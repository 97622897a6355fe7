package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/techagentng/askx/services"
)

type metrics struct {
	registry        *prometheus.Registry
	votes           *prometheus.CounterVec
	reputationDelta *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "askx",
			Name:      "votes_total",
			Help:      "Reconciled vote requests by target type and transition.",
		}, []string{"type", "transition"}),
		reputationDelta: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "askx",
			Name:      "reputation_points_total",
			Help:      "Reputation points granted and taken by votes.",
		}, []string{"direction"}),
	}
	m.registry.MustRegister(
		m.votes,
		m.reputationDelta,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) observeVote(targetType string, outcome *services.VoteOutcome) {
	m.votes.WithLabelValues(targetType, string(outcome.Transition)).Inc()
	switch {
	case outcome.Delta > 0:
		m.reputationDelta.WithLabelValues("granted").Add(float64(outcome.Delta))
	case outcome.Delta < 0:
		m.reputationDelta.WithLabelValues("taken").Add(float64(-outcome.Delta))
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
